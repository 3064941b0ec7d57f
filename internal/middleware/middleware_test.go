package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/expensecentral/internal/auth"
	"github.com/mmynk/expensecentral/internal/metrics"
	"github.com/mmynk/expensecentral/internal/models"
	"github.com/mmynk/expensecentral/pkg/api"
)

const (
	whoAmIProcedure = "/test.v1.TestService/WhoAmI"
	publicProcedure = "/test.v1.TestService/Public"
)

// whoAmI echoes the authenticated user's ID as the display name.
func whoAmI(ctx context.Context, _ *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return connect.NewResponse(&api.GetCurrentUserResponse{User: &api.User{ID: GetUserID(ctx), Email: GetEmail(ctx)}}), nil
}

func setupInterceptorServer(t *testing.T, interceptors ...connect.Interceptor) (whoami, public *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]) {
	t.Helper()

	opts := []connect.HandlerOption{connect.WithCodec(api.Codec{}), connect.WithInterceptors(interceptors...)}
	mux := http.NewServeMux()
	mux.Handle(whoAmIProcedure, connect.NewUnaryHandler(whoAmIProcedure, whoAmI, opts...))
	mux.Handle(publicProcedure, connect.NewUnaryHandler(publicProcedure, whoAmI, opts...))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	codec := connect.WithCodec(api.Codec{})
	whoami = connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](http.DefaultClient, server.URL+whoAmIProcedure, codec)
	public = connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](http.DefaultClient, server.URL+publicProcedure, codec)
	return whoami, public
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "alice-id", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	whoami, public := setupInterceptorServer(t, RequireAuth(jwtManager, publicProcedure))
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "Bearer "+token)
		resp, err := whoami.CallUnary(ctx, req)
		if err != nil {
			t.Fatalf("call failed: %v", err)
		}
		if resp.Msg.User.ID != "alice-id" || resp.Msg.User.Email != "alice@example.com" {
			t.Errorf("user = %+v", resp.Msg.User)
		}
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + token},
		{"no token", "Bearer"},
		{"bad token", "Bearer nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&api.GetCurrentUserRequest{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}
			_, err := whoami.CallUnary(ctx, req)
			if connect.CodeOf(err) != connect.CodeUnauthenticated {
				t.Errorf("code = %v, want unauthenticated (err %v)", connect.CodeOf(err), err)
			}
		})
	}

	t.Run("public procedure skips auth", func(t *testing.T) {
		resp, err := public.CallUnary(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		if err != nil {
			t.Fatalf("call failed: %v", err)
		}
		if resp.Msg.User.ID != "" {
			t.Errorf("expected no user, got %q", resp.Msg.User.ID)
		}
	})
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		" Bearer abc ": "abc",
		"Bearer":       "",
		"Token abc":    "",
	}
	for header, want := range tests {
		got, ok := bearerToken(header)
		if got != want || ok != (want != "") {
			t.Errorf("bearerToken(%q) = %q, %v", header, got, ok)
		}
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	whoami, _ := setupInterceptorServer(t, LoggingInterceptor(logger))

	if _, err := whoami.CallUnary(context.Background(), connect.NewRequest(&api.GetCurrentUserRequest{})); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "RPC ok") || !strings.Contains(out, whoAmIProcedure) {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	// Metrics outermost so rejected calls are counted too.
	whoami, public := setupInterceptorServer(t, MetricsInterceptor(m), RequireAuth(jwtManager, publicProcedure))
	ctx := context.Background()

	if _, err := public.CallUnary(ctx, connect.NewRequest(&api.GetCurrentUserRequest{})); err != nil {
		t.Fatalf("public call failed: %v", err)
	}
	if _, err := whoami.CallUnary(ctx, connect.NewRequest(&api.GetCurrentUserRequest{})); err == nil {
		t.Fatal("expected unauthenticated error")
	}

	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues(publicProcedure, "ok")); got != 1 {
		t.Errorf("public ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues(whoAmIProcedure, "unauthenticated")); got != 1 {
		t.Errorf("whoami unauthenticated = %v, want 1", got)
	}
}
