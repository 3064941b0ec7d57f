package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/expensecentral/internal/auth"
	"github.com/mmynk/expensecentral/internal/metrics"
	"github.com/mmynk/expensecentral/internal/middleware"
	"github.com/mmynk/expensecentral/internal/models"
	"github.com/mmynk/expensecentral/internal/notify"
	"github.com/mmynk/expensecentral/internal/storage/sqlite"
	"github.com/mmynk/expensecentral/internal/workflow"
	"github.com/mmynk/expensecentral/pkg/api/apiconnect"
)

// testUserHeader names the user a test request acts as.
const testUserHeader = "X-Test-User"

// testAuthInterceptor returns a Connect interceptor that trusts testUserHeader.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = middleware.WithUserID(ctx, userID)
			}
			return next(ctx, req)
		}
	}
}

// as builds a request made by userID.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, userID)
	return req
}

// testClock starts at start and moves one second forward on every reading,
// so records created in sequence have distinct, ordered timestamps.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

var clockStart = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store     *sqlite.SQLiteStore
	publisher *notify.MemoryPublisher
	metrics   *metrics.Metrics
	clock     *testClock
	jwt       *auth.JWTManager

	auth        apiconnect.AuthServiceClient
	friends     apiconnect.FriendServiceClient
	ledger      apiconnect.LedgerServiceClient
	settlements apiconnect.SettlementServiceClient
}

// setupTestServer serves all four services over a temp SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	env := &testEnv{
		store:     store,
		publisher: &notify.MemoryPublisher{},
		metrics:   metrics.New(),
		clock:     &testClock{t: clockStart},
		jwt:       auth.NewJWTManager("test-secret", time.Hour),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := Deps{Store: store, Publisher: env.publisher, Metrics: env.metrics, Logger: logger}

	friendSvc := NewFriendService(deps)
	ledgerSvc := NewLedgerService(deps)
	settlementSvc := NewSettlementService(deps)
	for _, b := range []*base{&friendSvc.base, &ledgerSvc.base, &settlementSvc.base} {
		b.now = env.clock.Now
	}
	authSvc := NewAuthService(auth.NewPasswordAuthenticator(store), env.jwt, store, logger)

	testAuth := connect.WithInterceptors(testAuthInterceptor())
	realAuth := connect.WithInterceptors(middleware.RequireAuth(env.jwt,
		apiconnect.AuthServiceRegisterProcedure,
		apiconnect.AuthServiceLoginProcedure,
	))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, realAuth))
	mux.Handle(apiconnect.NewFriendServiceHandler(friendSvc, testAuth))
	mux.Handle(apiconnect.NewLedgerServiceHandler(ledgerSvc, testAuth))
	mux.Handle(apiconnect.NewSettlementServiceHandler(settlementSvc, testAuth))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env.auth = apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
	env.friends = apiconnect.NewFriendServiceClient(http.DefaultClient, server.URL)
	env.ledger = apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL)
	env.settlements = apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL)
	return env
}

// newUser stores a user directly, skipping password hashing.
func (e *testEnv) newUser(t *testing.T, name string) string {
	t.Helper()
	u := models.NewUser(name+"@example.com", name, "unused")
	if err := e.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return u.ID
}

// befriend makes a and b friends.
func (e *testEnv) befriend(t *testing.T, a, b string) {
	t.Helper()
	ctx := context.Background()
	fr, err := workflow.NewFriendRequest(a, b, nil, nil, e.clock.Now())
	if err != nil {
		t.Fatalf("NewFriendRequest failed: %v", err)
	}
	if err := e.store.CreateFriendRequest(ctx, fr); err != nil {
		t.Fatalf("CreateFriendRequest failed: %v", err)
	}
	friendships, err := workflow.RespondToFriendRequest(fr, true, e.clock.Now())
	if err != nil {
		t.Fatalf("RespondToFriendRequest failed: %v", err)
	}
	if err := e.store.ResolveFriendRequest(ctx, fr, friendships); err != nil {
		t.Fatalf("ResolveFriendRequest failed: %v", err)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code = %v, want %v (err: %v)", got, want, err)
	}
}
