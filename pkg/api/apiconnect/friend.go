package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/expensecentral/pkg/api"
)

// FriendServiceName is the fully-qualified name of the FriendService.
const FriendServiceName = "expensecentral.v1.FriendService"

// Procedure paths, for routing and for matching in interceptors.
const (
	FriendServiceSendFriendRequestProcedure      = "/" + FriendServiceName + "/SendFriendRequest"
	FriendServiceRespondToFriendRequestProcedure = "/" + FriendServiceName + "/RespondToFriendRequest"
	FriendServiceListFriendsProcedure            = "/" + FriendServiceName + "/ListFriends"
	FriendServiceListFriendRequestsProcedure     = "/" + FriendServiceName + "/ListFriendRequests"
)

// FriendServiceHandler serves friend requests and the friend list.
type FriendServiceHandler interface {
	SendFriendRequest(context.Context, *connect.Request[api.SendFriendRequestRequest]) (*connect.Response[api.SendFriendRequestResponse], error)
	RespondToFriendRequest(context.Context, *connect.Request[api.RespondToFriendRequestRequest]) (*connect.Response[api.RespondToFriendRequestResponse], error)
	ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error)
	ListFriendRequests(context.Context, *connect.Request[api.ListFriendRequestsRequest]) (*connect.Response[api.ListFriendRequestsResponse], error)
}

// NewFriendServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewFriendServiceHandler(svc FriendServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	sendFriendRequest := connect.NewUnaryHandler(FriendServiceSendFriendRequestProcedure, svc.SendFriendRequest, opts...)
	respondToFriendRequest := connect.NewUnaryHandler(FriendServiceRespondToFriendRequestProcedure, svc.RespondToFriendRequest, opts...)
	listFriends := connect.NewUnaryHandler(FriendServiceListFriendsProcedure, svc.ListFriends, opts...)
	listFriendRequests := connect.NewUnaryHandler(FriendServiceListFriendRequestsProcedure, svc.ListFriendRequests, opts...)
	return "/" + FriendServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case FriendServiceSendFriendRequestProcedure:
			sendFriendRequest.ServeHTTP(w, r)
		case FriendServiceRespondToFriendRequestProcedure:
			respondToFriendRequest.ServeHTTP(w, r)
		case FriendServiceListFriendsProcedure:
			listFriends.ServeHTTP(w, r)
		case FriendServiceListFriendRequestsProcedure:
			listFriendRequests.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// FriendServiceClient calls the FriendService.
type FriendServiceClient interface {
	SendFriendRequest(context.Context, *connect.Request[api.SendFriendRequestRequest]) (*connect.Response[api.SendFriendRequestResponse], error)
	RespondToFriendRequest(context.Context, *connect.Request[api.RespondToFriendRequestRequest]) (*connect.Response[api.RespondToFriendRequestResponse], error)
	ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error)
	ListFriendRequests(context.Context, *connect.Request[api.ListFriendRequestsRequest]) (*connect.Response[api.ListFriendRequestsResponse], error)
}

// NewFriendServiceClient returns a client for the FriendService at baseURL.
func NewFriendServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) FriendServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &friendServiceClient{
		sendFriendRequest: connect.NewClient[api.SendFriendRequestRequest, api.SendFriendRequestResponse](httpClient, baseURL+FriendServiceSendFriendRequestProcedure, opts...),
		respondToFriendRequest: connect.NewClient[api.RespondToFriendRequestRequest, api.RespondToFriendRequestResponse](httpClient, baseURL+FriendServiceRespondToFriendRequestProcedure, opts...),
		listFriends: connect.NewClient[api.ListFriendsRequest, api.ListFriendsResponse](httpClient, baseURL+FriendServiceListFriendsProcedure, opts...),
		listFriendRequests: connect.NewClient[api.ListFriendRequestsRequest, api.ListFriendRequestsResponse](httpClient, baseURL+FriendServiceListFriendRequestsProcedure, opts...),
	}
}

type friendServiceClient struct {
	sendFriendRequest      *connect.Client[api.SendFriendRequestRequest, api.SendFriendRequestResponse]
	respondToFriendRequest *connect.Client[api.RespondToFriendRequestRequest, api.RespondToFriendRequestResponse]
	listFriends            *connect.Client[api.ListFriendsRequest, api.ListFriendsResponse]
	listFriendRequests     *connect.Client[api.ListFriendRequestsRequest, api.ListFriendRequestsResponse]
}

func (c *friendServiceClient) SendFriendRequest(ctx context.Context, req *connect.Request[api.SendFriendRequestRequest]) (*connect.Response[api.SendFriendRequestResponse], error) {
	return c.sendFriendRequest.CallUnary(ctx, req)
}

func (c *friendServiceClient) RespondToFriendRequest(ctx context.Context, req *connect.Request[api.RespondToFriendRequestRequest]) (*connect.Response[api.RespondToFriendRequestResponse], error) {
	return c.respondToFriendRequest.CallUnary(ctx, req)
}

func (c *friendServiceClient) ListFriends(ctx context.Context, req *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	return c.listFriends.CallUnary(ctx, req)
}

func (c *friendServiceClient) ListFriendRequests(ctx context.Context, req *connect.Request[api.ListFriendRequestsRequest]) (*connect.Response[api.ListFriendRequestsResponse], error) {
	return c.listFriendRequests.CallUnary(ctx, req)
}
