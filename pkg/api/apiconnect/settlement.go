package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/expensecentral/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService.
const SettlementServiceName = "expensecentral.v1.SettlementService"

// Procedure paths, for routing and for matching in interceptors.
const (
	SettlementServiceRequestSettlementProcedure      = "/" + SettlementServiceName + "/RequestSettlement"
	SettlementServiceRespondToSettlementProcedure    = "/" + SettlementServiceName + "/RespondToSettlement"
	SettlementServiceListSettlementRequestsProcedure = "/" + SettlementServiceName + "/ListSettlementRequests"
	SettlementServiceSettleUpProcedure               = "/" + SettlementServiceName + "/SettleUp"
	SettlementServiceCreateReminderProcedure         = "/" + SettlementServiceName + "/CreateReminder"
	SettlementServiceMarkReminderDoneProcedure       = "/" + SettlementServiceName + "/MarkReminderDone"
	SettlementServiceRemindFriendProcedure           = "/" + SettlementServiceName + "/RemindFriend"
	SettlementServiceListRemindersProcedure          = "/" + SettlementServiceName + "/ListReminders"
	SettlementServiceGetNotificationsProcedure       = "/" + SettlementServiceName + "/GetNotifications"
)

// SettlementServiceHandler serves settlement requests, reminders and notifications.
type SettlementServiceHandler interface {
	RequestSettlement(context.Context, *connect.Request[api.RequestSettlementRequest]) (*connect.Response[api.RequestSettlementResponse], error)
	RespondToSettlement(context.Context, *connect.Request[api.RespondToSettlementRequest]) (*connect.Response[api.RespondToSettlementResponse], error)
	ListSettlementRequests(context.Context, *connect.Request[api.ListSettlementRequestsRequest]) (*connect.Response[api.ListSettlementRequestsResponse], error)
	SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error)
	CreateReminder(context.Context, *connect.Request[api.CreateReminderRequest]) (*connect.Response[api.CreateReminderResponse], error)
	MarkReminderDone(context.Context, *connect.Request[api.MarkReminderDoneRequest]) (*connect.Response[api.MarkReminderDoneResponse], error)
	RemindFriend(context.Context, *connect.Request[api.RemindFriendRequest]) (*connect.Response[api.RemindFriendResponse], error)
	ListReminders(context.Context, *connect.Request[api.ListRemindersRequest]) (*connect.Response[api.ListRemindersResponse], error)
	GetNotifications(context.Context, *connect.Request[api.GetNotificationsRequest]) (*connect.Response[api.GetNotificationsResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	requestSettlement := connect.NewUnaryHandler(SettlementServiceRequestSettlementProcedure, svc.RequestSettlement, opts...)
	respondToSettlement := connect.NewUnaryHandler(SettlementServiceRespondToSettlementProcedure, svc.RespondToSettlement, opts...)
	listSettlementRequests := connect.NewUnaryHandler(SettlementServiceListSettlementRequestsProcedure, svc.ListSettlementRequests, opts...)
	settleUp := connect.NewUnaryHandler(SettlementServiceSettleUpProcedure, svc.SettleUp, opts...)
	createReminder := connect.NewUnaryHandler(SettlementServiceCreateReminderProcedure, svc.CreateReminder, opts...)
	markReminderDone := connect.NewUnaryHandler(SettlementServiceMarkReminderDoneProcedure, svc.MarkReminderDone, opts...)
	remindFriend := connect.NewUnaryHandler(SettlementServiceRemindFriendProcedure, svc.RemindFriend, opts...)
	listReminders := connect.NewUnaryHandler(SettlementServiceListRemindersProcedure, svc.ListReminders, opts...)
	getNotifications := connect.NewUnaryHandler(SettlementServiceGetNotificationsProcedure, svc.GetNotifications, opts...)
	return "/" + SettlementServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceRequestSettlementProcedure:
			requestSettlement.ServeHTTP(w, r)
		case SettlementServiceRespondToSettlementProcedure:
			respondToSettlement.ServeHTTP(w, r)
		case SettlementServiceListSettlementRequestsProcedure:
			listSettlementRequests.ServeHTTP(w, r)
		case SettlementServiceSettleUpProcedure:
			settleUp.ServeHTTP(w, r)
		case SettlementServiceCreateReminderProcedure:
			createReminder.ServeHTTP(w, r)
		case SettlementServiceMarkReminderDoneProcedure:
			markReminderDone.ServeHTTP(w, r)
		case SettlementServiceRemindFriendProcedure:
			remindFriend.ServeHTTP(w, r)
		case SettlementServiceListRemindersProcedure:
			listReminders.ServeHTTP(w, r)
		case SettlementServiceGetNotificationsProcedure:
			getNotifications.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// SettlementServiceClient calls the SettlementService.
type SettlementServiceClient interface {
	RequestSettlement(context.Context, *connect.Request[api.RequestSettlementRequest]) (*connect.Response[api.RequestSettlementResponse], error)
	RespondToSettlement(context.Context, *connect.Request[api.RespondToSettlementRequest]) (*connect.Response[api.RespondToSettlementResponse], error)
	ListSettlementRequests(context.Context, *connect.Request[api.ListSettlementRequestsRequest]) (*connect.Response[api.ListSettlementRequestsResponse], error)
	SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error)
	CreateReminder(context.Context, *connect.Request[api.CreateReminderRequest]) (*connect.Response[api.CreateReminderResponse], error)
	MarkReminderDone(context.Context, *connect.Request[api.MarkReminderDoneRequest]) (*connect.Response[api.MarkReminderDoneResponse], error)
	RemindFriend(context.Context, *connect.Request[api.RemindFriendRequest]) (*connect.Response[api.RemindFriendResponse], error)
	ListReminders(context.Context, *connect.Request[api.ListRemindersRequest]) (*connect.Response[api.ListRemindersResponse], error)
	GetNotifications(context.Context, *connect.Request[api.GetNotificationsRequest]) (*connect.Response[api.GetNotificationsResponse], error)
}

// NewSettlementServiceClient returns a client for the SettlementService at baseURL.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &settlementServiceClient{
		requestSettlement: connect.NewClient[api.RequestSettlementRequest, api.RequestSettlementResponse](httpClient, baseURL+SettlementServiceRequestSettlementProcedure, opts...),
		respondToSettlement: connect.NewClient[api.RespondToSettlementRequest, api.RespondToSettlementResponse](httpClient, baseURL+SettlementServiceRespondToSettlementProcedure, opts...),
		listSettlementRequests: connect.NewClient[api.ListSettlementRequestsRequest, api.ListSettlementRequestsResponse](httpClient, baseURL+SettlementServiceListSettlementRequestsProcedure, opts...),
		settleUp: connect.NewClient[api.SettleUpRequest, api.SettleUpResponse](httpClient, baseURL+SettlementServiceSettleUpProcedure, opts...),
		createReminder: connect.NewClient[api.CreateReminderRequest, api.CreateReminderResponse](httpClient, baseURL+SettlementServiceCreateReminderProcedure, opts...),
		markReminderDone: connect.NewClient[api.MarkReminderDoneRequest, api.MarkReminderDoneResponse](httpClient, baseURL+SettlementServiceMarkReminderDoneProcedure, opts...),
		remindFriend: connect.NewClient[api.RemindFriendRequest, api.RemindFriendResponse](httpClient, baseURL+SettlementServiceRemindFriendProcedure, opts...),
		listReminders: connect.NewClient[api.ListRemindersRequest, api.ListRemindersResponse](httpClient, baseURL+SettlementServiceListRemindersProcedure, opts...),
		getNotifications: connect.NewClient[api.GetNotificationsRequest, api.GetNotificationsResponse](httpClient, baseURL+SettlementServiceGetNotificationsProcedure, opts...),
	}
}

type settlementServiceClient struct {
	requestSettlement      *connect.Client[api.RequestSettlementRequest, api.RequestSettlementResponse]
	respondToSettlement    *connect.Client[api.RespondToSettlementRequest, api.RespondToSettlementResponse]
	listSettlementRequests *connect.Client[api.ListSettlementRequestsRequest, api.ListSettlementRequestsResponse]
	settleUp               *connect.Client[api.SettleUpRequest, api.SettleUpResponse]
	createReminder         *connect.Client[api.CreateReminderRequest, api.CreateReminderResponse]
	markReminderDone       *connect.Client[api.MarkReminderDoneRequest, api.MarkReminderDoneResponse]
	remindFriend           *connect.Client[api.RemindFriendRequest, api.RemindFriendResponse]
	listReminders          *connect.Client[api.ListRemindersRequest, api.ListRemindersResponse]
	getNotifications       *connect.Client[api.GetNotificationsRequest, api.GetNotificationsResponse]
}

func (c *settlementServiceClient) RequestSettlement(ctx context.Context, req *connect.Request[api.RequestSettlementRequest]) (*connect.Response[api.RequestSettlementResponse], error) {
	return c.requestSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) RespondToSettlement(ctx context.Context, req *connect.Request[api.RespondToSettlementRequest]) (*connect.Response[api.RespondToSettlementResponse], error) {
	return c.respondToSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSettlementRequests(ctx context.Context, req *connect.Request[api.ListSettlementRequestsRequest]) (*connect.Response[api.ListSettlementRequestsResponse], error) {
	return c.listSettlementRequests.CallUnary(ctx, req)
}

func (c *settlementServiceClient) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}

func (c *settlementServiceClient) CreateReminder(ctx context.Context, req *connect.Request[api.CreateReminderRequest]) (*connect.Response[api.CreateReminderResponse], error) {
	return c.createReminder.CallUnary(ctx, req)
}

func (c *settlementServiceClient) MarkReminderDone(ctx context.Context, req *connect.Request[api.MarkReminderDoneRequest]) (*connect.Response[api.MarkReminderDoneResponse], error) {
	return c.markReminderDone.CallUnary(ctx, req)
}

func (c *settlementServiceClient) RemindFriend(ctx context.Context, req *connect.Request[api.RemindFriendRequest]) (*connect.Response[api.RemindFriendResponse], error) {
	return c.remindFriend.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListReminders(ctx context.Context, req *connect.Request[api.ListRemindersRequest]) (*connect.Response[api.ListRemindersResponse], error) {
	return c.listReminders.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetNotifications(ctx context.Context, req *connect.Request[api.GetNotificationsRequest]) (*connect.Response[api.GetNotificationsResponse], error) {
	return c.getNotifications.CallUnary(ctx, req)
}
