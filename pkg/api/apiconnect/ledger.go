package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/expensecentral/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "expensecentral.v1.LedgerService"

// Procedure paths, for routing and for matching in interceptors.
const (
	LedgerServiceComputeSplitsProcedure         = "/" + LedgerServiceName + "/ComputeSplits"
	LedgerServiceCreateTransactionProcedure     = "/" + LedgerServiceName + "/CreateTransaction"
	LedgerServiceDeleteTransactionProcedure     = "/" + LedgerServiceName + "/DeleteTransaction"
	LedgerServiceListTransactionsProcedure      = "/" + LedgerServiceName + "/ListTransactions"
	LedgerServiceAddPersonalExpenseProcedure    = "/" + LedgerServiceName + "/AddPersonalExpense"
	LedgerServiceDeletePersonalExpenseProcedure = "/" + LedgerServiceName + "/DeletePersonalExpense"
	LedgerServiceListPersonalExpensesProcedure  = "/" + LedgerServiceName + "/ListPersonalExpenses"
	LedgerServiceGetBalancesProcedure           = "/" + LedgerServiceName + "/GetBalances"
	LedgerServiceGetHistoryProcedure            = "/" + LedgerServiceName + "/GetHistory"
	LedgerServiceGetSpendingStatsProcedure      = "/" + LedgerServiceName + "/GetSpendingStats"
)

// LedgerServiceHandler serves transactions, personal expenses, balances and history.
type LedgerServiceHandler interface {
	ComputeSplits(context.Context, *connect.Request[api.ComputeSplitsRequest]) (*connect.Response[api.ComputeSplitsResponse], error)
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	AddPersonalExpense(context.Context, *connect.Request[api.AddPersonalExpenseRequest]) (*connect.Response[api.AddPersonalExpenseResponse], error)
	DeletePersonalExpense(context.Context, *connect.Request[api.DeletePersonalExpenseRequest]) (*connect.Response[api.DeletePersonalExpenseResponse], error)
	ListPersonalExpenses(context.Context, *connect.Request[api.ListPersonalExpensesRequest]) (*connect.Response[api.ListPersonalExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetHistory(context.Context, *connect.Request[api.GetHistoryRequest]) (*connect.Response[api.GetHistoryResponse], error)
	GetSpendingStats(context.Context, *connect.Request[api.GetSpendingStatsRequest]) (*connect.Response[api.GetSpendingStatsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	computeSplits := connect.NewUnaryHandler(LedgerServiceComputeSplitsProcedure, svc.ComputeSplits, opts...)
	createTransaction := connect.NewUnaryHandler(LedgerServiceCreateTransactionProcedure, svc.CreateTransaction, opts...)
	deleteTransaction := connect.NewUnaryHandler(LedgerServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...)
	listTransactions := connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts...)
	addPersonalExpense := connect.NewUnaryHandler(LedgerServiceAddPersonalExpenseProcedure, svc.AddPersonalExpense, opts...)
	deletePersonalExpense := connect.NewUnaryHandler(LedgerServiceDeletePersonalExpenseProcedure, svc.DeletePersonalExpense, opts...)
	listPersonalExpenses := connect.NewUnaryHandler(LedgerServiceListPersonalExpensesProcedure, svc.ListPersonalExpenses, opts...)
	getBalances := connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...)
	getHistory := connect.NewUnaryHandler(LedgerServiceGetHistoryProcedure, svc.GetHistory, opts...)
	getSpendingStats := connect.NewUnaryHandler(LedgerServiceGetSpendingStatsProcedure, svc.GetSpendingStats, opts...)
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceComputeSplitsProcedure:
			computeSplits.ServeHTTP(w, r)
		case LedgerServiceCreateTransactionProcedure:
			createTransaction.ServeHTTP(w, r)
		case LedgerServiceDeleteTransactionProcedure:
			deleteTransaction.ServeHTTP(w, r)
		case LedgerServiceListTransactionsProcedure:
			listTransactions.ServeHTTP(w, r)
		case LedgerServiceAddPersonalExpenseProcedure:
			addPersonalExpense.ServeHTTP(w, r)
		case LedgerServiceDeletePersonalExpenseProcedure:
			deletePersonalExpense.ServeHTTP(w, r)
		case LedgerServiceListPersonalExpensesProcedure:
			listPersonalExpenses.ServeHTTP(w, r)
		case LedgerServiceGetBalancesProcedure:
			getBalances.ServeHTTP(w, r)
		case LedgerServiceGetHistoryProcedure:
			getHistory.ServeHTTP(w, r)
		case LedgerServiceGetSpendingStatsProcedure:
			getSpendingStats.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LedgerServiceClient calls the LedgerService.
type LedgerServiceClient interface {
	ComputeSplits(context.Context, *connect.Request[api.ComputeSplitsRequest]) (*connect.Response[api.ComputeSplitsResponse], error)
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	AddPersonalExpense(context.Context, *connect.Request[api.AddPersonalExpenseRequest]) (*connect.Response[api.AddPersonalExpenseResponse], error)
	DeletePersonalExpense(context.Context, *connect.Request[api.DeletePersonalExpenseRequest]) (*connect.Response[api.DeletePersonalExpenseResponse], error)
	ListPersonalExpenses(context.Context, *connect.Request[api.ListPersonalExpensesRequest]) (*connect.Response[api.ListPersonalExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetHistory(context.Context, *connect.Request[api.GetHistoryRequest]) (*connect.Response[api.GetHistoryResponse], error)
	GetSpendingStats(context.Context, *connect.Request[api.GetSpendingStatsRequest]) (*connect.Response[api.GetSpendingStatsResponse], error)
}

// NewLedgerServiceClient returns a client for the LedgerService at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		computeSplits: connect.NewClient[api.ComputeSplitsRequest, api.ComputeSplitsResponse](httpClient, baseURL+LedgerServiceComputeSplitsProcedure, opts...),
		createTransaction: connect.NewClient[api.CreateTransactionRequest, api.CreateTransactionResponse](httpClient, baseURL+LedgerServiceCreateTransactionProcedure, opts...),
		deleteTransaction: connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL+LedgerServiceDeleteTransactionProcedure, opts...),
		listTransactions: connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		addPersonalExpense: connect.NewClient[api.AddPersonalExpenseRequest, api.AddPersonalExpenseResponse](httpClient, baseURL+LedgerServiceAddPersonalExpenseProcedure, opts...),
		deletePersonalExpense: connect.NewClient[api.DeletePersonalExpenseRequest, api.DeletePersonalExpenseResponse](httpClient, baseURL+LedgerServiceDeletePersonalExpenseProcedure, opts...),
		listPersonalExpenses: connect.NewClient[api.ListPersonalExpensesRequest, api.ListPersonalExpensesResponse](httpClient, baseURL+LedgerServiceListPersonalExpensesProcedure, opts...),
		getBalances: connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getHistory: connect.NewClient[api.GetHistoryRequest, api.GetHistoryResponse](httpClient, baseURL+LedgerServiceGetHistoryProcedure, opts...),
		getSpendingStats: connect.NewClient[api.GetSpendingStatsRequest, api.GetSpendingStatsResponse](httpClient, baseURL+LedgerServiceGetSpendingStatsProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	computeSplits         *connect.Client[api.ComputeSplitsRequest, api.ComputeSplitsResponse]
	createTransaction     *connect.Client[api.CreateTransactionRequest, api.CreateTransactionResponse]
	deleteTransaction     *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
	listTransactions      *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	addPersonalExpense    *connect.Client[api.AddPersonalExpenseRequest, api.AddPersonalExpenseResponse]
	deletePersonalExpense *connect.Client[api.DeletePersonalExpenseRequest, api.DeletePersonalExpenseResponse]
	listPersonalExpenses  *connect.Client[api.ListPersonalExpensesRequest, api.ListPersonalExpensesResponse]
	getBalances           *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getHistory            *connect.Client[api.GetHistoryRequest, api.GetHistoryResponse]
	getSpendingStats      *connect.Client[api.GetSpendingStatsRequest, api.GetSpendingStatsResponse]
}

func (c *ledgerServiceClient) ComputeSplits(ctx context.Context, req *connect.Request[api.ComputeSplitsRequest]) (*connect.Response[api.ComputeSplitsResponse], error) {
	return c.computeSplits.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddPersonalExpense(ctx context.Context, req *connect.Request[api.AddPersonalExpenseRequest]) (*connect.Response[api.AddPersonalExpenseResponse], error) {
	return c.addPersonalExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeletePersonalExpense(ctx context.Context, req *connect.Request[api.DeletePersonalExpenseRequest]) (*connect.Response[api.DeletePersonalExpenseResponse], error) {
	return c.deletePersonalExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListPersonalExpenses(ctx context.Context, req *connect.Request[api.ListPersonalExpensesRequest]) (*connect.Response[api.ListPersonalExpensesResponse], error) {
	return c.listPersonalExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetHistory(ctx context.Context, req *connect.Request[api.GetHistoryRequest]) (*connect.Response[api.GetHistoryResponse], error) {
	return c.getHistory.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSpendingStats(ctx context.Context, req *connect.Request[api.GetSpendingStatsRequest]) (*connect.Response[api.GetSpendingStatsResponse], error) {
	return c.getSpendingStats.CallUnary(ctx, req)
}
