// Package apiconnect wires the api messages to Connect handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/smile1346/travel-card-phase2-splitspending/pkg/api"
)

const (
	// SplitServiceName is the fully-qualified name of the SplitService service.
	SplitServiceName = "splitspending.v1.SplitService"
	// SettlementServiceName is the fully-qualified name of the SettlementService service.
	SettlementServiceName = "splitspending.v1.SettlementService"
)

// Procedure paths.
const (
	SplitServicePreviewSharesProcedure       = "/" + SplitServiceName + "/PreviewShares"
	SplitServiceCreateSplitProcedure         = "/" + SplitServiceName + "/CreateSplit"
	SplitServiceGetSplitProcedure            = "/" + SplitServiceName + "/GetSplit"
	SplitServiceListSplitsByTripProcedure    = "/" + SplitServiceName + "/ListSplitsByTrip"
	SplitServiceUpdateSplitProcedure         = "/" + SplitServiceName + "/UpdateSplit"
	SplitServiceDeleteSplitProcedure         = "/" + SplitServiceName + "/DeleteSplit"
	SplitServiceMarkParticipantPaidProcedure = "/" + SplitServiceName + "/MarkParticipantPaid"
	SplitServiceListTagsProcedure            = "/" + SplitServiceName + "/ListTags"

	SettlementServiceCalculateSettlementsProcedure = "/" + SettlementServiceName + "/CalculateSettlements"
	SettlementServiceListSettlementsProcedure      = "/" + SettlementServiceName + "/ListSettlements"
	SettlementServiceCompleteSettlementProcedure   = "/" + SettlementServiceName + "/CompleteSettlement"
	SettlementServiceCancelSettlementProcedure     = "/" + SettlementServiceName + "/CancelSettlement"
	SettlementServiceGetBalancesProcedure          = "/" + SettlementServiceName + "/GetBalances"
)

// withCodec puts the api codec ahead of caller options.
func withCodec[T any](opts []T, codec T) []T {
	return append([]T{codec}, opts...)
}

// route dispatches a service's procedures to their handlers.
func route(prefix string, handlers map[string]http.Handler) (string, http.Handler) {
	return prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func servicePath(name string) string {
	return "/" + strings.TrimPrefix(name, "/") + "/"
}

// SplitServiceHandler is implemented by the split service.
type SplitServiceHandler interface {
	PreviewShares(context.Context, *connect.Request[api.PreviewSharesRequest]) (*connect.Response[api.PreviewSharesResponse], error)
	CreateSplit(context.Context, *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error)
	GetSplit(context.Context, *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error)
	ListSplitsByTrip(context.Context, *connect.Request[api.ListSplitsByTripRequest]) (*connect.Response[api.ListSplitsByTripResponse], error)
	UpdateSplit(context.Context, *connect.Request[api.UpdateSplitRequest]) (*connect.Response[api.UpdateSplitResponse], error)
	DeleteSplit(context.Context, *connect.Request[api.DeleteSplitRequest]) (*connect.Response[api.DeleteSplitResponse], error)
	MarkParticipantPaid(context.Context, *connect.Request[api.MarkParticipantPaidRequest]) (*connect.Response[api.MarkParticipantPaidResponse], error)
	ListTags(context.Context, *connect.Request[api.ListTagsRequest]) (*connect.Response[api.ListTagsResponse], error)
}

// NewSplitServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts, connect.HandlerOption(connect.WithCodec(api.Codec{})))
	return route(servicePath(SplitServiceName), map[string]http.Handler{
		SplitServicePreviewSharesProcedure:       connect.NewUnaryHandler(SplitServicePreviewSharesProcedure, svc.PreviewShares, opts...),
		SplitServiceCreateSplitProcedure:         connect.NewUnaryHandler(SplitServiceCreateSplitProcedure, svc.CreateSplit, opts...),
		SplitServiceGetSplitProcedure:            connect.NewUnaryHandler(SplitServiceGetSplitProcedure, svc.GetSplit, opts...),
		SplitServiceListSplitsByTripProcedure:    connect.NewUnaryHandler(SplitServiceListSplitsByTripProcedure, svc.ListSplitsByTrip, opts...),
		SplitServiceUpdateSplitProcedure:         connect.NewUnaryHandler(SplitServiceUpdateSplitProcedure, svc.UpdateSplit, opts...),
		SplitServiceDeleteSplitProcedure:         connect.NewUnaryHandler(SplitServiceDeleteSplitProcedure, svc.DeleteSplit, opts...),
		SplitServiceMarkParticipantPaidProcedure: connect.NewUnaryHandler(SplitServiceMarkParticipantPaidProcedure, svc.MarkParticipantPaid, opts...),
		SplitServiceListTagsProcedure:            connect.NewUnaryHandler(SplitServiceListTagsProcedure, svc.ListTags, opts...),
	})
}

// SplitServiceClient is a client for the split service.
type SplitServiceClient interface {
	PreviewShares(context.Context, *connect.Request[api.PreviewSharesRequest]) (*connect.Response[api.PreviewSharesResponse], error)
	CreateSplit(context.Context, *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error)
	GetSplit(context.Context, *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error)
	ListSplitsByTrip(context.Context, *connect.Request[api.ListSplitsByTripRequest]) (*connect.Response[api.ListSplitsByTripResponse], error)
	UpdateSplit(context.Context, *connect.Request[api.UpdateSplitRequest]) (*connect.Response[api.UpdateSplitResponse], error)
	DeleteSplit(context.Context, *connect.Request[api.DeleteSplitRequest]) (*connect.Response[api.DeleteSplitResponse], error)
	MarkParticipantPaid(context.Context, *connect.Request[api.MarkParticipantPaidRequest]) (*connect.Response[api.MarkParticipantPaidResponse], error)
	ListTags(context.Context, *connect.Request[api.ListTagsRequest]) (*connect.Response[api.ListTagsResponse], error)
}

// NewSplitServiceClient constructs a client for the split service at baseURL.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withCodec(opts, connect.ClientOption(connect.WithCodec(api.Codec{})))
	return &splitServiceClient{
		previewShares:       connect.NewClient[api.PreviewSharesRequest, api.PreviewSharesResponse](httpClient, baseURL+SplitServicePreviewSharesProcedure, opts...),
		createSplit:         connect.NewClient[api.CreateSplitRequest, api.CreateSplitResponse](httpClient, baseURL+SplitServiceCreateSplitProcedure, opts...),
		getSplit:            connect.NewClient[api.GetSplitRequest, api.GetSplitResponse](httpClient, baseURL+SplitServiceGetSplitProcedure, opts...),
		listSplitsByTrip:    connect.NewClient[api.ListSplitsByTripRequest, api.ListSplitsByTripResponse](httpClient, baseURL+SplitServiceListSplitsByTripProcedure, opts...),
		updateSplit:         connect.NewClient[api.UpdateSplitRequest, api.UpdateSplitResponse](httpClient, baseURL+SplitServiceUpdateSplitProcedure, opts...),
		deleteSplit:         connect.NewClient[api.DeleteSplitRequest, api.DeleteSplitResponse](httpClient, baseURL+SplitServiceDeleteSplitProcedure, opts...),
		markParticipantPaid: connect.NewClient[api.MarkParticipantPaidRequest, api.MarkParticipantPaidResponse](httpClient, baseURL+SplitServiceMarkParticipantPaidProcedure, opts...),
		listTags:            connect.NewClient[api.ListTagsRequest, api.ListTagsResponse](httpClient, baseURL+SplitServiceListTagsProcedure, opts...),
	}
}

type splitServiceClient struct {
	previewShares       *connect.Client[api.PreviewSharesRequest, api.PreviewSharesResponse]
	createSplit         *connect.Client[api.CreateSplitRequest, api.CreateSplitResponse]
	getSplit            *connect.Client[api.GetSplitRequest, api.GetSplitResponse]
	listSplitsByTrip    *connect.Client[api.ListSplitsByTripRequest, api.ListSplitsByTripResponse]
	updateSplit         *connect.Client[api.UpdateSplitRequest, api.UpdateSplitResponse]
	deleteSplit         *connect.Client[api.DeleteSplitRequest, api.DeleteSplitResponse]
	markParticipantPaid *connect.Client[api.MarkParticipantPaidRequest, api.MarkParticipantPaidResponse]
	listTags            *connect.Client[api.ListTagsRequest, api.ListTagsResponse]
}

func (c *splitServiceClient) PreviewShares(ctx context.Context, req *connect.Request[api.PreviewSharesRequest]) (*connect.Response[api.PreviewSharesResponse], error) {
	return c.previewShares.CallUnary(ctx, req)
}

func (c *splitServiceClient) CreateSplit(ctx context.Context, req *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error) {
	return c.createSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetSplit(ctx context.Context, req *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error) {
	return c.getSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) ListSplitsByTrip(ctx context.Context, req *connect.Request[api.ListSplitsByTripRequest]) (*connect.Response[api.ListSplitsByTripResponse], error) {
	return c.listSplitsByTrip.CallUnary(ctx, req)
}

func (c *splitServiceClient) UpdateSplit(ctx context.Context, req *connect.Request[api.UpdateSplitRequest]) (*connect.Response[api.UpdateSplitResponse], error) {
	return c.updateSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) DeleteSplit(ctx context.Context, req *connect.Request[api.DeleteSplitRequest]) (*connect.Response[api.DeleteSplitResponse], error) {
	return c.deleteSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) MarkParticipantPaid(ctx context.Context, req *connect.Request[api.MarkParticipantPaidRequest]) (*connect.Response[api.MarkParticipantPaidResponse], error) {
	return c.markParticipantPaid.CallUnary(ctx, req)
}

func (c *splitServiceClient) ListTags(ctx context.Context, req *connect.Request[api.ListTagsRequest]) (*connect.Response[api.ListTagsResponse], error) {
	return c.listTags.CallUnary(ctx, req)
}

// SettlementServiceHandler is implemented by the settlement service.
type SettlementServiceHandler interface {
	CalculateSettlements(context.Context, *connect.Request[api.CalculateSettlementsRequest]) (*connect.Response[api.CalculateSettlementsResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	CompleteSettlement(context.Context, *connect.Request[api.CompleteSettlementRequest]) (*connect.Response[api.CompleteSettlementResponse], error)
	CancelSettlement(context.Context, *connect.Request[api.CancelSettlementRequest]) (*connect.Response[api.CancelSettlementResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts, connect.HandlerOption(connect.WithCodec(api.Codec{})))
	return route(servicePath(SettlementServiceName), map[string]http.Handler{
		SettlementServiceCalculateSettlementsProcedure: connect.NewUnaryHandler(SettlementServiceCalculateSettlementsProcedure, svc.CalculateSettlements, opts...),
		SettlementServiceListSettlementsProcedure:      connect.NewUnaryHandler(SettlementServiceListSettlementsProcedure, svc.ListSettlements, opts...),
		SettlementServiceCompleteSettlementProcedure:   connect.NewUnaryHandler(SettlementServiceCompleteSettlementProcedure, svc.CompleteSettlement, opts...),
		SettlementServiceCancelSettlementProcedure:     connect.NewUnaryHandler(SettlementServiceCancelSettlementProcedure, svc.CancelSettlement, opts...),
		SettlementServiceGetBalancesProcedure:          connect.NewUnaryHandler(SettlementServiceGetBalancesProcedure, svc.GetBalances, opts...),
	})
}

// SettlementServiceClient is a client for the settlement service.
type SettlementServiceClient interface {
	CalculateSettlements(context.Context, *connect.Request[api.CalculateSettlementsRequest]) (*connect.Response[api.CalculateSettlementsResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	CompleteSettlement(context.Context, *connect.Request[api.CompleteSettlementRequest]) (*connect.Response[api.CompleteSettlementResponse], error)
	CancelSettlement(context.Context, *connect.Request[api.CancelSettlementRequest]) (*connect.Response[api.CancelSettlementResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
}

// NewSettlementServiceClient constructs a client for the settlement service at baseURL.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withCodec(opts, connect.ClientOption(connect.WithCodec(api.Codec{})))
	return &settlementServiceClient{
		calculateSettlements: connect.NewClient[api.CalculateSettlementsRequest, api.CalculateSettlementsResponse](httpClient, baseURL+SettlementServiceCalculateSettlementsProcedure, opts...),
		listSettlements:      connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+SettlementServiceListSettlementsProcedure, opts...),
		completeSettlement:   connect.NewClient[api.CompleteSettlementRequest, api.CompleteSettlementResponse](httpClient, baseURL+SettlementServiceCompleteSettlementProcedure, opts...),
		cancelSettlement:     connect.NewClient[api.CancelSettlementRequest, api.CancelSettlementResponse](httpClient, baseURL+SettlementServiceCancelSettlementProcedure, opts...),
		getBalances:          connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+SettlementServiceGetBalancesProcedure, opts...),
	}
}

type settlementServiceClient struct {
	calculateSettlements *connect.Client[api.CalculateSettlementsRequest, api.CalculateSettlementsResponse]
	listSettlements      *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	completeSettlement   *connect.Client[api.CompleteSettlementRequest, api.CompleteSettlementResponse]
	cancelSettlement     *connect.Client[api.CancelSettlementRequest, api.CancelSettlementResponse]
	getBalances          *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
}

func (c *settlementServiceClient) CalculateSettlements(ctx context.Context, req *connect.Request[api.CalculateSettlementsRequest]) (*connect.Response[api.CalculateSettlementsResponse], error) {
	return c.calculateSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) CompleteSettlement(ctx context.Context, req *connect.Request[api.CompleteSettlementRequest]) (*connect.Response[api.CompleteSettlementResponse], error) {
	return c.completeSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) CancelSettlement(ctx context.Context, req *connect.Request[api.CancelSettlementRequest]) (*connect.Response[api.CancelSettlementResponse], error) {
	return c.cancelSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}
