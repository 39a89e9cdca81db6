package http

import (
	"log/slog"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Handlers bundles the use cases the API exposes.
type Handlers struct {
	// Command handlers
	CreateOrder         commands.CreateOrderCommandHandler
	UpdateOrder         commands.UpdateOrderCommandHandler
	DeleteOrder         commands.DeleteOrderCommandHandler
	SetOrderState       commands.SetOrderStateCommandHandler
	AdvanceStage        commands.AdvancePreparationStageCommandHandler
	AssignGroup         commands.AssignGroupCommandHandler
	RemoveGroup         commands.RemoveGroupCommandHandler
	SetQueueOrder       commands.SetQueueOrderCommandHandler
	AppendToQueue       commands.AppendToQueueCommandHandler
	RemoveFromQueue     commands.RemoveFromQueueCommandHandler
	CompactQueue        commands.CompactQueueCommandHandler
	ResolveReference    commands.ResolveReferenceCommandHandler
	DeactivateReference commands.DeactivateReferenceCommandHandler

	// Query handlers
	GetOrder            queries.GetOrderQueryHandler
	ListOrders          queries.ListOrdersQueryHandler
	ListReceivedToday   queries.ListReceivedTodayQueryHandler
	CarrierRouteSummary queries.CarrierRouteSummaryQueryHandler
	ListReferences      queries.ListReferencesQueryHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{h: handlers, logger: logger.With("component", "http")}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var body NewOrder
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		body.ManifestNumber,
		body.Carrier,
		body.Zone,
		body.Route,
		body.Quantity,
		dateOf(body.DeliveryDate),
		actor,
	)
	if err != nil {
		return s.fail(ctx, err)
	}
	o, err := s.h.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toOrder(queries.NewOrderView(o)))
}

// ListOrders handles GET /api/v1/orders, newest first.
func (s *Server) ListOrders(ctx echo.Context) error {
	return s.list(ctx, queries.NewListOrdersQuery())
}

// ListByState handles GET /api/v1/orders/state/{status}.
func (s *Server) ListByState(ctx echo.Context) error {
	var raw string
	if err := bindPath(ctx, "status", &raw); err != nil {
		return badRequest(ctx, err.Error())
	}
	status, err := order.ParseStatus(raw)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewListByStateQuery(status)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.list(ctx, query)
}

// ListUnranked handles GET /api/v1/queue/unranked.
func (s *Server) ListUnranked(ctx echo.Context) error {
	return s.list(ctx, queries.NewListUnrankedQuery())
}

// ListRanked handles GET /api/v1/queue/ranked.
func (s *Server) ListRanked(ctx echo.Context) error {
	return s.list(ctx, queries.NewListRankedQuery())
}

func (s *Server) list(ctx echo.Context, query queries.ListOrdersQuery) error {
	views, err := s.h.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrders(views))
}

// ListReceivedToday handles GET /api/v1/orders/received-today.
func (s *Server) ListReceivedToday(ctx echo.Context) error {
	views, err := s.h.ListReceivedToday.Handle(ctx.Request().Context(), queries.NewListReceivedTodayQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrders(views))
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	view, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(view))
}

// UpdateOrder handles PUT /api/v1/orders/{id}.
func (s *Server) UpdateOrder(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	var body OrderChanges
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewUpdateOrderCommand(id, commands.OrderChanges{
		ManifestNumber: body.ManifestNumber,
		CarrierName:    body.Carrier,
		ZoneName:       body.Zone,
		RouteName:      body.Route,
		Quantity:       body.Quantity,
		DeliveryDate:   dateOf(body.DeliveryDate),
	})
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respond(ctx, func() (*order.Order, error) {
		return s.h.UpdateOrder.Handle(ctx.Request().Context(), cmd)
	})
}

// DeleteOrder handles DELETE /api/v1/orders/{id}.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	cmd, err := commands.NewDeleteOrderCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.h.DeleteOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// SetOrderState handles PUT /api/v1/orders/{id}/state.
func (s *Server) SetOrderState(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var body StateChange
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	status, err := order.ParseStatus(body.Status)
	if err != nil {
		return s.fail(ctx, err)
	}
	stage, err := order.ParseStage(body.Stage)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewSetOrderStateCommand(id, status, stage, actor)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respond(ctx, func() (*order.Order, error) {
		return s.h.SetOrderState.Handle(ctx.Request().Context(), cmd)
	})
}

// AdvanceStage handles PUT /api/v1/orders/{id}/advance.
func (s *Server) AdvanceStage(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewAdvancePreparationStageCommand(id, actor)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respond(ctx, func() (*order.Order, error) {
		return s.h.AdvanceStage.Handle(ctx.Request().Context(), cmd)
	})
}

// AssignGroup handles PUT /api/v1/orders/{id}/group.
func (s *Server) AssignGroup(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	var body GroupAssignment
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	groupID, err := kernel.UUIDFromGoogle(body.GroupID)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewAssignGroupCommand(id, groupID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respond(ctx, func() (*order.Order, error) {
		return s.h.AssignGroup.Handle(ctx.Request().Context(), cmd)
	})
}

// RemoveGroup handles DELETE /api/v1/orders/{id}/group.
func (s *Server) RemoveGroup(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	cmd, err := commands.NewRemoveGroupCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respond(ctx, func() (*order.Order, error) {
		return s.h.RemoveGroup.Handle(ctx.Request().Context(), cmd)
	})
}

// SetQueueOrder handles PUT /api/v1/queue. The body lists the whole queue.
func (s *Server) SetQueueOrder(ctx echo.Context) error {
	var body QueueOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	ids := make([]kernel.UUID, 0, len(body.OrderIDs))
	for _, raw := range body.OrderIDs {
		id, err := kernel.UUIDFromGoogle(raw)
		if err != nil {
			return s.fail(ctx, err)
		}
		ids = append(ids, id)
	}

	cmd, err := commands.NewSetQueueOrderCommand(ids)
	if err != nil {
		return s.fail(ctx, err)
	}
	ranked, err := s.h.SetQueueOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	response := make([]Order, 0, len(ranked))
	for _, o := range ranked {
		response = append(response, toOrder(queries.NewOrderView(o)))
	}
	return ctx.JSON(http.StatusOK, response)
}

// AppendToQueue handles PUT /api/v1/queue/{id}/append.
func (s *Server) AppendToQueue(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	cmd, err := commands.NewAppendToQueueCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respond(ctx, func() (*order.Order, error) {
		return s.h.AppendToQueue.Handle(ctx.Request().Context(), cmd)
	})
}

// RemoveFromQueue handles PUT /api/v1/queue/{id}/remove.
func (s *Server) RemoveFromQueue(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	cmd, err := commands.NewRemoveFromQueueCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respond(ctx, func() (*order.Order, error) {
		return s.h.RemoveFromQueue.Handle(ctx.Request().Context(), cmd)
	})
}

// CompactQueue handles PUT /api/v1/queue/compact.
func (s *Server) CompactQueue(ctx echo.Context) error {
	renumbered, err := s.h.CompactQueue.Handle(ctx.Request().Context(), commands.NewCompactQueueCommand())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, CompactResult{Renumbered: renumbered})
}

// CarrierRoutesSummary handles GET /api/v1/carriers/routes-summary.
func (s *Server) CarrierRoutesSummary(ctx echo.Context) error {
	summaries, err := s.h.CarrierRouteSummary.Handle(ctx.Request().Context(), queries.NewCarrierRouteSummaryQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	response := make([]CarrierRoutes, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, CarrierRoutes{
			Carrier:      Link{ID: summary.CarrierID.Bytes(), Name: summary.CarrierName},
			RoutesByDate: summary.RoutesByDate,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

// ResolveReference handles POST /api/v1/references/{kind}.
func (s *Server) ResolveReference(ctx echo.Context) error {
	kind, err := referenceKind(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var body NewReference
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewResolveReferenceCommand(kind, body.Name)
	if err != nil {
		return s.fail(ctx, err)
	}
	ref, err := s.h.ResolveReference.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toReference(queries.NewReferenceView(ref)))
}

// ListReferences handles GET /api/v1/references/{kind}.
func (s *Server) ListReferences(ctx echo.Context) error {
	kind, err := referenceKind(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var active *bool
	err = runtime.BindQueryParameter("form", true, false, "active", ctx.QueryParams(), &active)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewListReferencesQuery(kind, active != nil && *active)
	if err != nil {
		return s.fail(ctx, err)
	}
	views, err := s.h.ListReferences.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	response := make([]Reference, 0, len(views))
	for _, v := range views {
		response = append(response, toReference(v))
	}
	return ctx.JSON(http.StatusOK, response)
}

// DeactivateReference handles DELETE /api/v1/references/{kind}/{id}.
func (s *Server) DeactivateReference(ctx echo.Context) error {
	kind, err := referenceKind(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	cmd, err := commands.NewDeactivateReferenceCommand(kind, id)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.h.DeactivateReference.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) respond(ctx echo.Context, handle func() (*order.Order, error)) error {
	o, err := handle()
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(queries.NewOrderView(o)))
}

func bindPath(ctx echo.Context, name string, dest any) error {
	return runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
}

// pathID binds the {id} path segment of order and reference routes.
func pathID(ctx echo.Context) (kernel.UUID, error) {
	var id openapi_types.UUID
	if err := bindPath(ctx, "id", &id); err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromGoogle(id)
}

func referenceKind(ctx echo.Context) (reference.Kind, error) {
	var raw string
	if err := bindPath(ctx, "kind", &raw); err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("kind", err)
	}
	return reference.ParseKind(raw)
}
