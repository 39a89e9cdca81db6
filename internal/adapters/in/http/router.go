package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewEcho builds the router: the validated API under /api/v1 plus health,
// metrics and the swagger UI.
func NewEcho(ctx context.Context, server *Server, gatherer prometheus.Gatherer, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc)
	if err != nil {
		return nil, err
	}
	if err = registerSwagger(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.InstanceName(SwaggerInstance)))

	server.RegisterRoutes(e.Group("/api/v1", validate))
	return e, nil
}

// RegisterRoutes mounts every operation of openapi.yaml on g.
func (s *Server) RegisterRoutes(g *echo.Group) {
	g.POST("/orders", s.CreateOrder)
	g.GET("/orders", s.ListOrders)
	g.GET("/orders/received-today", s.ListReceivedToday)
	g.GET("/orders/state/:status", s.ListByState)
	g.GET("/orders/:id", s.GetOrder)
	g.PUT("/orders/:id", s.UpdateOrder)
	g.DELETE("/orders/:id", s.DeleteOrder)
	g.PUT("/orders/:id/state", s.SetOrderState)
	g.PUT("/orders/:id/advance", s.AdvanceStage)
	g.PUT("/orders/:id/group", s.AssignGroup)
	g.DELETE("/orders/:id/group", s.RemoveGroup)

	g.GET("/queue/unranked", s.ListUnranked)
	g.GET("/queue/ranked", s.ListRanked)
	g.PUT("/queue", s.SetQueueOrder)
	g.PUT("/queue/compact", s.CompactQueue)
	g.PUT("/queue/:id/append", s.AppendToQueue)
	g.PUT("/queue/:id/remove", s.RemoveFromQueue)

	g.GET("/carriers/routes-summary", s.CarrierRoutesSummary)
	g.POST("/references/:kind", s.ResolveReference)
	g.GET("/references/:kind", s.ListReferences)
	g.DELETE("/references/:kind/:id", s.DeactivateReference)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				logger.WarnContext(c.Request().Context(), "request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.DebugContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}
