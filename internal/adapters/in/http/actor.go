package http

import (
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Identity headers are set by the authenticating proxy in front of the service.
const (
	HeaderActorID   = "X-Actor-Id"
	HeaderActorName = "X-Actor-Name"
	HeaderActorRole = "X-Actor-Role"
)

func actorFrom(ctx echo.Context) (kernel.Actor, error) {
	h := ctx.Request().Header
	return kernel.NewActor(
		h.Get(HeaderActorID),
		h.Get(HeaderActorName),
		kernel.Role(h.Get(HeaderActorRole)),
	)
}
