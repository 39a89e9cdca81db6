package commands

import (
	"context"

	"dispatch/internal/core/domain/model/reference"
)

type ResolveReferenceCommandHandler struct {
	uowFactory ReferenceUoWFactory
}

func NewResolveReferenceCommandHandler(uowFactory ReferenceUoWFactory) ResolveReferenceCommandHandler {
	return ResolveReferenceCommandHandler{uowFactory: uowFactory}
}

func (h *ResolveReferenceCommandHandler) Handle(
	ctx context.Context,
	cmd ResolveReferenceCommand,
) (*reference.Reference, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ref, err := resolveReference(ctx, uow.ReferenceRepository(), cmd.Kind(), cmd.Name())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return ref, nil
}
