package commands

import (
	"context"
)

type DeactivateReferenceCommandHandler struct {
	uowFactory ReferenceUoWFactory
}

func NewDeactivateReferenceCommandHandler(uowFactory ReferenceUoWFactory) DeactivateReferenceCommandHandler {
	return DeactivateReferenceCommandHandler{uowFactory: uowFactory}
}

// Handle fails with an ObjectNotFoundError for unknown entries.
func (h *DeactivateReferenceCommandHandler) Handle(ctx context.Context, cmd DeactivateReferenceCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	refs := uow.ReferenceRepository()
	ref, err := refs.Get(ctx, cmd.Kind(), cmd.ID())
	if err != nil {
		return err
	}
	if !ref.IsActive() {
		return nil
	}

	ref.Deactivate()
	if err = refs.Update(ctx, ref); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
