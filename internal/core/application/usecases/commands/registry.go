package commands

import (
	"context"
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// resolveReference returns the active entry of kind named name. Missing entries
// are created and inactive ones reactivated. A concurrent insert of the same
// name is answered by re-reading the winner.
func resolveReference(
	ctx context.Context,
	repo ports.ReferenceRepository,
	kind reference.Kind,
	name string,
) (*reference.Reference, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValueIsRequiredError(kind.String() + " name")
	}

	found, err := findActive(ctx, repo, kind, name)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	created, err := reference.NewReference(kernel.NewUUID(), kind, name)
	if err != nil {
		return nil, err
	}
	if err = repo.Add(ctx, created); err != nil {
		if errors.Is(err, errs.ErrObjectAlreadyExist) {
			return findActive(ctx, repo, kind, name)
		}
		return nil, err
	}
	return created, nil
}

func findActive(
	ctx context.Context,
	repo ports.ReferenceRepository,
	kind reference.Kind,
	name string,
) (*reference.Reference, error) {
	found, err := repo.FindByName(ctx, kind, name)
	if err != nil {
		return nil, err
	}
	if found.Reactivate() {
		if err = repo.Update(ctx, found); err != nil {
			return nil, err
		}
	}
	return found, nil
}

// resolveOptional treats a nil name as "keep" and a blank name as "clear".
func resolveOptional(
	ctx context.Context,
	repo ports.ReferenceRepository,
	kind reference.Kind,
	name *string,
) (link *reference.Link, clear bool, err error) {
	if name == nil {
		return nil, false, nil
	}
	if strings.TrimSpace(*name) == "" {
		return nil, true, nil
	}
	ref, err := resolveReference(ctx, repo, kind, *name)
	if err != nil {
		return nil, false, err
	}
	l := ref.Link()
	return &l, false, nil
}

// ensureBookingFree fails when another order already runs the same carrier
// and route on the same delivery date.
func ensureBookingFree(ctx context.Context, repo ports.OrderRepository, o *order.Order) error {
	key := o.BookingKey()
	if !key.IsComplete() {
		return nil
	}
	taken, err := repo.BookingTaken(ctx, key, o.ID())
	if err != nil {
		return err
	}
	if taken {
		return errs.NewObjectAlreadyExistError("booking", key.String())
	}
	return nil
}
