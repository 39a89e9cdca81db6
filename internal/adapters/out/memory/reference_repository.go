package memory

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/pkg/errs"
)

type referenceRepository struct {
	uow *UnitOfWork
}

func (r *referenceRepository) Add(_ context.Context, aggregate *reference.Reference) error {
	st, err := r.uow.current()
	if err != nil {
		return err
	}
	if _, exists := st.references[aggregate.ID()]; exists {
		return errs.NewObjectAlreadyExistError(aggregate.Kind().String(), aggregate.ID())
	}
	if _, found := findByName(st, aggregate.Kind(), aggregate.Name()); found {
		return errs.NewObjectAlreadyExistError(aggregate.Kind().String(), aggregate.Name())
	}

	st.references[aggregate.ID()] = recordOf(aggregate)
	return nil
}

func (r *referenceRepository) Update(_ context.Context, aggregate *reference.Reference) error {
	st, err := r.uow.current()
	if err != nil {
		return err
	}
	if _, exists := st.references[aggregate.ID()]; !exists {
		return errs.NewObjectNotFoundError(aggregate.Kind().String(), aggregate.ID())
	}
	st.references[aggregate.ID()] = recordOf(aggregate)
	return nil
}

func (r *referenceRepository) Get(_ context.Context, kind reference.Kind, id kernel.UUID) (*reference.Reference, error) {
	st, err := r.uow.current()
	if err != nil {
		return nil, err
	}
	rec, exists := st.references[id]
	if !exists || rec.kind != kind {
		return nil, errs.NewObjectNotFoundError(kind.String(), id)
	}
	return rec.restore()
}

func (r *referenceRepository) FindByName(_ context.Context, kind reference.Kind, name string) (*reference.Reference, error) {
	st, err := r.uow.current()
	if err != nil {
		return nil, err
	}
	rec, found := findByName(st, kind, name)
	if !found {
		return nil, errs.NewObjectNotFoundError(kind.String(), name)
	}
	return rec.restore()
}

func findByName(st *state, kind reference.Kind, name string) (referenceRecord, bool) {
	normalized := reference.NormalizeName(name)
	for _, rec := range st.references {
		if rec.kind == kind && reference.NormalizeName(rec.name) == normalized {
			return rec, true
		}
	}
	return referenceRecord{}, false
}

func recordOf(r *reference.Reference) referenceRecord {
	return referenceRecord{id: r.ID(), kind: r.Kind(), name: r.Name(), active: r.IsActive()}
}

type manifestLedger struct {
	uow *UnitOfWork
}

func (l *manifestLedger) Claim(_ context.Context, number string, orderID kernel.UUID) error {
	st, err := l.uow.current()
	if err != nil {
		return err
	}
	if holder, claimed := st.manifests[number]; claimed && holder != orderID {
		return errs.NewObjectAlreadyExistError("manifest number", number)
	}
	st.manifests[number] = orderID
	return nil
}
