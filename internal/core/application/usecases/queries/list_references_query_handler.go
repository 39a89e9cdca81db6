package queries

import (
	"context"

	"dispatch/internal/core/ports"
)

type ListReferencesQueryHandler struct {
	reader ports.ReferenceReader
}

func NewListReferencesQueryHandler(reader ports.ReferenceReader) ListReferencesQueryHandler {
	return ListReferencesQueryHandler{reader: reader}
}

// Handle returns the entries ordered by name.
func (h ListReferencesQueryHandler) Handle(ctx context.Context, query ListReferencesQuery) ([]ReferenceView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	list, err := h.reader.ListReferences(ctx, query.Kind(), query.ActiveOnly())
	if err != nil {
		return nil, err
	}

	views := make([]ReferenceView, 0, len(list))
	for _, r := range list {
		views = append(views, NewReferenceView(r))
	}
	return views, nil
}
