package pgerrs_test

import (
	"errors"
	"fmt"
	"testing"

	"dispatch/internal/adapters/out/postgres/pgerrs"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"should match a wrapped unique violation", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{"should match the gorm sentinel", gorm.ErrDuplicatedKey, true},
		{"should ignore other codes", &pq.Error{Code: "23503"}, false},
		{"should ignore plain errors", errors.New("boom"), false},
		{"should ignore nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pgerrs.IsUniqueViolation(tt.err))
		})
	}
}

func TestConstraint(t *testing.T) {
	err := fmt.Errorf("commit: %w", &pq.Error{Code: "23505", Constraint: "orders_load_priority_key"})
	assert.Equal(t, "orders_load_priority_key", pgerrs.Constraint(err))
	assert.Empty(t, pgerrs.Constraint(errors.New("boom")))
}
