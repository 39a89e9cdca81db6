package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("should format param and id", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", "123")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: order 123", err.Error())
		assert.Equal(t, []error{errs.ErrObjectNotFound}, err.Unwrap())
	})

	t.Run("should include cause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("order", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: order, ID is: 123 (cause: database connection failed)",
			err.Error())
	})

	t.Run("should accept non string ids", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("rank", 456)
		assert.Equal(t, "object not found: rank 456", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("should format param", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("manifest number")

		assert.Equal(t, "value is invalid: manifest number", err.Error())
		assert.Equal(t, []error{errs.ErrValueIsInvalid}, err.Unwrap())
	})

	t.Run("should include cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("quantity", errors.New("0 is not greater than 0"))

		assert.Equal(t, "value is invalid: quantity (cause: 0 is not greater than 0)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("should format bounds", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("rank", 7, 1, 5)

		assert.Equal(t, 7, err.Value)
		assert.Equal(t, "value is out of range: 7 is rank, min value is 1, max value is 5", err.Error())
		assert.Equal(t, []error{errs.ErrValueIsOutOfRange}, err.Unwrap())
	})

	t.Run("should strip newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("should format param", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("carrier")

		assert.Equal(t, "value is required: carrier", err.Error())
		assert.Equal(t, []error{errs.ErrValueIsRequired}, err.Unwrap())
	})

	t.Run("should include cause", func(t *testing.T) {
		err := errs.NewValueIsRequiredErrorWithCause("route", errors.New("blank"))
		assert.Equal(t, "value is required: route (cause: blank)", err.Error())
	})
}

func TestVersionIsInvalidError(t *testing.T) {
	t.Run("should report expected version", func(t *testing.T) {
		err := errs.NewVersionIsInvalidError("order", 3)

		assert.Equal(t, "version is invalid: order was modified concurrently, expected version 3", err.Error())
		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})
}

func TestInvalidTransitionError(t *testing.T) {
	t.Run("should report attempted and current state", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("set state", "DONE", "PENDING")

		assert.Equal(t, "invalid transition: set state to DONE is not allowed from PENDING", err.Error())
	})

	t.Run("should report operation without target", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("advance", "", "DONE")

		assert.Equal(t, "invalid transition: advance is not allowed while DONE", err.Error())
	})

	t.Run("should match transition and validation sentinels", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", errs.NewInvalidTransitionError("append", "", "DONE"))

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.True(t, errs.IsValidation(err))

		var transitionErr *errs.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, "DONE", transitionErr.Current)
	})
}

func TestObjectAlreadyExistError(t *testing.T) {
	t.Run("should count as validation", func(t *testing.T) {
		err := errs.NewObjectAlreadyExistError("manifest number", "P-100")

		assert.Equal(t, "object already exists: manifest number P-100", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectAlreadyExist)
		assert.True(t, errs.IsValidation(err))
	})
}

func TestIsValidation(t *testing.T) {
	t.Run("should classify errors", func(t *testing.T) {
		assert.True(t, errs.IsValidation(errs.NewValueIsRequiredError("x")))
		assert.True(t, errs.IsValidation(errs.NewValueIsOutOfRangeError("x", 1, 2, 3)))
		assert.False(t, errs.IsValidation(errs.NewObjectNotFoundError("order", "1")))
		assert.False(t, errs.IsValidation(errors.New("boom")))
	})
}

func TestErrorCauses(t *testing.T) {
	t.Run("should expose the cause to errors.Is", func(t *testing.T) {
		missing := errs.NewObjectNotFoundError("order", "42")
		err := fmt.Errorf("reorder: %w", errs.NewValueIsInvalidErrorWithCause("order ids", missing))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.True(t, errs.IsValidation(err))

		var notFound *errs.ObjectNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "42", notFound.ID)
	})

	t.Run("should keep the sentinel first", func(t *testing.T) {
		cause := errors.New("unique violation")
		err := errs.NewObjectAlreadyExistErrorWithCause("manifest number", "P-1", cause)

		assert.Equal(t, []error{errs.ErrObjectAlreadyExist, errs.ErrValueIsInvalid, cause}, err.Unwrap())
		require.ErrorIs(t, err, cause)
	})

	t.Run("should reach causes of every wrapping type", func(t *testing.T) {
		cause := errors.New("root")
		for _, err := range []error{
			errs.NewObjectNotFoundErrorWithCause("order", "1", cause),
			errs.NewValueIsRequiredErrorWithCause("carrier", cause),
			errs.NewValueIsOutOfRangeErrorWithCause("rank", 9, 1, 3, cause),
			errs.NewVersionIsInvalidErrorWithCause("order", 2, cause),
		} {
			assert.ErrorIs(t, err, cause, err.Error())
		}
	})
}
