package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	actor := newActor(t, "Ana", kernel.RoleAdminDeposito)

	cmd, err := commands.NewCreateOrderCommand(id, " P-1001 ", "Andreani", " Norte ", "Ruta 9", 10, nil, actor)
	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, "P-1001", cmd.ManifestNumber())
	assert.Equal(t, "Andreani", cmd.CarrierName())
	assert.Equal(t, "Norte", cmd.ZoneName())
	assert.Equal(t, "Ruta 9", cmd.RouteName())
	assert.Equal(t, 10, cmd.Quantity())
	assert.Nil(t, cmd.DeliveryDate())
	assert.Equal(t, actor, cmd.Actor())
	assert.NoError(t, cmd.Validate())
}

func TestNewCreateOrderCommand_InvalidInput(t *testing.T) {
	actor := newActor(t, "Ana", kernel.RoleAdminDeposito)

	t.Run("should reject zero order id", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.UUID{}, "P-1", "A", "", "R", 1, nil, actor)
		require.Error(t, err)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("should require manifest carrier and route", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), " ", "", "", "", 1, nil, actor)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "manifest number")
		assert.Contains(t, err.Error(), "carrier")
		assert.Contains(t, err.Error(), "route")
	})

	t.Run("should reject non positive quantity", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "P-1", "A", "", "R", 0, nil, actor)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject missing actor", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "P-1", "A", "", "R", 1, nil, kernel.Actor{})
		require.Error(t, err)
		assert.ErrorIs(t, err, kernel.ErrActorIsNotConstructed)
	})
}

func TestCreateOrderCommand_ZeroValueIsNotConstructed(t *testing.T) {
	err := commands.CreateOrderCommand{}.Validate()
	assert.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}
