package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	t.Run("should expand forward jumps into every step", func(t *testing.T) {
		steps, err := order.Plan(order.StatePending, order.StateDone)

		require.NoError(t, err)
		kinds := make([]order.StepKind, 0, len(steps))
		for _, s := range steps {
			kinds = append(kinds, s.Kind)
		}
		assert.Equal(t, []order.StepKind{
			order.StepBeginPreparation,
			order.StepEnterControl,
			order.StepEnterReadyToLoad,
			order.StepFinalize,
		}, kinds)
		assert.Equal(t, order.StateDone, steps[len(steps)-1].To)
	})

	t.Run("should collapse backward moves into one rewind", func(t *testing.T) {
		steps, err := order.Plan(order.StateDone, order.StateControl)

		require.NoError(t, err)
		assert.Equal(t, []order.Step{{Kind: order.StepRewind, To: order.StateControl}}, steps)
	})

	t.Run("should return no steps for the current state", func(t *testing.T) {
		steps, err := order.Plan(order.StateControl, order.StateControl)

		require.NoError(t, err)
		assert.Empty(t, steps)
	})

	t.Run("should reject invalid targets", func(t *testing.T) {
		_, err := order.Plan(order.StatePending, order.State{Status: order.Done, Stage: order.StageControl})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_Advance(t *testing.T) {
	controller := actor(t, "Carla", kernel.RoleControl)

	t.Run("should cycle through control to done", func(t *testing.T) {
		o := newPendingOrder(t, "P-1")
		_, err := o.SetState(order.StatePreparing, actor(t, "Pablo", kernel.RolePreparer), at(1))
		require.NoError(t, err)
		assert.False(t, o.Controlled())

		_, err = o.Advance(controller, at(2))
		require.NoError(t, err)
		assert.Equal(t, order.StateControl, o.State())
		assert.False(t, o.Controlled())
		assert.Empty(t, o.ControlledBy())
		assert.Equal(t, at(2), *o.ControlAt())

		_, err = o.Advance(controller, at(3))
		require.NoError(t, err)
		assert.Equal(t, order.StateReadyToLoad, o.State())
		assert.True(t, o.Controlled())
		assert.Equal(t, "Carla", o.ControlledBy())
		assert.Empty(t, o.FinalizedBy())
		assert.Equal(t, at(3), *o.ReadyToLoadAt())

		loader := actor(t, "Luis", kernel.RoleAdminDeposito)
		_, err = o.Advance(loader, at(4))
		require.NoError(t, err)
		assert.Equal(t, order.StateDone, o.State())
		assert.Equal(t, order.StageNone, o.Stage())
		assert.False(t, o.Controlled())
		assert.Equal(t, "Carla", o.ControlledBy())
		assert.Equal(t, "Luis", o.FinalizedBy())
		assert.Equal(t, at(4), *o.FinalizedAt())
		assert.Nil(t, o.Rank())
	})

	t.Run("should refuse pending and done orders", func(t *testing.T) {
		o := newPendingOrder(t, "P-1")

		_, err := o.Advance(controller, at(1))
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.StatePending, o.State())

		_, err = o.SetState(order.StateDone, controller, at(2))
		require.NoError(t, err)

		_, err = o.Advance(controller, at(3))
		var transitionErr *errs.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, "DONE", transitionErr.Current)
		assert.Equal(t, "next stage", transitionErr.Attempted)
		assert.Equal(t, "invalid transition: advance to next stage is not allowed from DONE", err.Error())
	})
}

func TestOrder_SetState(t *testing.T) {
	preparer := actor(t, "Pablo", kernel.RolePreparer)

	t.Run("should park rank when preparation begins", func(t *testing.T) {
		o := newPendingOrder(t, "P-1")
		require.NoError(t, o.PlaceInQueue(2, at(1)))

		tr, err := o.SetState(order.StatePreparing, preparer, at(2))

		require.NoError(t, err)
		assert.True(t, tr.BeganPreparation)
		assert.Equal(t, 2, *tr.VacatedRank)
		assert.Nil(t, o.Rank())
		assert.Equal(t, 2, *o.ParkedRank())
		assert.Equal(t, at(2), *o.PreparationAt())
	})

	t.Run("should hand parked rank back on revert", func(t *testing.T) {
		o := newPendingOrder(t, "P-1")
		require.NoError(t, o.PlaceInQueue(2, at(1)))
		_, err := o.SetState(order.StateReadyToLoad, preparer, at(2))
		require.NoError(t, err)

		tr, err := o.SetState(order.StatePending, preparer, at(3))

		require.NoError(t, err)
		assert.True(t, tr.ReturnedToPending)
		assert.Equal(t, 2, *tr.RestoreRank)
		assert.Nil(t, o.ParkedRank())
		assert.Nil(t, o.Rank())
		assert.Equal(t, order.StageNone, o.Stage())
		assert.False(t, o.Controlled())
		assert.Nil(t, o.PreparationAt())
		assert.Nil(t, o.ControlAt())
		assert.Nil(t, o.ReadyToLoadAt())
		assert.Equal(t, "Pablo", o.ControlledBy())
		assert.Equal(t, at(1), *o.EnqueuedAt())
	})

	t.Run("should request tail placement without parked rank", func(t *testing.T) {
		o := newPendingOrder(t, "P-1")
		_, err := o.SetState(order.StateControl, preparer, at(1))
		require.NoError(t, err)

		tr, err := o.SetState(order.StatePending, preparer, at(2))

		require.NoError(t, err)
		assert.True(t, tr.ReturnedToPending)
		assert.Nil(t, tr.RestoreRank)
	})

	t.Run("should clear later markers when moving back", func(t *testing.T) {
		o := newPendingOrder(t, "P-1")
		_, err := o.SetState(order.StateDone, preparer, at(1))
		require.NoError(t, err)

		_, err = o.SetState(order.StateReadyToLoad, preparer, at(2))
		require.NoError(t, err)
		assert.True(t, o.Controlled())
		assert.Nil(t, o.FinalizedAt())
		assert.Equal(t, "Pablo", o.FinalizedBy())
		assert.NotNil(t, o.ReadyToLoadAt())

		_, err = o.SetState(order.StateControl, preparer, at(3))
		require.NoError(t, err)
		assert.False(t, o.Controlled())
		assert.Empty(t, o.ControlledBy())
		assert.Nil(t, o.ReadyToLoadAt())
		assert.NotNil(t, o.ControlAt())

		_, err = o.SetState(order.StatePreparing, preparer, at(4))
		require.NoError(t, err)
		assert.Nil(t, o.ControlAt())
		assert.NotNil(t, o.PreparationAt())
	})

	t.Run("should leave order untouched for current state", func(t *testing.T) {
		o := newPendingOrder(t, "P-1")
		before := o.Snapshot()

		tr, err := o.SetState(order.StatePending, preparer, at(5))

		require.NoError(t, err)
		assert.True(t, tr.IsNoop())
		assert.Equal(t, before, o.Snapshot())
	})

	t.Run("should require constructed actor", func(t *testing.T) {
		o := newPendingOrder(t, "P-1")

		_, err := o.SetState(order.StateDone, kernel.Actor{}, at(1))

		require.ErrorIs(t, err, kernel.ErrActorIsNotConstructed)
	})
}

// Both entry points must leave identical audit trails for the same target.
func TestOrder_AdvanceAndSetStateAreEquivalent(t *testing.T) {
	controller := actor(t, "Carla", kernel.RoleControl)

	targets := []order.State{order.StateControl, order.StateReadyToLoad, order.StateDone}
	for _, target := range targets {
		t.Run("should match at "+target.String(), func(t *testing.T) {
			seed := newPendingOrder(t, "P-1")
			require.NoError(t, seed.PlaceInQueue(1, at(0)))
			_, err := seed.SetState(order.StatePreparing, controller, at(1))
			require.NoError(t, err)

			guided, err := order.RestoreOrder(seed.Snapshot())
			require.NoError(t, err)
			forced, err := order.RestoreOrder(seed.Snapshot())
			require.NoError(t, err)

			for guided.State() != target {
				_, err = guided.Advance(controller, at(2))
				require.NoError(t, err)
			}
			_, err = forced.SetState(target, controller, at(2))
			require.NoError(t, err)

			assert.Equal(t, guided.Snapshot(), forced.Snapshot())
		})
	}

	t.Run("should match from pending straight to done", func(t *testing.T) {
		guided := newPendingOrder(t, "P-1")
		require.NoError(t, guided.PlaceInQueue(1, at(0)))
		forced, err := order.RestoreOrder(guided.Snapshot())
		require.NoError(t, err)

		_, err = guided.SetState(order.StatePreparing, controller, at(1))
		require.NoError(t, err)
		for guided.Status() != order.Done {
			_, err = guided.Advance(controller, at(1))
			require.NoError(t, err)
		}
		_, err = forced.SetState(order.StateDone, controller, at(1))
		require.NoError(t, err)

		assert.Equal(t, guided.Snapshot(), forced.Snapshot())
	})
}

func TestOrder_StageOnlyWhilePreparing(t *testing.T) {
	o := newPendingOrder(t, "P-1")
	a := actor(t, "Ana", kernel.RoleAdminPrincipal)
	states := []order.State{
		order.StateReadyToLoad, order.StatePending, order.StateDone, order.StatePreparing,
		order.StateControl, order.StateDone, order.StatePending, order.StateControl,
	}

	for i, target := range states {
		_, err := o.SetState(target, a, at(i))
		require.NoError(t, err)

		if o.Status() != order.InPreparation {
			assert.Equal(t, order.StageNone, o.Stage(), "after %s", target)
		}
		if o.Status() != order.Pending {
			assert.Nil(t, o.Rank(), "after %s", target)
		}
		assert.Equal(t, o.State() == order.StateReadyToLoad, o.Controlled(), "after %s", target)
	}
}
