//go:build unit

package commands_test

import (
	"context"
	"testing"

	"consular-queue/internal/domain/ticket"
	"consular-queue/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("sequential kiosk codes without the web prefix", func(t *testing.T) {
		first, err := f.ticket.Create(ctx, "CC-100", f.passportID)
		require.NoError(t, err)
		second, err := f.ticket.Create(ctx, "CC-200", f.passportID)
		require.NoError(t, err)

		assert.Equal(t, "PA-001", first.Code)
		assert.Equal(t, "PA-002", second.Code)

		stored := f.store.tickets[first.TicketID]
		require.NotNil(t, stored)
		assert.Equal(t, ticket.StatusPending, stored.Status())
	})

	t.Run("kiosk counters are independent per procedure", func(t *testing.T) {
		visa, err := f.ticket.Create(ctx, "CC-300", f.visaID)
		require.NoError(t, err)
		assert.Equal(t, "VI-001", visa.Code)
	})

	t.Run("pending ticket blocks a second one", func(t *testing.T) {
		_, err := f.ticket.Create(ctx, "CC-100", f.passportID)
		assert.ErrorIs(t, err, commands.ErrDuplicateTicket)
	})

	t.Run("active appointment blocks a walk-in for the same procedure", func(t *testing.T) {
		f.book(t, "CC-500", "2026-03-02", "09:00")

		_, err := f.ticket.Create(ctx, "CC-500", f.passportID)
		assert.ErrorIs(t, err, commands.ErrDuplicateBooking)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := f.ticket.Create(ctx, "  ", f.passportID)
		assert.ErrorIs(t, err, commands.ErrEmptyCitizenID)

		_, err = f.ticket.Create(ctx, "CC-1", uuid.New())
		assert.ErrorIs(t, err, commands.ErrProcedureNotFound)
	})
}

func TestTicketCall_StampsDesk(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.ticket.Create(ctx, "CC-100", f.passportID)
	require.NoError(t, err)

	require.NoError(t, f.ticket.Call(ctx, result.TicketID, 7))

	stored := f.store.tickets[result.TicketID]
	assert.Equal(t, ticket.StatusCalled, stored.Status())
	require.NotNil(t, stored.ModuleDesk())
	assert.Equal(t, 7, *stored.ModuleDesk())

	assert.ErrorIs(t, f.ticket.Call(ctx, uuid.New(), 1), commands.ErrTicketNotFound)
}

func TestTicketFinish_AuditUsesTicketSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.ticket.Create(ctx, "CC-100", f.passportID)
	require.NoError(t, err)
	require.NoError(t, f.ticket.Call(ctx, result.TicketID, 2))

	require.NoError(t, f.ticket.Finish(ctx, commands.FinishParams{
		ID: result.TicketID, Outcome: "served", AgentID: "agent-9",
	}))

	require.Len(t, f.store.audit, 1)
	rec := f.store.audit[0]
	assert.Equal(t, "ticket", rec.Source)
	assert.Equal(t, result.TicketID, rec.EntityID)
	assert.Equal(t, "PA-001", rec.Code)

	// Closed ticket no longer blocks a new walk-in.
	again, err := f.ticket.Create(ctx, "CC-100", f.passportID)
	require.NoError(t, err)
	assert.Equal(t, "PA-002", again.Code)
}

func TestTicketFinish_InvalidTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.ticket.Create(ctx, "CC-100", f.passportID)
	require.NoError(t, err)
	require.NoError(t, f.ticket.Finish(ctx, commands.FinishParams{
		ID: result.TicketID, Outcome: "referred", AgentID: "agent-1",
	}))

	err = f.ticket.Finish(ctx, commands.FinishParams{
		ID: result.TicketID, Outcome: "served", AgentID: "agent-1",
	})
	assert.ErrorIs(t, err, commands.ErrInvalidTransition)
}
