package saga

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to stock checking", StatusPending, StatusStockChecking, true},
		{"pending to stock reserving", StatusPending, StatusStockReserving, true},
		{"stock checking to checked", StatusStockChecking, StatusStockChecked, true},
		{"stock checking to insufficient", StatusStockChecking, StatusStockInsufficient, true},
		{"checked to reserving", StatusStockChecked, StatusStockReserving, true},
		{"reserving to reserved", StatusStockReserving, StatusStockReserved, true},
		{"reserving to reservation failed", StatusStockReserving, StatusReservationFailed, true},
		{"reserved to order creating", StatusStockReserved, StatusOrderCreating, true},
		{"order creating to created", StatusOrderCreating, StatusOrderCreated, true},
		{"order creating to failed", StatusOrderCreating, StatusOrderCreationFailed, true},
		{"order created to completed", StatusOrderCreated, StatusCompleted, true},
		{"insufficient goes straight to cancelled", StatusStockInsufficient, StatusCancelled, true},
		{"reservation failed must compensate first", StatusReservationFailed, StatusCancelled, false},
		{"reservation failed to compensating", StatusReservationFailed, StatusCompensating, true},
		{"order creation failed to compensating", StatusOrderCreationFailed, StatusCompensating, true},
		{"compensating to cancelled", StatusCompensating, StatusCancelled, true},
		{"no skipping reservation", StatusStockChecked, StatusOrderCreating, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"no going backwards", StatusStockReserved, StatusStockChecking, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{
		StatusPending, StatusStockChecking, StatusStockChecked,
		StatusStockReserving, StatusStockReserved, StatusOrderCreating,
		StatusOrderCreated, StatusStockInsufficient, StatusReservationFailed,
		StatusOrderCreationFailed, StatusCompensating,
	} {
		assert.False(t, s.Terminal(), "%s must not be terminal", s)
	}
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestTerminalStatesHaveNoSuccessors(t *testing.T) {
	assert.Empty(t, Successors(StatusCompleted))
	assert.Empty(t, Successors(StatusCancelled))
}

func TestEveryNonTerminalPathReachesTerminal(t *testing.T) {
	// Walk failure successors from every state: the walk must end in a
	// terminal state, never loop.
	for _, start := range []Status{
		StatusStockChecking, StatusStockReserving, StatusOrderCreating,
		StatusStockInsufficient, StatusReservationFailed,
		StatusOrderCreationFailed, StatusCompensating,
	} {
		current := start
		for steps := 0; !current.Terminal(); steps++ {
			if !assert.Less(t, steps, 10, "state %s never reaches a terminal state", start) {
				break
			}
			next, ok := FailureSuccessor(current)
			if !ok {
				// Fall forward on the success path instead.
				succ := Successors(current)
				if !assert.NotEmpty(t, succ) {
					break
				}
				next = succ[0]
			}
			current = next
		}
	}
}
