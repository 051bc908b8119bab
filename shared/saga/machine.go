// Package saga holds the pure checkout state machine shared by the
// orchestrated engine and the event-replay fold. It performs no I/O.
package saga

// Status represents the lifecycle state of a checkout saga
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusStockChecking  Status = "STOCK_CHECKING"
	StatusStockChecked   Status = "STOCK_CHECKED"
	StatusStockReserving Status = "STOCK_RESERVING"
	StatusStockReserved  Status = "STOCK_RESERVED"
	StatusOrderCreating  Status = "ORDER_CREATING"
	StatusOrderCreated   Status = "ORDER_CREATED"
	StatusCompleted      Status = "COMPLETED"

	// Failure states
	StatusStockInsufficient   Status = "STOCK_INSUFFICIENT"
	StatusReservationFailed   Status = "RESERVATION_FAILED"
	StatusOrderCreationFailed Status = "ORDER_CREATION_FAILED"

	// Compensation states
	StatusCompensating Status = "COMPENSATING"
	StatusCancelled    Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

// Terminal reports whether the saga has reached a final state
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Failure reports whether the saga is in a failed or compensating state
func (s Status) Failure() bool {
	switch s {
	case StatusStockInsufficient, StatusReservationFailed,
		StatusOrderCreationFailed, StatusCompensating, StatusCancelled:
		return true
	}
	return false
}

// transitions maps each state to its valid successors. Every non-terminal
// state has exactly one success successor and at most one failure successor.
// STOCK_INSUFFICIENT goes straight to CANCELLED: no reservation was made, so
// there is nothing to compensate. RESERVATION_FAILED and ORDER_CREATION_FAILED
// must pass through COMPENSATING first.
var transitions = map[Status][]Status{
	StatusPending:        {StatusStockChecking, StatusStockReserving},
	StatusStockChecking:  {StatusStockChecked, StatusStockInsufficient},
	StatusStockChecked:   {StatusStockReserving},
	StatusStockReserving: {StatusStockReserved, StatusStockInsufficient, StatusReservationFailed},
	StatusStockReserved:  {StatusOrderCreating},
	StatusOrderCreating:  {StatusOrderCreated, StatusOrderCreationFailed},
	StatusOrderCreated:   {StatusCompleted},

	StatusStockInsufficient:   {StatusCancelled},
	StatusReservationFailed:   {StatusCompensating},
	StatusOrderCreationFailed: {StatusCompensating},
	StatusCompensating:        {StatusCancelled},
}

// CanTransition reports whether from -> to is a valid transition
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Successors returns the valid successor states of s
func Successors(s Status) []Status {
	next := make([]Status, len(transitions[s]))
	copy(next, transitions[s])
	return next
}

// FailureSuccessor returns the failure transition out of s, if any
func FailureSuccessor(s Status) (Status, bool) {
	for _, next := range transitions[s] {
		if next.Failure() {
			return next, true
		}
	}
	return "", false
}
