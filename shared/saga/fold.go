package saga

import (
	"sort"
	"strconv"
	"strings"

	"github.com/novamart/checkout-system/shared/events"
)

// SeqMetadataKey is set by the event log on delivery and read; it breaks
// emission-timestamp ties deterministically during a fold.
const SeqMetadataKey = "stream_seq"

// kindTrail maps each event kind to the state steps it implies. A kind whose
// side effect spans two states (a reservation both lands the stock and hands
// off to order creation) contributes both steps.
var kindTrail = map[events.Kind][]Status{
	events.CheckoutInitiated:      {StatusStockReserving},
	events.StockReserved:          {StatusStockReserved, StatusOrderCreating},
	events.StockReservationFailed: {StatusStockInsufficient},
	events.OrderCreated:           {StatusOrderCreated},
	events.OrderCreationFailed:    {StatusOrderCreationFailed},
	events.StockReleased:          {StatusCompensating},
	events.CheckoutSucceeded:      {StatusCompleted},
	events.CheckoutFailed:         {StatusCancelled},
}

// Fold reconstructs a checkout's status from its event history. It is a pure,
// deterministic function: the same event set always yields the same status,
// and a redelivered (duplicate) event folds to the state already reached.
func Fold(evts []*events.Event) Status {
	trail := Trail(evts)
	if len(trail) == 0 {
		return StatusPending
	}
	return trail[len(trail)-1]
}

// Trail returns the ordered state steps a checkout's event history implies.
// Events are ordered by emission timestamp, ties broken by stream sequence.
func Trail(evts []*events.Event) []Status {
	ordered := Order(evts)

	var trail []Status
	reached := map[Status]bool{StatusPending: true}
	for _, event := range ordered {
		steps, ok := kindTrail[event.Kind]
		if !ok {
			continue
		}
		// Duplicate delivery: the event's final state was already reached,
		// no matter how long ago. A checkout never revisits a state, so a
		// reached state marks the event as already folded.
		if reached[steps[len(steps)-1]] {
			continue
		}
		for _, step := range steps {
			if reached[step] {
				continue
			}
			trail = append(trail, step)
			reached[step] = true
		}
	}
	return trail
}

// Order sorts events by emission timestamp, breaking ties by the stream
// sequence the log assigned. The input slice is not mutated.
func Order(evts []*events.Event) []*events.Event {
	ordered := make([]*events.Event, len(evts))
	copy(ordered, evts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].EmittedAt.Equal(ordered[j].EmittedAt) {
			si, _ := ordered[i].Metadata.Get(SeqMetadataKey)
			sj, _ := ordered[j].Metadata.Get(SeqMetadataKey)
			return compareSeq(si, sj) < 0
		}
		return ordered[i].EmittedAt.Before(ordered[j].EmittedAt)
	})
	return ordered
}

// compareSeq orders two stream sequence IDs by their numeric halves, so
// "9-2" sorts before "10-0". Malformed IDs fall back to a string compare.
func compareSeq(a, b string) int {
	aMajor, aMinor, aOK := splitSeq(a)
	bMajor, bMinor, bOK := splitSeq(b)
	if !aOK || !bOK {
		return strings.Compare(a, b)
	}
	if aMajor != bMajor {
		if aMajor < bMajor {
			return -1
		}
		return 1
	}
	if aMinor != bMinor {
		if aMinor < bMinor {
			return -1
		}
		return 1
	}
	return 0
}

func splitSeq(id string) (uint64, uint64, bool) {
	major, minor, found := strings.Cut(id, "-")
	if !found {
		return 0, 0, false
	}
	ma, err := strconv.ParseUint(major, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	mi, err := strconv.ParseUint(minor, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return ma, mi, true
}
