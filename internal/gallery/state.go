package gallery

// State is the lifecycle of one gallery submission:
// Collecting -> Submitting -> Settled, with Abandoned reachable until settled.
// Server-side reconciliation happens while the session is Submitting; the
// session settles when the report comes back.
type State int

const (
	Collecting State = iota
	Submitting
	Settled
	Abandoned
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Submitting:
		return "submitting"
	case Settled:
		return "settled"
	case Abandoned:
		return "abandoned"
	}
	return "unknown"
}
