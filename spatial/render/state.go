package render

// State is the crossfade state of the last rendered block.
type State int

const (
	// StateStable means the block was convolved with unchanged filters.
	StateStable State = iota
	// StateTransitioning means the block crossfaded from the old filters to
	// new ones.
	StateTransitioning
)

func (s State) String() string {
	switch s {
	case StateStable:
		return "stable"
	case StateTransitioning:
		return "transitioning"
	default:
		return "unknown"
	}
}
