package rounds

// Phase is the resolver state.
type Phase int

// Resolver phases, in the order a round passes through them
const (
	PhaseAwaitingRound Phase = iota
	PhaseDecaying
	PhaseApplying
	PhaseCleanup
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingRound:
		return "awaiting_round"
	case PhaseDecaying:
		return "decaying"
	case PhaseApplying:
		return "applying"
	case PhaseCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}
