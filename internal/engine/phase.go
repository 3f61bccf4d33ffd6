package engine

// Phase colapsa los booleanos sueltos del flujo (warmup/tie/scoreUpdated/...)
// en una máquina de estados explícita.
type Phase int

const (
	PhaseWarmup Phase = iota
	PhaseAwaitingPick
	PhasePickedAwaitingStart
	PhaseRoundInProgress
	PhaseRoundScored
	PhaseTieBreak
	PhaseMatchComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseWarmup:
		return "warmup"
	case PhaseAwaitingPick:
		return "awaiting_pick"
	case PhasePickedAwaitingStart:
		return "picked_awaiting_start"
	case PhaseRoundInProgress:
		return "round_in_progress"
	case PhaseRoundScored:
		return "round_scored"
	case PhaseTieBreak:
		return "tiebreak"
	case PhaseMatchComplete:
		return "match_complete"
	}
	return "unknown"
}
