package order

import "fmt"

// StepKind is one unit of lifecycle side effects.
type StepKind int

const (
	StepBeginPreparation StepKind = iota + 1
	StepEnterControl
	StepEnterReadyToLoad
	StepFinalize
	StepRewind
)

func (k StepKind) String() string {
	switch k {
	case StepBeginPreparation:
		return "begin-preparation"
	case StepEnterControl:
		return "enter-control"
	case StepEnterReadyToLoad:
		return "enter-ready-to-load"
	case StepFinalize:
		return "finalize"
	case StepRewind:
		return "rewind"
	default:
		return fmt.Sprintf("step(%d)", int(k))
	}
}

// Step moves an order into To.
type Step struct {
	Kind StepKind
	To   State
}

// forwardSteps maps each chain position to the step that enters it.
var forwardSteps = map[int]StepKind{
	1: StepBeginPreparation,
	2: StepEnterControl,
	3: StepEnterReadyToLoad,
	4: StepFinalize,
}

// Plan returns the ordered steps leading from one state to another. Forward
// targets expand to every intermediate step, so jumping straight to DONE
// produces the same effects as advancing one stage at a time. Backward targets
// collapse to a single rewind. Equal states yield no steps.
func Plan(from, to State) ([]Step, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}
	if err := to.Validate(); err != nil {
		return nil, err
	}

	fromPos, toPos := from.position(), to.position()
	switch {
	case fromPos == toPos:
		return nil, nil
	case toPos < fromPos:
		return []Step{{Kind: StepRewind, To: to}}, nil
	}

	steps := make([]Step, 0, toPos-fromPos)
	for pos := fromPos + 1; pos <= toPos; pos++ {
		steps = append(steps, Step{Kind: forwardSteps[pos], To: chain[pos]})
	}
	return steps, nil
}

// Transition summarizes what a lifecycle move did to an order, so the caller
// can keep the load queue and the group registry in step.
type Transition struct {
	From  State
	To    State
	Steps []Step

	// BeganPreparation is set when the order entered IN_PREPARATION from PENDING.
	BeganPreparation bool

	// VacatedRank is the rank the order released when it left the queue.
	VacatedRank *int

	// ReturnedToPending is set when the order must be placed back in the queue.
	ReturnedToPending bool

	// RestoreRank is the rank held before preparation began, if any.
	RestoreRank *int
}

// IsNoop reports whether the order was left untouched.
func (t Transition) IsNoop() bool {
	return len(t.Steps) == 0
}
