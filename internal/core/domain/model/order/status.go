package order

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status is the primary lifecycle state of an order.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	InPreparation
	Done
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:       "UNKNOWN",
		Pending:       "PENDING",
		InPreparation: "IN_PREPARATION",
		Done:          "DONE",
	}
}

// ParseStatus accepts the persisted and wire names, case-insensitively.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != Unknown && name == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s != Pending && s != InPreparation && s != Done {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Stage is the preparation sub-state. It is meaningful only for InPreparation.
type Stage int

const (
	StageNone Stage = iota
	StageControl
	StageReadyToLoad
)

func getStageStrings() map[Stage]string {
	return map[Stage]string{
		StageNone:        "",
		StageControl:     "CONTROL",
		StageReadyToLoad: "READY_TO_LOAD",
	}
}

// ParseStage maps an empty string to StageNone.
func ParseStage(s string) (Stage, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for stage, name := range getStageStrings() {
		if name == normalized {
			return stage, nil
		}
	}
	return StageNone, errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%q is not a valid stage", s))
}

func (s Stage) Validate() error {
	if _, ok := getStageStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

func (s Stage) String() string {
	return getStageStrings()[s]
}

// State pairs a status with its stage.
type State struct {
	Status Status
	Stage  Stage
}

var (
	StatePending     = State{Status: Pending}
	StatePreparing   = State{Status: InPreparation, Stage: StageNone}
	StateControl     = State{Status: InPreparation, Stage: StageControl}
	StateReadyToLoad = State{Status: InPreparation, Stage: StageReadyToLoad}
	StateDone        = State{Status: Done}
)

// chain lists every reachable state in lifecycle order.
var chain = []State{StatePending, StatePreparing, StateControl, StateReadyToLoad, StateDone}

// Validate rejects a stage on any status other than InPreparation.
func (s State) Validate() error {
	if err := s.Status.Validate(); err != nil {
		return err
	}
	if err := s.Stage.Validate(); err != nil {
		return err
	}
	if s.Status != InPreparation && s.Stage != StageNone {
		return errs.NewValueIsInvalidErrorWithCause(
			"stage",
			fmt.Errorf("%s is only allowed while %s, not %s", s.Stage, InPreparation, s.Status),
		)
	}
	return nil
}

func (s State) String() string {
	if s.Stage == StageNone {
		return s.Status.String()
	}
	return s.Status.String() + "/" + s.Stage.String()
}

// position is the index of s on the lifecycle chain, or -1.
func (s State) position() int {
	for i, candidate := range chain {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Next is the state a guided advance moves to.
func (s State) Next() (State, error) {
	if s.Status != InPreparation {
		return State{}, errs.NewInvalidTransitionError("advance", "next stage", s.String())
	}
	pos := s.position()
	if pos < 0 || pos+1 >= len(chain) {
		return State{}, errs.NewInvalidTransitionError("advance", "next stage", s.String())
	}
	return chain[pos+1], nil
}
