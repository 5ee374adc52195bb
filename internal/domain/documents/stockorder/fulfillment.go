package stockorder

import (
	"time"

	"restock/internal/core/apperror"
)

// Stage is one of the five fulfillment steps of an order line.
type Stage string

const (
	StageOrdered   Stage = "ordered"
	StageSending   Stage = "sending"
	StageConfirmed Stage = "confirmed"
	StagePicked    Stage = "picked"
	StageReceived  Stage = "received"
)

// Stages lists the stages in their normal order of arrival. Arrival is not
// gated: branches, warehouse staff and drivers advance stages independently,
// so a later stage may be recorded before an earlier one.
var Stages = []Stage{StageOrdered, StageSending, StageConfirmed, StagePicked, StageReceived}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageOrdered, StageSending, StageConfirmed, StagePicked, StageReceived:
		return true
	}
	return false
}

// prev returns the preceding stage, or "" for the first.
func (s Stage) prev() Stage {
	for i := 1; i < len(Stages); i++ {
		if Stages[i] == s {
			return Stages[i-1]
		}
	}
	return ""
}

// Outcome is the status coloring of a stage transition, computed on read and
// never persisted.
type Outcome string

const (
	// OutcomePending - the stage has not been recorded yet
	OutcomePending Outcome = "pending"
	// OutcomeOnTarget - stage quantity matches the prior stage
	OutcomeOnTarget Outcome = "on_target"
	// OutcomeExcess - stage quantity exceeds the prior stage
	OutcomeExcess Outcome = "excess"
	// OutcomeShortfall - stage quantity fell below the prior stage
	OutcomeShortfall Outcome = "shortfall"
)

// AdvanceOptions controls a stage write.
type AdvanceOptions struct {
	// Correct authorizes overwriting an already-recorded stage. Corrections
	// are audited with both old and new values; silent overwrite is forbidden.
	Correct bool

	// Reason documents why a correction was made.
	Reason string

	// Actor is the user performing the change (for the audit trail).
	Actor string
}

// Correction captures the before/after of a corrected stage write.
type Correction struct {
	OrderID   string     `json:"orderId"`
	LineNo    int        `json:"lineNo"`
	Stage     Stage      `json:"stage"`
	OldQty    int64      `json:"oldQty"`
	OldDate   *time.Time `json:"oldDate,omitempty"`
	NewQty    int64      `json:"newQty"`
	NewDate   *time.Time `json:"newDate,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Actor     string     `json:"actor,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// stageRef returns pointers to the quantity and timestamp cells of a stage.
func (i *Item) stageRef(s Stage) (qty *int64, date **time.Time) {
	switch s {
	case StageOrdered:
		return &i.RequiredQty, &i.RequiredDate
	case StageSending:
		return &i.SendingQty, &i.SendingDate
	case StageConfirmed:
		return &i.ConfirmedQty, &i.ConfirmedDate
	case StagePicked:
		return &i.PickedQty, &i.PickedDate
	case StageReceived:
		return &i.ReceivedQty, &i.ReceivedDate
	}
	return nil, nil
}

// StageQty returns the recorded quantity for a stage.
func (i *Item) StageQty(s Stage) int64 {
	qty, _ := i.stageRef(s)
	if qty == nil {
		return 0
	}
	return *qty
}

// StageDate returns the recorded timestamp for a stage, or nil.
func (i *Item) StageDate(s Stage) *time.Time {
	_, date := i.stageRef(s)
	if date == nil {
		return nil
	}
	return *date
}

// Closed reports whether the item reached the terminal stage. Closed items are
// immutable except through the correction path.
func (i *Item) Closed() bool {
	return i.ReceivedDate != nil
}

// Advance records a stage quantity on the item.
//
// The write-once rule: once a stage's timestamp is stamped, a second Advance
// for that stage fails with STAGE_ALREADY_SET unless opts.Correct is passed,
// in which case the returned Correction carries the prior values for the
// audit trail. Advancing a different, unset stage of a closed item is also
// rejected without the correction flag.
func (i *Item) Advance(stage Stage, qty int64, at time.Time, opts AdvanceOptions) (*Correction, error) {
	if !stage.Valid() {
		return nil, apperror.NewValidation("unknown stage").
			WithDetail("stage", string(stage))
	}
	if qty < 0 {
		return nil, apperror.NewValidation("stage quantity must not be negative").
			WithDetail("stage", string(stage)).
			WithDetail("qty", qty)
	}

	qtyRef, dateRef := i.stageRef(stage)
	already := *dateRef != nil

	if already && !opts.Correct {
		return nil, apperror.NewStageAlreadySet(string(stage))
	}
	if !already && i.Closed() && !opts.Correct {
		return nil, apperror.NewItemClosed(i.OrderID, i.LineNo)
	}

	var correction *Correction
	if already {
		oldDate := *dateRef
		correction = &Correction{
			OrderID:   i.OrderID.String(),
			LineNo:    i.LineNo,
			Stage:     stage,
			OldQty:    *qtyRef,
			OldDate:   oldDate,
			NewQty:    qty,
			NewDate:   &at,
			Reason:    opts.Reason,
			Actor:     opts.Actor,
			CreatedAt: time.Now().UTC(),
		}
	}

	stamp := at
	*qtyRef = qty
	*dateRef = &stamp

	i.Reconcile()
	return correction, nil
}

// Reconcile recomputes the variance: differenceQty = receivedQty - requiredQty.
// Negative marks a shortage, positive an excess, zero an exact delivery.
func (i *Item) Reconcile() {
	i.DifferenceQty = i.ReceivedQty - i.RequiredQty
}

// StageStatus colors the transition into the given stage by comparing its
// quantity with the prior stage's: more signals excess, less (once stamped)
// signals shortfall, equal is on target. Applied stage by stage, not only at
// the terminal stage.
func (i *Item) StageStatus(stage Stage) Outcome {
	if i.StageDate(stage) == nil {
		return OutcomePending
	}
	prev := stage.prev()
	if prev == "" {
		// The ordered stage has no predecessor to compare against.
		return OutcomeOnTarget
	}

	this := i.StageQty(stage)
	prior := i.StageQty(prev)
	switch {
	case this > prior:
		return OutcomeExcess
	case this < prior:
		return OutcomeShortfall
	default:
		return OutcomeOnTarget
	}
}
