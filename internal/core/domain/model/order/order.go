package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the dispatch domain. It owns the lifecycle
// state, the loading rank and every audit field of a manifest.
//
// Order follows these invariants:
//   - the manifest number is never blank
//   - a carrier is always present
//   - quantity is positive
//   - stage is StageNone unless status is InPreparation
//   - a rank is only held while status is Pending
//   - controlled is true only in READY_TO_LOAD
type Order struct {
	id             kernel.UUID
	manifestNumber string

	carrier reference.Link
	zone    *reference.Link
	route   *reference.Link
	group   *reference.Link

	status Status
	stage  Stage

	// rank is the loading priority; parkedRank is the rank held before
	// preparation began, kept until the order returns to Pending.
	rank       *int
	parkedRank *int

	quantity     int
	deliveryDate time.Time

	createdBy     string
	createdByName string

	createdAt     time.Time
	updatedAt     time.Time
	preparationAt *time.Time
	controlAt     *time.Time
	readyToLoadAt *time.Time
	enqueuedAt    *time.Time
	finalizedAt   *time.Time

	controlled   bool
	controlledBy string
	finalizedBy  string

	// version is the optimistic concurrency token maintained by the store.
	version int64

	isConstructed bool
}

// NewOrder creates a pending, unranked order.
//
// Parameters:
//   - id: unique identifier
//   - manifestNumber: human readable manifest number (trimmed, required)
//   - carrier: resolved carrier entry (required)
//   - zone: resolved zone entry or nil
//   - route: resolved route entry (required at creation)
//   - quantity: positive amount of packages
//   - deliveryDate: calendar date of delivery; nil means the creation date
//   - creator: the acting user
//   - now: creation timestamp
//
// Returns:
//   - *Order: the created order
//   - error: every failed validation joined with errors.Join
func NewOrder(
	id kernel.UUID,
	manifestNumber string,
	carrier reference.Link,
	zone *reference.Link,
	route *reference.Link,
	quantity int,
	deliveryDate *time.Time,
	creator kernel.Actor,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		stage:         StageNone,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	date := kernel.DateOf(now)
	if deliveryDate != nil && !deliveryDate.IsZero() {
		date = kernel.DateOf(*deliveryDate)
	}
	o.deliveryDate = date

	var routeErr error
	if route == nil {
		routeErr = errs.NewValueIsRequiredError("route")
	}

	if err := errors.Join(
		o.setID(id),
		o.setManifestNumber(manifestNumber),
		o.setCarrier(carrier),
		o.setZone(zone),
		routeErr,
		o.setRoute(route),
		o.setQuantity(quantity),
		o.setCreator(creator),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot is the full persisted form of an order.
type Snapshot struct {
	ID             kernel.UUID
	ManifestNumber string
	Carrier        reference.Link
	Zone           *reference.Link
	Route          *reference.Link
	Group          *reference.Link
	Status         Status
	Stage          Stage
	Rank           *int
	ParkedRank     *int
	Quantity       int
	DeliveryDate   time.Time
	CreatedBy      string
	CreatedByName  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	PreparationAt  *time.Time
	ControlAt      *time.Time
	ReadyToLoadAt  *time.Time
	EnqueuedAt     *time.Time
	FinalizedAt    *time.Time
	Controlled     bool
	ControlledBy   string
	FinalizedBy    string
	Version        int64
}

// RestoreOrder rehydrates an order from storage and re-checks its invariants.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		group:         copyLink(s.Group),
		rank:          copyInt(s.Rank),
		parkedRank:    copyInt(s.ParkedRank),
		deliveryDate:  s.DeliveryDate,
		createdBy:     s.CreatedBy,
		createdByName: s.CreatedByName,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		preparationAt: copyTime(s.PreparationAt),
		controlAt:     copyTime(s.ControlAt),
		readyToLoadAt: copyTime(s.ReadyToLoadAt),
		enqueuedAt:    copyTime(s.EnqueuedAt),
		finalizedAt:   copyTime(s.FinalizedAt),
		controlled:    s.Controlled,
		controlledBy:  s.ControlledBy,
		finalizedBy:   s.FinalizedBy,
		version:       s.Version,
		isConstructed: true,
	}

	state := State{Status: s.Status, Stage: s.Stage}
	var rankErr error
	if s.Rank != nil && (s.Status != Pending || *s.Rank < 1) {
		rankErr = errs.NewValueIsInvalidErrorWithCause(
			"rank",
			fmt.Errorf("rank %d is not allowed while %s", *s.Rank, state),
		)
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setManifestNumber(s.ManifestNumber),
		o.setCarrier(s.Carrier),
		o.setZone(s.Zone),
		o.setRoute(s.Route),
		o.setQuantity(s.Quantity),
		state.Validate(),
		rankErr,
	); err != nil {
		return nil, err
	}
	o.status, o.stage = s.Status, s.Stage

	return o, nil
}

// Snapshot returns a detached copy of every field.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:             o.id,
		ManifestNumber: o.manifestNumber,
		Carrier:        o.carrier,
		Zone:           copyLink(o.zone),
		Route:          copyLink(o.route),
		Group:          copyLink(o.group),
		Status:         o.status,
		Stage:          o.stage,
		Rank:           copyInt(o.rank),
		ParkedRank:     copyInt(o.parkedRank),
		Quantity:       o.quantity,
		DeliveryDate:   o.deliveryDate,
		CreatedBy:      o.createdBy,
		CreatedByName:  o.createdByName,
		CreatedAt:      o.createdAt,
		UpdatedAt:      o.updatedAt,
		PreparationAt:  copyTime(o.preparationAt),
		ControlAt:      copyTime(o.controlAt),
		ReadyToLoadAt:  copyTime(o.readyToLoadAt),
		EnqueuedAt:     copyTime(o.enqueuedAt),
		FinalizedAt:    copyTime(o.finalizedAt),
		Controlled:     o.controlled,
		ControlledBy:   o.controlledBy,
		FinalizedBy:    o.finalizedBy,
		Version:        o.version,
	}
}

// Validate ensures the Order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) ManifestNumber() string { return o.manifestNumber }
func (o *Order) Carrier() reference.Link { return o.carrier }
func (o *Order) Zone() *reference.Link { return copyLink(o.zone) }
func (o *Order) Route() *reference.Link { return copyLink(o.route) }
func (o *Order) Group() *reference.Link { return copyLink(o.group) }
func (o *Order) Status() Status { return o.status }
func (o *Order) Stage() Stage { return o.stage }
func (o *Order) State() State { return State{Status: o.status, Stage: o.stage} }
func (o *Order) Quantity() int { return o.quantity }
func (o *Order) DeliveryDate() time.Time { return o.deliveryDate }
func (o *Order) CreatedBy() string { return o.createdBy }
func (o *Order) CreatedByName() string { return o.createdByName }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }
func (o *Order) PreparationAt() *time.Time { return copyTime(o.preparationAt) }
func (o *Order) ControlAt() *time.Time { return copyTime(o.controlAt) }
func (o *Order) ReadyToLoadAt() *time.Time { return copyTime(o.readyToLoadAt) }
func (o *Order) EnqueuedAt() *time.Time { return copyTime(o.enqueuedAt) }
func (o *Order) FinalizedAt() *time.Time { return copyTime(o.finalizedAt) }
func (o *Order) Controlled() bool { return o.controlled }
func (o *Order) ControlledBy() string { return o.controlledBy }
func (o *Order) FinalizedBy() string { return o.finalizedBy }
func (o *Order) Version() int64 { return o.version }
func (o *Order) Rank() *int { return copyInt(o.rank) }
func (o *Order) ParkedRank() *int { return copyInt(o.parkedRank) }
func (o *Order) IsRanked() bool { return o.rank != nil }
func (o *Order) BookingKey() BookingKey { return newBookingKey(o.carrier, o.route, o.deliveryDate) }
func (o *Order) IsEditable() bool { return o.status == Pending || o.status == InPreparation }
func (o *Order) HasStage() bool { return o.stage != StageNone }

// MarkPersisted records the version the store assigned after a write.
func (o *Order) MarkPersisted(version int64) {
	o.version = version
}

// SetState moves the order to target, running every step Plan returns.
// A target equal to the current state leaves the order untouched.
func (o *Order) SetState(target State, actor kernel.Actor, now time.Time) (Transition, error) {
	if err := actor.Validate(); err != nil {
		return Transition{}, err
	}

	from := o.State()
	steps, err := Plan(from, target)
	if err != nil {
		return Transition{}, err
	}

	tr := Transition{From: from, To: target, Steps: steps}
	for _, step := range steps {
		o.apply(step, actor, now, &tr)
	}
	if !tr.IsNoop() {
		o.updatedAt = now
	}

	return tr, nil
}

// Advance moves an order in preparation one stage forward.
// It fails with an InvalidTransitionError outside IN_PREPARATION.
func (o *Order) Advance(actor kernel.Actor, now time.Time) (Transition, error) {
	next, err := o.State().Next()
	if err != nil {
		return Transition{}, err
	}
	return o.SetState(next, actor, now)
}

func (o *Order) apply(step Step, actor kernel.Actor, now time.Time, tr *Transition) {
	switch step.Kind {
	case StepBeginPreparation:
		o.parkedRank = copyInt(o.rank)
		if o.rank != nil {
			tr.VacatedRank = copyInt(o.rank)
		}
		o.rank = nil
		o.preparationAt = timePtr(now)
		tr.BeganPreparation = true
	case StepEnterControl:
		o.controlled = false
		o.controlledBy = ""
		o.controlAt = timePtr(now)
	case StepEnterReadyToLoad:
		o.controlled = true
		o.controlledBy = actor.Name()
		o.readyToLoadAt = timePtr(now)
	case StepFinalize:
		o.controlled = false
		o.rank = nil
		o.finalizedBy = actor.Name()
		o.finalizedAt = timePtr(now)
	case StepRewind:
		o.rewind(step.To, tr)
	}
	o.status, o.stage = step.To.Status, step.To.Stage
}

// rewind clears the markers of every state after to.
func (o *Order) rewind(to State, tr *Transition) {
	pos := to.position()

	o.finalizedAt = nil
	if pos < StateReadyToLoad.position() {
		o.readyToLoadAt = nil
	}
	if pos < StateControl.position() {
		o.controlAt = nil
	}
	if to == StateControl {
		o.controlledBy = ""
	}
	o.controlled = to == StateReadyToLoad

	if to == StatePending {
		o.preparationAt = nil
		tr.ReturnedToPending = true
		tr.RestoreRank = copyInt(o.parkedRank)
		o.parkedRank = nil
	}
}

// PlaceInQueue sets the loading rank. The entered-queue timestamp is stamped
// only the first time the order receives a rank.
func (o *Order) PlaceInQueue(rank int, now time.Time) error {
	if o.status != Pending {
		return errs.NewInvalidTransitionError("rank", fmt.Sprintf("position %d", rank), o.State().String())
	}
	if rank < 1 {
		return errs.NewValueIsOutOfRangeError("rank", rank, 1, "queue length + 1")
	}
	if o.rank != nil && *o.rank == rank {
		return nil
	}

	o.rank = &rank
	if o.enqueuedAt == nil {
		o.enqueuedAt = timePtr(now)
	}
	o.updatedAt = now
	return nil
}

// LeaveQueue clears the rank and reports whether one was held.
func (o *Order) LeaveQueue(now time.Time) bool {
	if o.rank == nil {
		return false
	}
	o.rank = nil
	o.updatedAt = now
	return true
}

// AssignGroup attaches a preparation group. Allowed in any state.
func (o *Order) AssignGroup(group reference.Link, now time.Time) error {
	if err := group.ID.Validate(); err != nil {
		return err
	}
	if o.group != nil && o.group.IsEqual(group) {
		return nil
	}
	o.group = &group
	o.updatedAt = now
	return nil
}

// RemoveGroup detaches the preparation group. Allowed in any state.
func (o *Order) RemoveGroup(now time.Time) {
	if o.group == nil {
		return
	}
	o.group = nil
	o.updatedAt = now
}

// Revision lists the editable fields. Nil pointers keep the current value.
type Revision struct {
	ManifestNumber *string
	Carrier        *reference.Link
	Zone           *reference.Link
	ClearZone      bool
	Route          *reference.Link
	ClearRoute     bool
	Quantity       *int
	DeliveryDate   *time.Time
}

// Revise applies a revision to an order that is PENDING or IN_PREPARATION.
// Lifecycle fields are never affected.
func (o *Order) Revise(r Revision, now time.Time) error {
	if !o.IsEditable() {
		return errs.NewInvalidTransitionError("update", "new field values", o.State().String())
	}

	next := *o
	var zone, route *reference.Link
	zone, route = o.zone, o.route
	if r.ClearZone {
		zone = nil
	} else if r.Zone != nil {
		zone = r.Zone
	}
	if r.ClearRoute {
		route = nil
	} else if r.Route != nil {
		route = r.Route
	}

	var manifestErr, carrierErr, quantityErr error
	if r.ManifestNumber != nil {
		manifestErr = next.setManifestNumber(*r.ManifestNumber)
	}
	if r.Carrier != nil {
		carrierErr = next.setCarrier(*r.Carrier)
	}
	if r.Quantity != nil {
		quantityErr = next.setQuantity(*r.Quantity)
	}
	if err := errors.Join(
		manifestErr,
		carrierErr,
		next.setZone(zone),
		next.setRoute(route),
		quantityErr,
	); err != nil {
		return err
	}
	if r.DeliveryDate != nil && !r.DeliveryDate.IsZero() {
		next.deliveryDate = kernel.DateOf(*r.DeliveryDate)
	}

	next.updatedAt = now
	*o = next
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setManifestNumber(manifestNumber string) error {
	manifestNumber = strings.TrimSpace(manifestNumber)
	if manifestNumber == "" {
		return errs.NewValueIsRequiredError("manifest number")
	}
	o.manifestNumber = manifestNumber
	return nil
}

func (o *Order) setCarrier(carrier reference.Link) error {
	if err := carrier.ID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("carrier", err)
	}
	o.carrier = carrier
	return nil
}

func (o *Order) setZone(zone *reference.Link) error {
	if zone != nil {
		if err := zone.ID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("zone", err)
		}
	}
	o.zone = copyLink(zone)
	return nil
}

func (o *Order) setRoute(route *reference.Link) error {
	if route != nil {
		if err := route.ID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("route", err)
		}
	}
	o.route = copyLink(route)
	return nil
}

func (o *Order) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	o.quantity = quantity
	return nil
}

func (o *Order) setCreator(creator kernel.Actor) error {
	if err := creator.Validate(); err != nil {
		return err
	}
	o.createdBy = creator.ID()
	o.createdByName = creator.Name()
	return nil
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyLink(v *reference.Link) *reference.Link {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func timePtr(t time.Time) *time.Time {
	return &t
}
