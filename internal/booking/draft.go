package booking

import (
	"fmt"
	"time"
)

// State is the coarse lifecycle position of a Draft.
type State string

const (
	StateEmpty    State = "empty"
	StatePartial  State = "partial"
	StateComplete State = "complete"
)

// Snapshot is a value copy of a draft, handed to checkout.
type Snapshot struct {
	VehicleID string
	OutletID  string
	WashType  WashType
	Date      time.Time // zero when unset
	TimeLabel string
	Price     int64
}

// Draft holds the single in-flight booking. It is owned by one flow and is
// not safe for concurrent use.
type Draft struct {
	vehicleID string
	outletID  string
	washType  WashType
	date      time.Time
	timeLabel string
	price     int64
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

// SetVehicle sets the vehicle id. An empty id means unset.
func (d *Draft) SetVehicle(id string) {
	d.vehicleID = id
}

// SetOutlet sets the outlet id. An empty id means unset.
func (d *Draft) SetOutlet(id string) {
	d.outletID = id
}

// SetWashType sets the tier. Unknown tiers are rejected and leave the draft unchanged.
// The price is not touched; use SelectWashType to set both.
func (d *Draft) SetWashType(t WashType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownWashType, t)
	}
	d.washType = t
	return nil
}

// SelectWashType sets the tier and its price from the outlet tariff in one step.
func (d *Draft) SelectWashType(t WashType, prices PriceTable) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownWashType, t)
	}
	amount, ok := prices.PriceFor(t)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTariff, t)
	}
	d.washType = t
	d.price = amount
	return nil
}

// SetPrice overwrites the price snapshot. Bounds are the caller's concern.
func (d *Draft) SetPrice(amount int64) {
	d.price = amount
}

// SetSchedule sets the date and time label together. The date is truncated to
// its calendar day; a zero date means unset.
func (d *Draft) SetSchedule(date time.Time, timeLabel string) {
	if !date.IsZero() {
		y, m, day := date.Date()
		date = time.Date(y, m, day, 0, 0, 0, 0, date.Location())
	}
	d.date = date
	d.timeLabel = timeLabel
}

// Clear resets every field.
func (d *Draft) Clear() {
	*d = Draft{}
}

// IsComplete reports whether the draft can be submitted.
func (d *Draft) IsComplete() bool {
	return d.vehicleID != "" &&
		d.outletID != "" &&
		d.washType != "" &&
		!d.date.IsZero() &&
		d.timeLabel != "" &&
		d.price > 0
}

// State derives the lifecycle position from the current fields.
func (d *Draft) State() State {
	switch {
	case d.IsComplete():
		return StateComplete
	case d.isEmpty():
		return StateEmpty
	default:
		return StatePartial
	}
}

// isEmpty checks each field on its own; a zero date may still carry a location.
func (d *Draft) isEmpty() bool {
	return d.vehicleID == "" &&
		d.outletID == "" &&
		d.washType == "" &&
		d.date.IsZero() &&
		d.timeLabel == "" &&
		d.price == 0
}

func (d *Draft) VehicleID() string  { return d.vehicleID }
func (d *Draft) OutletID() string   { return d.outletID }
func (d *Draft) WashType() WashType { return d.washType }
func (d *Draft) TimeLabel() string  { return d.timeLabel }
func (d *Draft) Price() int64       { return d.price }

// Date returns the scheduled day and whether one is set.
func (d *Draft) Date() (time.Time, bool) {
	return d.date, !d.date.IsZero()
}

// Snapshot returns a copy of the current fields.
func (d *Draft) Snapshot() Snapshot {
	return Snapshot{
		VehicleID: d.vehicleID,
		OutletID:  d.outletID,
		WashType:  d.washType,
		Date:      d.date,
		TimeLabel: d.timeLabel,
		Price:     d.price,
	}
}
