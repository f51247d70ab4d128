// Package flow sequences the booking wizard: vehicle, outlet, wash details,
// then confirmation.
package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"carwash-backend/internal/api/dto"
	"carwash-backend/internal/booking"
	"carwash-backend/internal/parse"
)

var (
	ErrStepOrder = errors.New("booking step out of order")
	ErrNoDate    = errors.New("a wash date is required")
)

// Step is a stage of the wizard.
type Step int

const (
	StepIdle Step = iota
	StepVehicle
	StepOutlet
	StepWashDetails
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepVehicle:
		return "vehicle"
	case StepOutlet:
		return "outlet"
	case StepWashDetails:
		return "wash details"
	case StepConfirm:
		return "confirm"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Catalog resolves outlets and their tariffs.
type Catalog interface {
	GetOutlet(ctx context.Context, id string) (*dto.Outlet, error)
}

// Checkout submits a finished draft. *checkout.Service satisfies it.
type Checkout interface {
	Submit(ctx context.Context, draft *booking.Draft, paymentRef string) (*dto.WashRequest, error)
}

// Controller owns the draft of one booking flow. It is not safe for
// concurrent use.
type Controller struct {
	draft    *booking.Draft
	step     Step
	tariff   booking.Tariff
	catalog  Catalog
	checkout Checkout
	log      *zap.Logger
}

func NewController(catalog Catalog, checkout Checkout, log *zap.Logger) *Controller {
	return &Controller{
		draft:    booking.NewDraft(),
		catalog:  catalog,
		checkout: checkout,
		log:      log,
	}
}

// Step returns the stage the wizard is waiting on.
func (c *Controller) Step() Step { return c.step }

// Snapshot returns a copy of the draft.
func (c *Controller) Snapshot() booking.Snapshot { return c.draft.Snapshot() }

// Tariff returns the prices of the selected outlet, or nil before one is chosen.
func (c *Controller) Tariff() booking.Tariff { return c.tariff }

func (c *Controller) expect(s Step) error {
	if c.step != s {
		return fmt.Errorf("%w: at %s, not %s", ErrStepOrder, c.step, s)
	}
	return nil
}

// Start begins a new booking, discarding any previous draft.
func (c *Controller) Start() {
	c.draft.Clear()
	c.tariff = nil
	c.step = StepVehicle
}

func (c *Controller) SelectVehicle(id string) error {
	if err := c.expect(StepVehicle); err != nil {
		return err
	}
	c.draft.SetVehicle(id)
	c.step = StepOutlet
	return nil
}

// SelectOutlet records the outlet and loads its tariff for the next step.
func (c *Controller) SelectOutlet(ctx context.Context, id string) error {
	if err := c.expect(StepOutlet); err != nil {
		return err
	}

	outlet, err := c.catalog.GetOutlet(ctx, id)
	if err != nil {
		return fmt.Errorf("load outlet %s: %w", id, err)
	}
	tariff := outlet.Tariff()
	if len(tariff) == 0 {
		return fmt.Errorf("outlet %s: %w", id, booking.ErrNoTariff)
	}

	c.draft.SetOutlet(outlet.ID)
	c.tariff = tariff
	c.step = StepWashDetails
	return nil
}

// SelectWashDetails sets tier, price and schedule. Nothing changes on error.
func (c *Controller) SelectWashDetails(t booking.WashType, date time.Time, timeLabel string) error {
	if err := c.expect(StepWashDetails); err != nil {
		return err
	}
	if date.IsZero() {
		return ErrNoDate
	}
	if _, err := parse.ParseTimeLabel(timeLabel); err != nil {
		return err
	}
	if err := c.draft.SelectWashType(t, c.tariff); err != nil {
		return err
	}
	c.draft.SetSchedule(date, timeLabel)
	c.step = StepConfirm
	return nil
}

// Back returns to the previous step. Earlier selections are kept and get
// overwritten when the step is redone.
func (c *Controller) Back() error {
	if c.step <= StepVehicle {
		return fmt.Errorf("%w: cannot go back from %s", ErrStepOrder, c.step)
	}
	c.step--
	return nil
}

// Confirm submits the draft. On success the flow returns to idle.
func (c *Controller) Confirm(ctx context.Context, paymentRef string) (*dto.WashRequest, error) {
	if err := c.expect(StepConfirm); err != nil {
		return nil, err
	}
	wr, err := c.checkout.Submit(ctx, c.draft, paymentRef)
	if err != nil {
		return nil, err
	}
	c.tariff = nil
	c.step = StepIdle
	c.log.Debug("booking flow finished", zap.String("wash_request_id", wr.ID))
	return wr, nil
}

// Cancel abandons the flow and clears the draft.
func (c *Controller) Cancel() {
	c.draft.Clear()
	c.tariff = nil
	c.step = StepIdle
}
