package flow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carwash-backend/internal/api/dto"
	"carwash-backend/internal/booking"
	"carwash-backend/internal/checkout"
)

var march1 = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

type fakeCatalog map[string]dto.Outlet

func (f fakeCatalog) GetOutlet(_ context.Context, id string) (*dto.Outlet, error) {
	o, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("outlet %s: not found", id)
	}
	return &o, nil
}

type fakeSubmitter struct {
	calls int
	err   error
}

func (f *fakeSubmitter) CreateWashRequest(_ context.Context, req dto.CreateWashRequest) (*dto.WashRequest, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &dto.WashRequest{ID: "wr-1", WashType: req.WashType, Price: req.Price}, nil
}

var catalog = fakeCatalog{
	"outlet-9": {ID: "outlet-9", Prices: map[string]int64{"QuickWash": 3000, "Basic": 5000, "Premium": 8500}},
	"outlet-0": {ID: "outlet-0", Prices: map[string]int64{}},
}

func newController(sub *fakeSubmitter) *Controller {
	return NewController(catalog, checkout.NewService(sub, zap.NewNop()), zap.NewNop())
}

func TestController_HappyPath(t *testing.T) {
	ctx := context.Background()
	sub := &fakeSubmitter{}
	c := newController(sub)

	c.Start()
	require.NoError(t, c.SelectVehicle("car-1"))
	require.NoError(t, c.SelectOutlet(ctx, "outlet-9"))
	require.NoError(t, c.SelectWashDetails(booking.WashTypePremium, march1, "10:00 am"))
	assert.Equal(t, StepConfirm, c.Step())
	assert.Equal(t, int64(8500), c.Snapshot().Price)

	wr, err := c.Confirm(ctx, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, "Premium", wr.WashType)
	assert.Equal(t, int64(8500), wr.Price)
	assert.Equal(t, StepIdle, c.Step())
	assert.Equal(t, booking.Snapshot{}, c.Snapshot())
}

func TestController_EnforcesStepOrder(t *testing.T) {
	ctx := context.Background()
	c := newController(&fakeSubmitter{})

	assert.ErrorIs(t, c.SelectVehicle("car-1"), ErrStepOrder)

	c.Start()
	assert.ErrorIs(t, c.SelectOutlet(ctx, "outlet-9"), ErrStepOrder)
	assert.ErrorIs(t, c.SelectWashDetails(booking.WashTypeBasic, march1, "10:00 am"), ErrStepOrder)
	_, err := c.Confirm(ctx, "")
	assert.ErrorIs(t, err, ErrStepOrder)
	assert.ErrorIs(t, c.Back(), ErrStepOrder)
}

func TestController_BackKeepsSelectionsAndRepricesOnRedo(t *testing.T) {
	ctx := context.Background()
	c := newController(&fakeSubmitter{})

	c.Start()
	require.NoError(t, c.SelectVehicle("car-1"))
	require.NoError(t, c.SelectOutlet(ctx, "outlet-9"))
	require.NoError(t, c.SelectWashDetails(booking.WashTypePremium, march1, "10:00 am"))

	require.NoError(t, c.Back())
	assert.Equal(t, StepWashDetails, c.Step())
	assert.Equal(t, booking.WashTypePremium, c.Snapshot().WashType)

	require.NoError(t, c.SelectWashDetails(booking.WashTypeBasic, march1, "11:30 am"))
	snap := c.Snapshot()
	assert.Equal(t, booking.WashTypeBasic, snap.WashType)
	assert.Equal(t, int64(5000), snap.Price)
	assert.Equal(t, "11:30 am", snap.TimeLabel)
}

func TestController_SelectWashDetailsRejections(t *testing.T) {
	ctx := context.Background()
	c := newController(&fakeSubmitter{})
	c.Start()
	require.NoError(t, c.SelectVehicle("car-1"))
	require.NoError(t, c.SelectOutlet(ctx, "outlet-9"))

	assert.ErrorIs(t, c.SelectWashDetails(booking.WashTypeBasic, time.Time{}, "10:00 am"), ErrNoDate)
	assert.Error(t, c.SelectWashDetails(booking.WashTypeBasic, march1, "sometime"))
	assert.ErrorIs(t, c.SelectWashDetails(booking.WashType("Deluxe"), march1, "10:00 am"), booking.ErrUnknownWashType)

	assert.Equal(t, StepWashDetails, c.Step())
	assert.Empty(t, c.Snapshot().WashType)
	assert.Zero(t, c.Snapshot().Price)
}

func TestController_OutletWithoutTariff(t *testing.T) {
	ctx := context.Background()
	c := newController(&fakeSubmitter{})
	c.Start()
	require.NoError(t, c.SelectVehicle("car-1"))

	assert.ErrorIs(t, c.SelectOutlet(ctx, "outlet-0"), booking.ErrNoTariff)
	assert.Error(t, c.SelectOutlet(ctx, "outlet-404"))
	assert.Equal(t, StepOutlet, c.Step())
	assert.Empty(t, c.Snapshot().OutletID)
}

func TestController_FailedConfirmKeepsDraft(t *testing.T) {
	ctx := context.Background()
	sub := &fakeSubmitter{err: errors.New("payment declined")}
	c := newController(sub)

	c.Start()
	require.NoError(t, c.SelectVehicle("car-1"))
	require.NoError(t, c.SelectOutlet(ctx, "outlet-9"))
	require.NoError(t, c.SelectWashDetails(booking.WashTypeQuickWash, march1, "9 am"))

	_, err := c.Confirm(ctx, "pay_1")
	assert.Error(t, err)
	assert.Equal(t, 1, sub.calls)
	assert.Equal(t, StepConfirm, c.Step())
	assert.Equal(t, int64(3000), c.Snapshot().Price)

	sub.err = nil
	_, err = c.Confirm(ctx, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, 2, sub.calls)
}

func TestController_Cancel(t *testing.T) {
	c := newController(&fakeSubmitter{})
	c.Start()
	require.NoError(t, c.SelectVehicle("car-1"))

	c.Cancel()
	assert.Equal(t, StepIdle, c.Step())
	assert.Equal(t, booking.Snapshot{}, c.Snapshot())
	assert.Nil(t, c.Tariff())
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "wash details", StepWashDetails.String())
	assert.Equal(t, "step(9)", Step(9).String())
}
