package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carwash-backend/internal/api/dto"
	"carwash-backend/internal/booking"
	"carwash-backend/internal/status"
)

type fakeSubmitter struct {
	got   []dto.CreateWashRequest
	reply *dto.WashRequest
	err   error
}

func (f *fakeSubmitter) CreateWashRequest(_ context.Context, req dto.CreateWashRequest) (*dto.WashRequest, error) {
	f.got = append(f.got, req)
	return f.reply, f.err
}

func completeDraft(t *testing.T) *booking.Draft {
	t.Helper()
	d := booking.NewDraft()
	d.SetVehicle("car-1")
	d.SetOutlet("outlet-9")
	require.NoError(t, d.SelectWashType(booking.WashTypePremium, booking.Tariff{booking.WashTypePremium: 8500}))
	d.SetSchedule(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), "10:00 am")
	return d
}

func TestSubmit_IncompleteDraft(t *testing.T) {
	sub := &fakeSubmitter{}
	svc := NewService(sub, zap.NewNop())

	d := booking.NewDraft()
	d.SetVehicle("car-1")

	_, err := svc.Submit(context.Background(), d, "")
	assert.ErrorIs(t, err, booking.ErrIncompleteDraft)
	assert.EqualError(t, err, "please complete all fields")
	assert.Empty(t, sub.got)
	assert.Equal(t, "car-1", d.VehicleID())
}

func TestSubmit_SuccessClearsDraft(t *testing.T) {
	sub := &fakeSubmitter{reply: &dto.WashRequest{ID: "wr-1", Status: status.Pending}}
	svc := NewService(sub, zap.NewNop())
	d := completeDraft(t)

	wr, err := svc.Submit(context.Background(), d, "pay_123")
	require.NoError(t, err)
	assert.Equal(t, "wr-1", wr.ID)

	require.Len(t, sub.got, 1)
	assert.Equal(t, dto.CreateWashRequest{
		VehicleID:  "car-1",
		OutletID:   "outlet-9",
		WashType:   "Premium",
		Date:       "2026-03-01",
		Time:       "10:00 am",
		Price:      8500,
		PaymentRef: "pay_123",
	}, sub.got[0])

	assert.Equal(t, booking.StateEmpty, d.State())
}

func TestSubmit_FailureKeepsDraft(t *testing.T) {
	boom := errors.New("connection refused")
	sub := &fakeSubmitter{err: boom}
	svc := NewService(sub, zap.NewNop())
	d := completeDraft(t)
	before := d.Snapshot()

	_, err := svc.Submit(context.Background(), d, "pay_123")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, d.Snapshot())
	assert.True(t, d.IsComplete())
}
