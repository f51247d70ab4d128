package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march1 = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func completeDraft(t *testing.T) *Draft {
	t.Helper()
	d := NewDraft()
	d.SetVehicle("car-1")
	d.SetOutlet("outlet-9")
	require.NoError(t, d.SetWashType(WashTypePremium))
	d.SetPrice(8500)
	d.SetSchedule(march1, "10:00 am")
	return d
}

func TestDraft_FreshIsIncomplete(t *testing.T) {
	d := NewDraft()
	assert.False(t, d.IsComplete())
	assert.Equal(t, StateEmpty, d.State())
}

func TestDraft_CompleteBooking(t *testing.T) {
	d := completeDraft(t)
	assert.True(t, d.IsComplete())
	assert.Equal(t, StateComplete, d.State())
}

func TestDraft_MissingScheduleIsIncomplete(t *testing.T) {
	d := NewDraft()
	d.SetVehicle("car-1")
	d.SetOutlet("outlet-9")
	require.NoError(t, d.SetWashType(WashTypePremium))
	d.SetPrice(8500)

	assert.False(t, d.IsComplete())
	assert.Equal(t, StatePartial, d.State())
}

func TestDraft_ClearResetsEverything(t *testing.T) {
	d := completeDraft(t)
	d.Clear()

	assert.Equal(t, Snapshot{}, d.Snapshot())
	assert.False(t, d.IsComplete())
	assert.Equal(t, StateEmpty, d.State())

	_, ok := d.Date()
	assert.False(t, ok)
}

func TestDraft_ClearIsIdempotent(t *testing.T) {
	d := completeDraft(t)
	d.Clear()
	once := d.Snapshot()
	d.Clear()
	assert.Equal(t, once, d.Snapshot())

	empty := NewDraft()
	empty.Clear()
	assert.Equal(t, StateEmpty, empty.State())
}

func TestDraft_LastPriceWins(t *testing.T) {
	d := NewDraft()
	require.NoError(t, d.SetWashType(WashTypeBasic))
	d.SetPrice(5000)
	require.NoError(t, d.SetWashType(WashTypeBasic))
	d.SetPrice(6000)

	assert.Equal(t, int64(6000), d.Price())
}

func TestDraft_IsCompleteRequiresEveryField(t *testing.T) {
	testCases := []struct {
		name  string
		spoil func(d *Draft)
	}{
		{name: "no vehicle", spoil: func(d *Draft) { d.SetVehicle("") }},
		{name: "no outlet", spoil: func(d *Draft) { d.SetOutlet("") }},
		{name: "no wash type", spoil: func(d *Draft) { d.washType = "" }},
		{name: "no date", spoil: func(d *Draft) { d.SetSchedule(time.Time{}, "10:00 am") }},
		{name: "no time", spoil: func(d *Draft) { d.SetSchedule(march1, "") }},
		{name: "zero price", spoil: func(d *Draft) { d.SetPrice(0) }},
		{name: "negative price", spoil: func(d *Draft) { d.SetPrice(-100) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := completeDraft(t)
			tc.spoil(d)
			assert.False(t, d.IsComplete())
			assert.Equal(t, StatePartial, d.State())
		})
	}
}

func TestDraft_IsCompleteIsPure(t *testing.T) {
	for _, d := range []*Draft{NewDraft(), completeDraft(t)} {
		before := d.Snapshot()
		first := d.IsComplete()
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, d.IsComplete())
		}
		assert.Equal(t, before, d.Snapshot())
	}
}

func TestDraft_SetScheduleReplacesBothFields(t *testing.T) {
	d := NewDraft()
	d.SetSchedule(march1, "10:00 am")

	march2 := march1.AddDate(0, 0, 1)
	d.SetSchedule(march2, "02:30 pm")
	date, ok := d.Date()
	assert.True(t, ok)
	assert.Equal(t, march2, date)
	assert.Equal(t, "02:30 pm", d.TimeLabel())

	d.SetSchedule(march1, "")
	date, _ = d.Date()
	assert.Equal(t, march1, date)
	assert.Empty(t, d.TimeLabel())
}

func TestDraft_SetScheduleTruncatesToDay(t *testing.T) {
	d := NewDraft()
	d.SetSchedule(time.Date(2026, time.March, 1, 17, 45, 12, 0, time.UTC), "05:45 pm")

	date, _ := d.Date()
	assert.Equal(t, march1, date)
}

func TestDraft_SetWashTypeRejectsUnknownTier(t *testing.T) {
	d := NewDraft()
	require.NoError(t, d.SetWashType(WashTypeBasic))

	err := d.SetWashType("Deluxe")
	assert.True(t, errors.Is(err, ErrUnknownWashType))
	assert.Equal(t, WashTypeBasic, d.WashType())
}

func TestDraft_SelectWashTypeFoldsPrice(t *testing.T) {
	tariff := Tariff{WashTypeQuickWash: 3000, WashTypeBasic: 5000}
	d := NewDraft()

	require.NoError(t, d.SelectWashType(WashTypeBasic, tariff))
	assert.Equal(t, WashTypeBasic, d.WashType())
	assert.Equal(t, int64(5000), d.Price())

	require.NoError(t, d.SelectWashType(WashTypeQuickWash, tariff))
	assert.Equal(t, int64(3000), d.Price())

	err := d.SelectWashType(WashTypePremium, tariff)
	assert.ErrorIs(t, err, ErrNoTariff)
	assert.Equal(t, WashTypeQuickWash, d.WashType(), "draft must be unchanged on error")
	assert.Equal(t, int64(3000), d.Price())

	err = d.SelectWashType("Gold", tariff)
	assert.ErrorIs(t, err, ErrUnknownWashType)
}

func TestParseWashType(t *testing.T) {
	for _, w := range WashTypes {
		parsed, err := ParseWashType(string(w))
		assert.NoError(t, err)
		assert.Equal(t, w, parsed)
	}

	_, err := ParseWashType("premium")
	assert.ErrorIs(t, err, ErrUnknownWashType)
	_, err = ParseWashType("")
	assert.ErrorIs(t, err, ErrUnknownWashType)
}

func TestDraft_ZeroDateInZoneIsStillEmpty(t *testing.T) {
	d := NewDraft()
	d.SetSchedule(time.Time{}.In(time.FixedZone("WAT", 3600)), "")

	_, ok := d.Date()
	assert.False(t, ok)
	assert.Equal(t, StateEmpty, d.State())
	assert.False(t, d.IsComplete())
}
