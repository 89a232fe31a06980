package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemedpro/telemed/backend/internal/model/doctor"
	"github.com/telemedpro/telemed/backend/internal/model/record"
)

func newTestService() *Service {
	return NewService(doctor.NewMemoryStore(doctor.Seed()), record.SeedAppointments())
}

func validForm() record.BookingForm {
	return record.BookingForm{
		Type:      record.TypeVideo,
		Specialty: "Cardiología",
		Doctor:    "Dr. Carlos Rivera",
		Date:      "2025-06-16",
		Time:      "10:00",
		Reason:    "Control de presión",
	}
}

func TestListSortedByDate(t *testing.T) {
	svc := newTestService()
	items := svc.List(context.Background())
	require.Len(t, items, 2)
	assert.Equal(t, "2025-06-01 10:00", items[0].Date)
	assert.Equal(t, "2025-06-10 15:30", items[1].Date)
	assert.Len(t, svc.Upcoming(context.Background(), 1), 1)
}

func TestCancel(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Cancel(ctx, 1))
	_, err := svc.Get(ctx, 1)
	assert.ErrorIs(t, err, record.ErrNotFound)
	assert.ErrorIs(t, svc.Cancel(ctx, 1), record.ErrNotFound)
}

func TestReschedule(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.Reschedule(ctx, 1, NextWeek)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-08 10:00", item.Date)
	assert.Equal(t, record.StatusRescheduled, item.Status)

	item, err = svc.Reschedule(ctx, 2, NextMonth)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-10 15:30", item.Date)

	_, err = svc.Reschedule(ctx, 2, "tomorrow")
	assert.ErrorIs(t, err, ErrInvalidReschedule)
	_, err = svc.Reschedule(ctx, 99, NextWeek)
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestRescheduleRejectsTakenSlot(t *testing.T) {
	items := record.SeedAppointments()
	clash := items[0]
	clash.ID = 3
	clash.Date = "2025-06-08 10:00"
	svc := NewService(doctor.NewMemoryStore(doctor.Seed()), append(items, clash))
	ctx := context.Background()

	_, err := svc.Reschedule(ctx, 1, NextWeek)
	require.ErrorIs(t, err, ErrSlotUnavailable)

	item, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01 10:00", item.Date)
	assert.Equal(t, record.StatusConfirmed, item.Status)

	_, err = svc.Reschedule(ctx, 1, NextMonth)
	assert.NoError(t, err)
}

func TestBook(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.Book(ctx, validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.ID)
	assert.Equal(t, "2025-06-16 10:00", item.Date)
	assert.Equal(t, record.StatusConfirmed, item.Status)
	assert.NotEmpty(t, item.VideoURL)
	assert.NotContains(t, svc.AvailableSlots(ctx, "Dr. Carlos Rivera", "2025-06-16"), "10:00")

	_, err = svc.Book(ctx, validForm())
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	target, err := svc.VideoCallTarget(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Carlos Rivera", target.Doctor)
}

func TestBookValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*record.BookingForm)
		want   error
	}{
		{"missing reason", func(f *record.BookingForm) { f.Reason = "  " }, record.ErrIncompleteForm},
		{"missing doctor", func(f *record.BookingForm) { f.Doctor = "" }, record.ErrIncompleteForm},
		{"bad type", func(f *record.BookingForm) { f.Type = "telefono" }, ErrInvalidType},
		{"wrong specialty", func(f *record.BookingForm) { f.Specialty = "Pediatría" }, ErrDoctorMismatch},
		{"unknown doctor", func(f *record.BookingForm) { f.Doctor = "Dr. Nadie" }, ErrDoctorMismatch},
		{"date outside agenda", func(f *record.BookingForm) { f.Date = "2025-07-01" }, ErrSlotUnavailable},
		{"time outside slots", func(f *record.BookingForm) { f.Time = "13:00" }, ErrSlotUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)
			_, err := svc.Book(ctx, form)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Len(t, svc.List(ctx), 2)
}

func TestAvailableSlots(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	assert.Len(t, svc.AvailableSlots(ctx, "Dr. Carlos Rivera", "2025-06-15"), 8)
	assert.Empty(t, svc.AvailableSlots(ctx, "Dr. Carlos Rivera", "2025-01-01"))
	assert.Len(t, svc.AvailableDates(), 6)
}

func TestVideoCallTargetRejectsInPerson(t *testing.T) {
	svc := newTestService()
	_, err := svc.VideoCallTarget(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotVideoAppointment)

	target, err := svc.VideoCallTarget(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Dra. María Salazar", target.Doctor)
	assert.Equal(t, "Medicina General", target.Specialty)
}
