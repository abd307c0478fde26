package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barberbook/internal/events"
	"barberbook/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenBadPathReturnsError(t *testing.T) {
	// sql.Open is lazy; the failure surfaces on the first exec and must
	// not leak the handle.
	s, err := Open("/nonexistent-barberbook-dir/shop.db", nil)
	require.Error(t, err)
	assert.Nil(t, s)
}

func seedCatalog(t *testing.T, s *Store) (stylistID, serviceID string) {
	t.Helper()
	ctx := context.Background()
	stylist := &model.Stylist{Name: "Ana"}
	require.NoError(t, s.CreateStylist(ctx, stylist))
	service := &model.Service{Name: "Corte", Price: 15.005, Duration: "30 mins"}
	require.NoError(t, s.CreateService(ctx, service))
	return stylist.ID, service.ID
}

func TestCreateAppointmentAssignsIDAndTimestamp(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	stylistID, serviceID := seedCatalog(t, s)

	ctx := context.Background()
	a := &model.Appointment{
		StylistID:   stylistID,
		ServiceID:   serviceID,
		BookingName: "Marta",
		ClientName:  "Marta",
		Date:        "2024-06-03",
		Hour:        "10:00",
		Status:      model.StatusPending,
		// Caller-supplied timestamps are ignored; the store clock wins.
		CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateAppointment(ctx, a))

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, fixed, a.CreatedAt)

	loaded, err := s.AppointmentByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marta", loaded.BookingName)
	assert.Equal(t, model.StatusPending, loaded.Status)
}

func TestStylistDayExcludesCanceled(t *testing.T) {
	s := openTestStore(t)
	stylistID, serviceID := seedCatalog(t, s)
	ctx := context.Background()

	keep := &model.Appointment{StylistID: stylistID, ServiceID: serviceID,
		ClientName: "A", Date: "2024-06-03", Hour: "10:00", Status: model.StatusPending}
	drop := &model.Appointment{StylistID: stylistID, ServiceID: serviceID,
		ClientName: "B", Date: "2024-06-03", Hour: "11:00", Status: model.StatusPending}
	require.NoError(t, s.CreateAppointment(ctx, keep))
	require.NoError(t, s.CreateAppointment(ctx, drop))
	require.NoError(t, s.UpdateAppointmentStatus(ctx, drop.ID, model.StatusCanceled))

	day, err := s.AppointmentsForStylistDay(ctx, stylistID, "2024-06-03")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, keep.ID, day[0].ID)

	// The whole-day read keeps canceled rows for the admin history.
	all, err := s.AppointmentsForDay(ctx, "2024-06-03")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCountRecentByClient(t *testing.T) {
	s := openTestStore(t)
	stylistID, serviceID := seedCatalog(t, s)
	ctx := context.Background()

	base := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	offsets := []time.Duration{-40 * time.Minute, -20 * time.Minute, -10 * time.Minute, -time.Minute}
	for i, off := range offsets {
		s.now = func() time.Time { return base.Add(off) }
		a := &model.Appointment{StylistID: stylistID, ServiceID: serviceID,
			ClientID: "cli1", ClientName: "Marta",
			Date: "2024-06-10", Hour: []string{"09:30", "10:00", "10:30", "11:00"}[i],
			Status: model.StatusPending}
		require.NoError(t, s.CreateAppointment(ctx, a))
	}

	count, err := s.CountRecentByClient(ctx, "cli1", base.Add(-30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 3, count, "only bookings inside the trailing window count")
}

func TestVoucherLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	client := &model.Client{Name: "Marta"}
	require.NoError(t, s.UpsertClient(ctx, client))

	voucher := &model.Voucher{ClientID: client.ID, Sessions: 2}
	require.NoError(t, s.CreateVoucher(ctx, voucher))
	assert.Equal(t, 2, voucher.Remaining)

	attached, err := s.GetClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, voucher.ID, attached.VoucherID)

	remaining, err := s.ConsumeVoucherSession(ctx, voucher.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	remaining, err = s.ConsumeVoucherSession(ctx, voucher.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// Exhausted voucher detaches from the client and refuses further use.
	detached, err := s.GetClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Empty(t, detached.VoucherID)

	_, err = s.ConsumeVoucherSession(ctx, voucher.ID)
	assert.Error(t, err)
}

func TestScheduleRoundTripAndDefaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureDefaultSchedule(ctx))
	schedule, err := s.GetSchedule(ctx)
	require.NoError(t, err)
	assert.Len(t, schedule.RangesFor(time.Monday), 2)
	assert.Empty(t, schedule.RangesFor(time.Sunday))

	// Replacing a day keeps the others.
	require.NoError(t, s.PutDaySchedule(ctx, time.Monday, []model.TimeRange{{Start: "10:00", End: "14:00"}}))
	schedule, err = s.GetSchedule(ctx)
	require.NoError(t, err)
	require.Len(t, schedule.RangesFor(time.Monday), 1)
	assert.Equal(t, "10:00", schedule.RangesFor(time.Monday)[0].Start)
	assert.Len(t, schedule.RangesFor(time.Saturday), 1)

	// Seeding again leaves the edited schedule alone.
	require.NoError(t, s.EnsureDefaultSchedule(ctx))
	schedule, err = s.GetSchedule(ctx)
	require.NoError(t, err)
	assert.Len(t, schedule.RangesFor(time.Monday), 1)
}

func TestAppointmentWritePublishesEvent(t *testing.T) {
	bus := events.NewBus()
	s, err := Open(":memory:", bus)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	stylistID, serviceID := seedCatalog(t, s)

	sub := bus.Subscribe(events.TopicAppointments)
	defer sub.Unsubscribe()

	a := &model.Appointment{StylistID: stylistID, ServiceID: serviceID,
		ClientName: "Marta", Date: "2024-06-03", Hour: "10:00", Status: model.StatusPending}
	require.NoError(t, s.CreateAppointment(context.Background(), a))

	select {
	case ev := <-sub.Events:
		assert.Equal(t, "created", ev.Action)
		assert.Equal(t, a.ID, ev.DocumentID)
	case <-time.After(time.Second):
		t.Fatal("no appointment event published")
	}
}
