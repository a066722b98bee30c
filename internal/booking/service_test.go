package booking

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pushkala9-bommu/tablebook-backend/internal/availability"
	"github.com/pushkala9-bommu/tablebook-backend/internal/catalog"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
	pkgerrors "github.com/pushkala9-bommu/tablebook-backend/pkg/errors"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/logger"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/metrics"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type engineFixture struct {
	svc          Service
	db           *gorm.DB
	ledger       availability.Repository
	restaurantID uuid.UUID
}

func newEngine(t *testing.T, capacity int) *engineFixture {
	t.Helper()

	dsn := "file:booking_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Restaurant{}, &models.Booking{}, &models.AvailabilityEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	restaurant := models.Restaurant{
		ID:          uuid.New(),
		Name:        "test",
		Capacity:    capacity,
		OpeningTime: "10:00",
		ClosingTime: "23:00",
	}
	if err := db.Create(&restaurant).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}

	ledger := availability.NewRepository(db)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(
		gormTxRunner{db: db},
		NewRepository(db),
		ledger,
		catalog.NewRepository(db),
		metrics.NewBookingMetrics(prometheus.NewRegistry()),
		logg,
		100,
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return &engineFixture{svc: svc, db: db, ledger: ledger, restaurantID: restaurant.ID}
}

func (f *engineFixture) openDate(t *testing.T, value string, slots int) time.Time {
	t.Helper()
	date, err := types.ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	entry := models.AvailabilityEntry{
		RestaurantID:   f.restaurantID,
		Date:           date,
		AvailableSlots: slots,
	}
	if err := f.db.Create(&entry).Error; err != nil {
		t.Fatalf("seed availability: %v", err)
	}
	return date
}

func (f *engineFixture) slots(t *testing.T, date time.Time) int {
	t.Helper()
	entry, err := f.ledger.Get(context.Background(), f.restaurantID, date)
	if err != nil {
		t.Fatalf("load entry: %v", err)
	}
	return entry.AvailableSlots
}

func at(date time.Time, clock string) time.Time {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		panic(err)
	}
	return date.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
}

func (f *engineFixture) book(t *testing.T, when time.Time, party int) *models.Booking {
	t.Helper()
	booking, err := f.svc.Book(context.Background(), BookInput{
		RestaurantID:    f.restaurantID,
		CustomerName:    "Alice",
		CustomerPhone:   "+15550100",
		ReservationTime: when,
		PartySize:       party,
	})
	if err != nil {
		t.Fatalf("book party of %d: %v", party, err)
	}
	return booking
}

func TestBookConsumesAndCancelRestores(t *testing.T) {
	t.Parallel()

	f := newEngine(t, 50)
	ctx := context.Background()
	date := f.openDate(t, "2025-02-10", 50)

	booking := f.book(t, at(date, "19:00"), 50)
	if got := f.slots(t, date); got != 0 {
		t.Fatalf("expected 0 slots after full booking, got %d", got)
	}

	_, err := f.svc.Book(ctx, BookInput{
		RestaurantID:    f.restaurantID,
		CustomerName:    "Bob",
		CustomerPhone:   "+15550101",
		ReservationTime: at(date, "20:00"),
		PartySize:       1,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNoAvailability) {
		t.Fatalf("expected no availability, got %v", err)
	}

	if err := f.svc.Cancel(ctx, booking.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := f.slots(t, date); got != 50 {
		t.Fatalf("expected slots restored to 50, got %d", got)
	}
	if _, err := f.svc.Get(ctx, booking.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("cancelled booking must be gone, got %v", err)
	}
}

func TestBookOnClosedDate(t *testing.T) {
	t.Parallel()

	f := newEngine(t, 50)
	date, _ := types.ParseDate("2025-02-10")

	_, err := f.svc.Book(context.Background(), BookInput{
		RestaurantID:    f.restaurantID,
		CustomerName:    "Alice",
		CustomerPhone:   "+15550100",
		ReservationTime: at(date, "19:00"),
		PartySize:       2,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNoAvailability) {
		t.Fatalf("missing entry must read as closed, got %v", err)
	}
}

func TestBookOutsideOperatingHours(t *testing.T) {
	t.Parallel()

	f := newEngine(t, 50)
	date := f.openDate(t, "2025-02-10", 50)

	_, err := f.svc.Book(context.Background(), BookInput{
		RestaurantID:    f.restaurantID,
		CustomerName:    "Alice",
		CustomerPhone:   "+15550100",
		ReservationTime: at(date, "08:00"),
		PartySize:       2,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := f.slots(t, date); got != 50 {
		t.Fatalf("rejected booking must not touch the ledger, got %d", got)
	}
}

func TestBookUnknownRestaurant(t *testing.T) {
	t.Parallel()

	f := newEngine(t, 50)
	date := f.openDate(t, "2025-02-10", 50)

	_, err := f.svc.Book(context.Background(), BookInput{
		RestaurantID:    uuid.New(),
		CustomerName:    "Alice",
		CustomerPhone:   "+15550100",
		ReservationTime: at(date, "19:00"),
		PartySize:       2,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancelTwiceIsNotFound(t *testing.T) {
	t.Parallel()

	f := newEngine(t, 50)
	ctx := context.Background()
	date := f.openDate(t, "2025-02-10", 50)
	booking := f.book(t, at(date, "19:00"), 4)

	if err := f.svc.Cancel(ctx, booking.ID); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	err := f.svc.Cancel(ctx, booking.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("second cancel must be not-found, got %v", err)
	}
	if got := f.slots(t, date); got != 50 {
		t.Fatalf("second cancel must not credit slots again, got %d", got)
	}
}

func TestModifySameDatePartySize(t *testing.T) {
	t.Parallel()

	f := newEngine(t, 50)
	ctx := context.Background()
	date := f.openDate(t, "2025-02-10", 50)
	booking := f.book(t, at(date, "19:00"), 10)

	grow := 16
	updated, err := f.svc.Modify(ctx, booking.ID, ModifyInput{PartySize: &grow})
	if err != nil {
		t.Fatalf("grow party: %v", err)
	}
	if updated.PartySize != 16 {
		t.Fatalf("expected party of 16, got %d", updated.PartySize)
	}
	if got := f.slots(t, date); got != 34 {
		t.Fatalf("expected 34 slots, got %d", got)
	}

	shrink := 4
	if _, err := f.svc.Modify(ctx, booking.ID, ModifyInput{PartySize: &shrink}); err != nil {
		t.Fatalf("shrink party: %v", err)
	}
	if got := f.slots(t, date); got != 46 {
		t.Fatalf("expected 46 slots, got %d", got)
	}
}

func TestModifyCrossDateMovesSlots(t *testing.T) {
	t.Parallel()

	f := newEngine(t, 50)
	ctx := context.Background()
	oldDate := f.openDate(t, "2025-02-10", 50)
	newDate := f.openDate(t, "2025-02-12", 50)
	booking := f.book(t, at(oldDate, "19:00"), 12)

	when := at(newDate, "18:30")
	updated, err := f.svc.Modify(ctx, booking.ID, ModifyInput{ReservationTime: &when})
	if err != nil {
		t.Fatalf("move booking: %v", err)
	}
	if !updated.ReservationTime.Equal(when) {
		t.Fatalf("expected reservation at %v, got %v", when, updated.ReservationTime)
	}
	if got := f.slots(t, oldDate); got != 50 {
		t.Fatalf("old date must be fully released, got %d", got)
	}
	if got := f.slots(t, newDate); got != 38 {
		t.Fatalf("new date must hold 38 slots, got %d", got)
	}
}

func TestModifyRollsBackOnFailure(t *testing.T) {
	t.Parallel()

	f := newEngine(t, 50)
	ctx := context.Background()
	oldDate := f.openDate(t, "2025-02-10", 50)
	fullDate := f.openDate(t, "2025-02-12", 5)
	booking := f.book(t, at(oldDate, "19:00"), 12)

	when := at(fullDate, "18:30")
	_, err := f.svc.Modify(ctx, booking.ID, ModifyInput{ReservationTime: &when})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNoAvailability) {
		t.Fatalf("expected no availability on the target date, got %v", err)
	}

	if got := f.slots(t, oldDate); got != 38 {
		t.Fatalf("failed modify must leave the old date held, got %d", got)
	}
	if got := f.slots(t, fullDate); got != 5 {
		t.Fatalf("failed modify must leave the target date untouched, got %d", got)
	}
	current, err := f.svc.Get(ctx, booking.ID)
	if err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if !current.ReservationTime.Equal(booking.ReservationTime) || current.PartySize != 12 {
		t.Fatalf("failed modify must leave the booking unchanged, got %+v", current)
	}
}

func TestModifyRequiresChanges(t *testing.T) {
	t.Parallel()

	f := newEngine(t, 50)
	_, err := f.svc.Modify(context.Background(), uuid.New(), ModifyInput{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("empty modify must be rejected, got %v", err)
	}
}

func TestListByRestaurantKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	f := newEngine(t, 50)
	ctx := context.Background()
	date := f.openDate(t, "2025-02-10", 50)

	first := f.book(t, at(date, "18:00"), 2)
	second := f.book(t, at(date, "19:00"), 3)
	third := f.book(t, at(date, "20:00"), 4)

	bookings, err := f.svc.ListByRestaurant(ctx, f.restaurantID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bookings) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(bookings))
	}
	want := []uuid.UUID{first.ID, second.ID, third.ID}
	for i, booking := range bookings {
		if booking.ID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], booking.ID)
		}
	}
}

// Concurrent bookings race for the same date through a single-connection
// pool: transactions serialize, the conditional decrement arbitrates, and
// exactly capacity/party of them can win.
func TestConcurrentBookingsNeverOversell(t *testing.T) {
	f := newEngine(t, 50)
	date := f.openDate(t, "2025-02-10", 50)

	sqlDB, err := f.db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	const attempts = 10
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Book(context.Background(), BookInput{
				RestaurantID:    f.restaurantID,
				CustomerName:    "Racer",
				CustomerPhone:   "+15550100",
				ReservationTime: at(date, "19:00"),
				PartySize:       10,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		switch {
		case err == nil:
			won++
		case pkgerrors.IsCode(err, pkgerrors.CodeNoAvailability):
			lost++
		default:
			t.Fatalf("unexpected booking error: %v", err)
		}
	}
	if won != 5 || lost != 5 {
		t.Fatalf("expected 5 winners and 5 losers, got %d/%d", won, lost)
	}
	if got := f.slots(t, date); got != 0 {
		t.Fatalf("expected ledger drained to 0, got %d", got)
	}
}
