package app_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"hotel_concierge/internal/app"
	"hotel_concierge/internal/domain"
)

var codePattern = regexp.MustCompile(`^CONF[A-Z0-9]{6}$`)

func newReservations(repo *fakeRepo, opts ...app.Option) *app.ReservationService {
	return app.NewReservationService(repo, append([]app.Option{app.WithClock(fixedClock)}, opts...)...)
}

func deluxeStay() app.NewReservation {
	return app.NewReservation{
		GuestName:  "Ada Lovelace",
		GuestEmail: "ada@example.com",
		RoomTypeID: "deluxe",
		CheckIn:    "2025-02-10",
		CheckOut:   "2025-02-13",
		Guests:     2,
	}
}

func TestCreate_AssignsLowestRoomAndTotal(t *testing.T) {
	repo := newFakeRepo()
	svc := newReservations(repo)

	r, err := svc.Create(context.Background(), deluxeStay())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !codePattern.MatchString(r.ConfirmationCode) {
		t.Fatalf("bad confirmation code %q", r.ConfirmationCode)
	}
	if r.RoomNumber != "203" || r.Status != domain.StatusConfirmed {
		t.Fatalf("unexpected reservation: %+v", r)
	}
	if r.TotalAmount != 657 {
		t.Fatalf("expected 3 nights x 219 = 657, got %v", r.TotalAmount)
	}
	if r.GuestEmail == nil || *r.GuestEmail != "ada@example.com" || r.GuestPhone != nil {
		t.Fatalf("unexpected contact fields: %+v", r)
	}

	// the next deluxe booking for the same dates gets the next room
	r2, err := svc.Create(context.Background(), deluxeStay())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if r2.RoomNumber != "208" {
		t.Fatalf("expected room 208, got %s", r2.RoomNumber)
	}
	if r2.ConfirmationCode == r.ConfirmationCode {
		t.Fatalf("codes must be unique")
	}
}

func TestCreate_SoldOutType(t *testing.T) {
	repo := newFakeRepo()
	svc := newReservations(repo)

	for i := 0; i < 4; i++ {
		if _, err := svc.Create(context.Background(), deluxeStay()); err != nil {
			t.Fatalf("booking %d: %v", i, err)
		}
	}
	_, err := svc.Create(context.Background(), deluxeStay())
	if !errors.Is(err, domain.ErrNoRoomAvailable) {
		t.Fatalf("expected ErrNoRoomAvailable, got %v", err)
	}
	if len(repo.reservations) != 4 {
		t.Fatalf("failed create must not persist, have %d", len(repo.reservations))
	}
}

func TestCreate_BackToBackStaysShareRoom(t *testing.T) {
	repo := newFakeRepo()
	svc := newReservations(repo)

	in := deluxeStay()
	in.RoomNumber = "203"
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("err: %v", err)
	}
	in.CheckIn, in.CheckOut = "2025-02-13", "2025-02-15"
	r, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("check-out day must be free for a new check-in: %v", err)
	}
	if r.RoomNumber != "203" {
		t.Fatalf("expected room 203, got %s", r.RoomNumber)
	}

	in.CheckIn, in.CheckOut = "2025-02-12", "2025-02-14"
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrNoRoomAvailable) {
		t.Fatalf("expected ErrNoRoomAvailable for overlapping stay, got %v", err)
	}
}

func TestCreate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*app.NewReservation)
		want   error
	}{
		{"reversed dates", func(in *app.NewReservation) { in.CheckIn, in.CheckOut = "2025-02-13", "2025-02-10" }, domain.ErrInvalidDateRange},
		{"past check-in", func(in *app.NewReservation) { in.CheckIn = "2025-01-31" }, domain.ErrInvalidDateRange},
		{"over occupancy", func(in *app.NewReservation) { in.Guests = 3 }, domain.ErrOccupancyExceeded},
		{"zero guests", func(in *app.NewReservation) { in.Guests = 0 }, domain.ErrInvalidArgument},
		{"no guest name", func(in *app.NewReservation) { in.GuestName = " " }, domain.ErrInvalidArgument},
		{"unknown type", func(in *app.NewReservation) { in.RoomTypeID = "penthouse" }, domain.ErrNotFound},
		{"unknown room", func(in *app.NewReservation) { in.RoomNumber = "999" }, domain.ErrNotFound},
		{"room type mismatch", func(in *app.NewReservation) { in.RoomNumber = "201" }, domain.ErrInvalidArgument},
		{"no target", func(in *app.NewReservation) { in.RoomTypeID = "" }, domain.ErrInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			in := deluxeStay()
			tc.mutate(&in)
			_, err := newReservations(repo).Create(context.Background(), in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(repo.reservations) != 0 {
				t.Fatalf("rejected create persisted a reservation")
			}
		})
	}
}

func TestCreate_RegeneratesCollidingCode(t *testing.T) {
	repo := newFakeRepo()
	repo.reservations = []domain.Reservation{{ConfirmationCode: "CONFTAKEN1", RoomNumber: "201", CheckIn: "2024-01-01", CheckOut: "2024-01-02", Status: domain.StatusCheckedOut}}
	svc := newReservations(repo, app.WithCodeGenerator(sequence("CONFTAKEN1", "CONFFRESH1")))

	r, err := svc.Create(context.Background(), deluxeStay())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if r.ConfirmationCode != "CONFFRESH1" {
		t.Fatalf("expected regenerated code, got %s", r.ConfirmationCode)
	}
}

func TestCreate_CodeSpaceExhausted(t *testing.T) {
	repo := newFakeRepo()
	repo.reservations = []domain.Reservation{{ConfirmationCode: "CONFTAKEN1", RoomNumber: "201", CheckIn: "2024-01-01", CheckOut: "2024-01-02", Status: domain.StatusCheckedOut}}
	svc := newReservations(repo, app.WithCodeGenerator(sequence("CONFTAKEN1")))

	_, err := svc.Create(context.Background(), deluxeStay())
	if !errors.Is(err, domain.ErrCodeSpaceExhausted) {
		t.Fatalf("expected ErrCodeSpaceExhausted, got %v", err)
	}
	if domain.IsClientError(err) {
		t.Fatalf("exhaustion must not be a client error")
	}
}

func TestCancel_FreesRoomAndIsNotRepeatable(t *testing.T) {
	repo := newFakeRepo()
	svc := newReservations(repo)
	q := newQueries(repo, nil)

	in := deluxeStay()
	in.RoomNumber = "203"
	r, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	// lower-case input is accepted
	got, err := svc.Cancel(context.Background(), " "+strings.ToLower(r.ConfirmationCode))
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != domain.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}

	avail, err := q.CheckAvailability(context.Background(), "2025-02-10", "2025-02-13", "deluxe")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(avail.Rooms) == 0 || avail.Rooms[0].Room.Number != "203" {
		t.Fatalf("cancelled room must be available again, got %+v", avail.Rooms)
	}

	if _, err := svc.Cancel(context.Background(), r.ConfirmationCode); !errors.Is(err, domain.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition on second cancel, got %v", err)
	}
	if _, err := svc.Cancel(context.Background(), "CONFNOPE00"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLifecycle_CheckInThenOut(t *testing.T) {
	repo := newFakeRepo()
	svc := newReservations(repo)

	r, err := svc.Create(context.Background(), deluxeStay())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := svc.CheckOut(context.Background(), r.ConfirmationCode); !errors.Is(err, domain.ErrInvalidStatusTransition) {
		t.Fatalf("check-out before check-in must fail, got %v", err)
	}
	if _, err := svc.CheckIn(context.Background(), r.ConfirmationCode); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), r.ConfirmationCode); !errors.Is(err, domain.ErrInvalidStatusTransition) {
		t.Fatalf("cancel after check-in must fail, got %v", err)
	}
	out, err := svc.CheckOut(context.Background(), r.ConfirmationCode)
	if err != nil {
		t.Fatalf("check-out: %v", err)
	}
	if out.Status != domain.StatusCheckedOut {
		t.Fatalf("expected checked_out, got %s", out.Status)
	}

	stored, err := svc.Get(context.Background(), r.ConfirmationCode)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != domain.StatusCheckedOut {
		t.Fatalf("status not persisted: %s", stored.Status)
	}
}

func TestCreate_RoomUnderMaintenanceIsNotBookable(t *testing.T) {
	repo := newFakeRepo()
	for i := range repo.rooms {
		if repo.rooms[i].Number == "203" {
			repo.rooms[i].Status = domain.RoomMaintenance
		}
	}
	svc := newReservations(repo)

	in := deluxeStay()
	in.RoomNumber = "203"
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrNoRoomAvailable) {
		t.Fatalf("expected no room available for room 203, got %v", err)
	}

	r, err := svc.Create(context.Background(), deluxeStay())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if r.RoomNumber != "208" {
		t.Fatalf("expected room 208, got %s", r.RoomNumber)
	}
}

func TestCreate_LongStayIsBilledEveryNight(t *testing.T) {
	svc := newReservations(newFakeRepo())
	in := deluxeStay()
	in.CheckIn, in.CheckOut = "2026-10-20", "2400-01-01"

	r, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if r.TotalAmount != 136308*219 {
		t.Fatalf("expected 136308 nights x 219, got %v", r.TotalAmount)
	}
}
