package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_concierge/internal/domain"
)

// NewReservation is the input of ReservationService.Create. RoomNumber, when set,
// pins a specific room; otherwise any room of RoomTypeID is taken.
type NewReservation struct {
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	RoomTypeID      string
	RoomNumber      string
	CheckIn         string
	CheckOut        string
	Guests          int
	SpecialRequests string
}

// ReservationService is the reservation lifecycle manager.
type ReservationService struct {
	repo  domain.BookingRepository
	codes CodeGenerator
	now   func() time.Time
}

func NewReservationService(r domain.BookingRepository, opts ...Option) *ReservationService {
	o := buildOptions(opts)
	return &ReservationService{repo: r, codes: o.codes, now: o.now}
}

func (s *ReservationService) Create(ctx context.Context, in NewReservation) (domain.Reservation, error) {
	guest := strings.TrimSpace(in.GuestName)
	if guest == "" {
		return domain.Reservation{}, fmt.Errorf("%w: guest name is required", domain.ErrInvalidArgument)
	}

	// 1) dates
	stay, err := domain.ParseStay(in.CheckIn, in.CheckOut)
	if err != nil {
		return domain.Reservation{}, err
	}
	if err := stay.NotBefore(s.now()); err != nil {
		return domain.Reservation{}, err
	}

	// 2) room type + occupancy
	if in.Guests < 1 {
		return domain.Reservation{}, fmt.Errorf("%w: number of guests must be at least 1", domain.ErrInvalidArgument)
	}
	q, rt, err := s.resolveTarget(ctx, in, stay)
	if err != nil {
		return domain.Reservation{}, err
	}
	if in.Guests > rt.MaxOccupancy {
		return domain.Reservation{}, fmt.Errorf("%w: %s has maximum occupancy of %d", domain.ErrOccupancyExceeded, rt.Name, rt.MaxOccupancy)
	}

	// 3-5) availability re-check, room pick, code and insert commit together
	var out domain.Reservation
	err = s.repo.InTx(ctx, func(tx domain.BookingTx) error {
		if err := tx.LockRooms(ctx, q); err != nil {
			return err
		}
		free, err := tx.FindAvailableRooms(ctx, q)
		if err != nil {
			return err
		}
		if len(free) == 0 {
			return noRoomError(rt, q)
		}
		room := lowestRoomNumber(free)

		code, err := uniqueCode(ctx, tx, s.codes)
		if err != nil {
			return err
		}

		r := domain.Reservation{
			ConfirmationCode: code,
			GuestName:        guest,
			GuestEmail:       optional(in.GuestEmail),
			GuestPhone:       optional(in.GuestPhone),
			RoomNumber:       room.Room.Number,
			RoomTypeID:       rt.ID,
			RoomTypeName:     rt.Name,
			CheckIn:          stay.CheckInDate(),
			CheckOut:         stay.CheckOutDate(),
			Guests:           in.Guests,
			Status:           domain.StatusConfirmed,
			TotalAmount:      rt.NightlyRate * float64(stay.Nights()),
			SpecialRequests:  optional(in.SpecialRequests),
			CreatedAt:        s.now().UTC().Truncate(time.Millisecond),
		}
		id, err := tx.InsertReservation(ctx, r)
		if err != nil {
			return err
		}
		r.ID = id
		out = r
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	log.Info().
		Str("code", out.ConfirmationCode).
		Str("room", out.RoomNumber).
		Str("check_in", out.CheckIn).
		Str("check_out", out.CheckOut).
		Msg("reservation created")
	return out, nil
}

// Get is a read-only lookup by confirmation code.
func (s *ReservationService) Get(ctx context.Context, code string) (domain.Reservation, error) {
	code = domain.NormalizeConfirmationCode(code)
	if code == "" {
		return domain.Reservation{}, fmt.Errorf("%w: confirmation code is required", domain.ErrInvalidArgument)
	}
	return s.repo.GetReservation(ctx, code)
}

// Cancel is only legal from confirmed.
func (s *ReservationService) Cancel(ctx context.Context, code string) (domain.Reservation, error) {
	return s.transition(ctx, code, domain.StatusCancelled)
}

func (s *ReservationService) CheckIn(ctx context.Context, code string) (domain.Reservation, error) {
	return s.transition(ctx, code, domain.StatusCheckedIn)
}

func (s *ReservationService) CheckOut(ctx context.Context, code string) (domain.Reservation, error) {
	return s.transition(ctx, code, domain.StatusCheckedOut)
}

func (s *ReservationService) transition(ctx context.Context, code string, to domain.ReservationStatus) (domain.Reservation, error) {
	code = domain.NormalizeConfirmationCode(code)
	if code == "" {
		return domain.Reservation{}, fmt.Errorf("%w: confirmation code is required", domain.ErrInvalidArgument)
	}

	var out domain.Reservation
	err := s.repo.InTx(ctx, func(tx domain.BookingTx) error {
		r, err := tx.GetReservation(ctx, code)
		if err != nil {
			return err
		}
		if !r.Status.CanTransitionTo(to) {
			return transitionError(code, r.Status, to)
		}
		if err := tx.UpdateReservationStatus(ctx, code, r.Status, to); err != nil {
			return err
		}
		r.Status = to
		out = r
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	log.Info().Str("code", code).Str("status", string(to)).Msg("reservation status changed")
	return out, nil
}

// resolveTarget turns a room type and/or room number into an availability scope.
func (s *ReservationService) resolveTarget(ctx context.Context, in NewReservation, stay domain.Stay) (domain.AvailabilityQuery, domain.RoomType, error) {
	typeID := strings.ToLower(strings.TrimSpace(in.RoomTypeID))
	number := strings.TrimSpace(in.RoomNumber)
	if typeID == "" && number == "" {
		return domain.AvailabilityQuery{}, domain.RoomType{}, fmt.Errorf("%w: a room type or room number is required", domain.ErrInvalidArgument)
	}

	if number != "" {
		room, err := s.repo.GetRoom(ctx, number)
		if err != nil {
			return domain.AvailabilityQuery{}, domain.RoomType{}, err
		}
		if typeID != "" && typeID != room.RoomTypeID {
			return domain.AvailabilityQuery{}, domain.RoomType{}, fmt.Errorf("%w: room %s is a %s room, not %s", domain.ErrInvalidArgument, number, room.RoomTypeID, typeID)
		}
		typeID = room.RoomTypeID
	}

	rt, err := s.repo.GetRoomType(ctx, typeID)
	if err != nil {
		return domain.AvailabilityQuery{}, domain.RoomType{}, err
	}
	return domain.AvailabilityQuery{Stay: stay, RoomTypeID: rt.ID, RoomNumber: number}, rt, nil
}

func noRoomError(rt domain.RoomType, q domain.AvailabilityQuery) error {
	if q.RoomNumber != "" {
		return fmt.Errorf("%w: room %s is booked between %s and %s", domain.ErrNoRoomAvailable, q.RoomNumber, q.Stay.CheckInDate(), q.Stay.CheckOutDate())
	}
	return fmt.Errorf("%w: no %s rooms are available between %s and %s", domain.ErrNoRoomAvailable, rt.Name, q.Stay.CheckInDate(), q.Stay.CheckOutDate())
}

func transitionError(code string, from, to domain.ReservationStatus) error {
	reason := fmt.Sprintf("reservation %s is %s and cannot become %s", code, humanStatus(from), humanStatus(to))
	if to == domain.StatusCancelled {
		switch from {
		case domain.StatusCancelled:
			reason = fmt.Sprintf("reservation %s has already been cancelled", code)
		case domain.StatusCheckedIn:
			reason = "cannot cancel, the guest has already checked in; please speak with the front desk"
		case domain.StatusCheckedOut:
			reason = "cannot cancel, the guest has already checked out"
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidStatusTransition, reason)
}

func humanStatus(s domain.ReservationStatus) string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// lowestRoomNumber compares numerically when both numbers are integers.
func lowestRoomNumber(rooms []domain.AvailableRoom) domain.AvailableRoom {
	sorted := append([]domain.AvailableRoom(nil), rooms...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return lessRoomNumber(sorted[i].Room.Number, sorted[j].Room.Number)
	})
	return sorted[0]
}

func lessRoomNumber(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

func optional(s string) *string {
	if t := strings.TrimSpace(s); t != "" {
		return &t
	}
	return nil
}
