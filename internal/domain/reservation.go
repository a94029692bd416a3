package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of stay dates.
const DateLayout = "2006-01-02"

// ConfirmationPrefix starts every generated confirmation code.
const ConfirmationPrefix = "CONF"

type ReservationStatus string

const (
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusCheckedIn  ReservationStatus = "checked_in"
	StatusCheckedOut ReservationStatus = "checked_out"
	StatusCancelled  ReservationStatus = "cancelled"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut},
}

// CanTransitionTo is the status guard of the reservation lifecycle.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Occupying reports whether a reservation in this status blocks its room.
func (s ReservationStatus) Occupying() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

// OccupyingStatuses lists the statuses that block availability.
func OccupyingStatuses() []ReservationStatus {
	return []ReservationStatus{StatusConfirmed, StatusCheckedIn}
}

const secondsPerDay = 24 * 60 * 60

// Stay is a half-open range of calendar days [CheckIn, CheckOut).
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// ParseStay parses two YYYY-MM-DD dates; check-out must be strictly after check-in.
func ParseStay(checkIn, checkOut string) (Stay, error) {
	in, err := time.Parse(DateLayout, strings.TrimSpace(checkIn))
	if err != nil {
		return Stay{}, fmt.Errorf("%w: check-in %q is not a YYYY-MM-DD date", ErrInvalidDateRange, checkIn)
	}
	out, err := time.Parse(DateLayout, strings.TrimSpace(checkOut))
	if err != nil {
		return Stay{}, fmt.Errorf("%w: check-out %q is not a YYYY-MM-DD date", ErrInvalidDateRange, checkOut)
	}
	s := Stay{CheckIn: in, CheckOut: out}
	if err := s.Validate(); err != nil {
		return Stay{}, err
	}
	return s, nil
}

func (s Stay) Validate() error {
	if !s.CheckOut.After(s.CheckIn) {
		return fmt.Errorf("%w: check-out date must be after check-in date", ErrInvalidDateRange)
	}
	return nil
}

// NotBefore fails when the stay starts before the given day.
func (s Stay) NotBefore(today time.Time) error {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if s.CheckIn.Before(day) {
		return fmt.Errorf("%w: check-in date cannot be in the past", ErrInvalidDateRange)
	}
	return nil
}

// Nights counts calendar days from Unix seconds; time.Duration saturates for stays past ~292 years.
func (s Stay) Nights() int {
	return int((s.CheckOut.Unix() - s.CheckIn.Unix()) / secondsPerDay)
}

// Overlaps uses half-open semantics: a check-out on day X does not conflict with a check-in on day X.
func (s Stay) Overlaps(o Stay) bool {
	return s.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(s.CheckOut)
}

func (s Stay) CheckInDate() string  { return s.CheckIn.Format(DateLayout) }
func (s Stay) CheckOutDate() string { return s.CheckOut.Format(DateLayout) }

type Reservation struct {
	ID               int64             `json:"-"`
	ConfirmationCode string            `json:"confirmation_code"`
	GuestName        string            `json:"guest_name"`
	GuestEmail       *string           `json:"guest_email,omitempty"`
	GuestPhone       *string           `json:"guest_phone,omitempty"`
	RoomNumber       string            `json:"room_number"`
	RoomTypeID       string            `json:"room_type_id"`
	RoomTypeName     string            `json:"room_type_name,omitempty"`
	CheckIn          string            `json:"check_in"`
	CheckOut         string            `json:"check_out"`
	Guests           int               `json:"guests"`
	Status           ReservationStatus `json:"status"`
	TotalAmount      float64           `json:"total_amount"`
	SpecialRequests  *string           `json:"special_requests,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Stay parses the stored dates back into a range.
func (r Reservation) Stay() (Stay, error) {
	return ParseStay(r.CheckIn, r.CheckOut)
}

// NormalizeConfirmationCode trims and upper-cases a caller-supplied code.
func NormalizeConfirmationCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// AvailabilityQuery scopes an availability lookup; empty filters match everything.
type AvailabilityQuery struct {
	Stay       Stay
	RoomTypeID string
	RoomNumber string
}
