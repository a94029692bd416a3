package domain

import (
	"context"
	"time"
)

// BookingRepository is the persistent store shared by every component.
type BookingRepository interface {
	BookingReader

	// InTx runs fn in one transaction: all writes made through tx commit together or not at all.
	InTx(ctx context.Context, fn func(tx BookingTx) error) error
}

type BookingReader interface {
	ListRoomTypes(ctx context.Context) ([]RoomType, error)
	GetRoomType(ctx context.Context, id string) (RoomType, error)
	GetRoom(ctx context.Context, number string) (Room, error)
	// FindAvailableRooms orders by nightly rate, then room number.
	FindAvailableRooms(ctx context.Context, q AvailabilityQuery) ([]AvailableRoom, error)
	GetReservation(ctx context.Context, code string) (Reservation, error)
	GetServiceRequest(ctx context.Context, id int64) (ServiceRequest, error)
	ListInfo(ctx context.Context) ([]InfoEntry, error)
	GetInfo(ctx context.Context, topic string) (InfoEntry, error)
}

type BookingTx interface {
	BookingReader

	// LockRooms holds the rooms matching q until the transaction ends.
	LockRooms(ctx context.Context, q AvailabilityQuery) error
	ConfirmationCodeExists(ctx context.Context, code string) (bool, error)
	InsertReservation(ctx context.Context, r Reservation) (int64, error)
	// UpdateReservationStatus is compare-and-set; it fails with ErrInvalidStatusTransition
	// when the stored status is no longer from.
	UpdateReservationStatus(ctx context.Context, code string, from, to ReservationStatus) error
	InsertServiceRequest(ctx context.Context, sr ServiceRequest) (int64, error)
	UpdateServiceRequestStatus(ctx context.Context, id int64, from, to ServiceRequestStatus, at time.Time) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
