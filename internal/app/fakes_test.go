package app_test

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"hotel_concierge/internal/domain"
	"hotel_concierge/internal/storage/seed"
)

// ---- fakes ----

// fakeState is an in-memory store. InTx runs against a copy and swaps it in on success,
// which is enough to observe rollback behavior.
type fakeState struct {
	roomTypes    []domain.RoomType
	rooms        []domain.Room
	reservations []domain.Reservation
	requests     []domain.ServiceRequest
	info         []domain.InfoEntry
	nextID       int64

	listRoomTypesCalls int
	listInfoCalls      int
}

type fakeRepo struct {
	*fakeState
	txCount int
}

func newFakeRepo() *fakeRepo {
	d := seed.Default()
	return &fakeRepo{fakeState: &fakeState{
		roomTypes: d.RoomTypes,
		rooms:     d.Rooms,
		info:      d.Info,
	}}
}

func (f *fakeRepo) InTx(ctx context.Context, fn func(tx domain.BookingTx) error) error {
	f.txCount++
	staged := f.fakeState.clone()
	if err := fn(staged); err != nil {
		return err
	}
	f.fakeState = staged
	return nil
}

func (s *fakeState) clone() *fakeState {
	c := *s
	c.reservations = append([]domain.Reservation(nil), s.reservations...)
	c.requests = append([]domain.ServiceRequest(nil), s.requests...)
	return &c
}

func (s *fakeState) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	s.listRoomTypesCalls++
	out := append([]domain.RoomType(nil), s.roomTypes...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].NightlyRate < out[j].NightlyRate })
	return out, nil
}

func (s *fakeState) GetRoomType(ctx context.Context, id string) (domain.RoomType, error) {
	for _, rt := range s.roomTypes {
		if rt.ID == id {
			return rt, nil
		}
	}
	return domain.RoomType{}, fmt.Errorf("%w: room type %q", domain.ErrNotFound, id)
}

func (s *fakeState) GetRoom(ctx context.Context, number string) (domain.Room, error) {
	for _, r := range s.rooms {
		if r.Number == number {
			return r, nil
		}
	}
	return domain.Room{}, fmt.Errorf("%w: room %s", domain.ErrNotFound, number)
}

func (s *fakeState) FindAvailableRooms(ctx context.Context, q domain.AvailabilityQuery) ([]domain.AvailableRoom, error) {
	var out []domain.AvailableRoom
	for _, room := range s.rooms {
		if room.Status != domain.RoomAvailable {
			continue
		}
		if q.RoomTypeID != "" && room.RoomTypeID != q.RoomTypeID {
			continue
		}
		if q.RoomNumber != "" && room.Number != q.RoomNumber {
			continue
		}
		if s.booked(room.Number, q.Stay) {
			continue
		}
		rt, _ := s.GetRoomType(ctx, room.RoomTypeID)
		out = append(out, domain.AvailableRoom{Room: room, RoomType: rt})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RoomType.NightlyRate != out[j].RoomType.NightlyRate {
			return out[i].RoomType.NightlyRate < out[j].RoomType.NightlyRate
		}
		a, _ := strconv.Atoi(out[i].Room.Number)
		b, _ := strconv.Atoi(out[j].Room.Number)
		return a < b
	})
	return out, nil
}

func (s *fakeState) booked(number string, stay domain.Stay) bool {
	for _, r := range s.reservations {
		if r.RoomNumber != number || !r.Status.Occupying() {
			continue
		}
		rs, err := r.Stay()
		if err == nil && rs.Overlaps(stay) {
			return true
		}
	}
	return false
}

func (s *fakeState) GetReservation(ctx context.Context, code string) (domain.Reservation, error) {
	for _, r := range s.reservations {
		if r.ConfirmationCode == code {
			return r, nil
		}
	}
	return domain.Reservation{}, fmt.Errorf("%w: reservation %s", domain.ErrNotFound, code)
}

func (s *fakeState) GetServiceRequest(ctx context.Context, id int64) (domain.ServiceRequest, error) {
	for _, sr := range s.requests {
		if sr.ID == id {
			return sr, nil
		}
	}
	return domain.ServiceRequest{}, fmt.Errorf("%w: service request %d", domain.ErrNotFound, id)
}

func (s *fakeState) ListInfo(ctx context.Context) ([]domain.InfoEntry, error) {
	s.listInfoCalls++
	return append([]domain.InfoEntry(nil), s.info...), nil
}

func (s *fakeState) GetInfo(ctx context.Context, topic string) (domain.InfoEntry, error) {
	for _, e := range s.info {
		if e.Topic == topic {
			return e, nil
		}
	}
	return domain.InfoEntry{}, fmt.Errorf("%w: topic %q", domain.ErrNotFound, topic)
}

func (s *fakeState) LockRooms(ctx context.Context, q domain.AvailabilityQuery) error { return nil }

func (s *fakeState) ConfirmationCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := s.GetReservation(ctx, code)
	return err == nil, nil
}

func (s *fakeState) InsertReservation(ctx context.Context, r domain.Reservation) (int64, error) {
	s.nextID++
	r.ID = s.nextID
	s.reservations = append(s.reservations, r)
	return r.ID, nil
}

func (s *fakeState) UpdateReservationStatus(ctx context.Context, code string, from, to domain.ReservationStatus) error {
	for i := range s.reservations {
		if s.reservations[i].ConfirmationCode == code && s.reservations[i].Status == from {
			s.reservations[i].Status = to
			return nil
		}
	}
	return domain.ErrInvalidStatusTransition
}

func (s *fakeState) InsertServiceRequest(ctx context.Context, sr domain.ServiceRequest) (int64, error) {
	s.nextID++
	sr.ID = s.nextID
	s.requests = append(s.requests, sr)
	return sr.ID, nil
}

func (s *fakeState) UpdateServiceRequestStatus(ctx context.Context, id int64, from, to domain.ServiceRequestStatus, at time.Time) error {
	for i := range s.requests {
		if s.requests[i].ID == id && s.requests[i].Status == from {
			s.requests[i].Status = to
			if to == domain.RequestCompleted {
				s.requests[i].CompletedAt = &at
			}
			return nil
		}
	}
	return domain.ErrInvalidStatusTransition
}

type fakeCache struct {
	store map[string]any
	hits  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *[]domain.RoomType:
		*d = v.([]domain.RoomType)
	case *[]domain.InfoEntry:
		*d = v.([]domain.InfoEntry)
	case *domain.InfoEntry:
		*d = v.(domain.InfoEntry)
	default:
		return false, nil
	}
	c.hits++
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

// fixedClock pins "today" to 2025-02-01.
func fixedClock() time.Time {
	return time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)
}

// sequence returns the given codes in order, then repeats the last one.
func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return c, nil
	}
}
