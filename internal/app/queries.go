package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel_concierge/internal/domain"
)

const (
	roomTypesCacheKey = "concierge:room_types"
	infoAllCacheKey   = "concierge:info:all"
)

// QueryService is the read-only facade: availability, room types and hotel information.
// Reference data is immutable after seeding, so it is cached read-through with a TTL only.
type QueryService struct {
	repo     domain.BookingReader
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewQueryService(r domain.BookingReader, c domain.Cache, ttl time.Duration, opts ...Option) *QueryService {
	if c == nil {
		c = noopCache{}
	}
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, now: buildOptions(opts).now}
}

// CheckAvailability returns the free rooms for a stay, optionally filtered by room type.
func (s *QueryService) CheckAvailability(ctx context.Context, checkIn, checkOut, roomType string) (Availability, error) {
	stay, err := domain.ParseStay(checkIn, checkOut)
	if err != nil {
		return Availability{}, err
	}
	if err := stay.NotBefore(s.now()); err != nil {
		return Availability{}, err
	}

	q := domain.AvailabilityQuery{Stay: stay}
	if t := strings.ToLower(strings.TrimSpace(roomType)); t != "" {
		rt, err := s.RoomType(ctx, t)
		if err != nil {
			return Availability{}, err
		}
		q.RoomTypeID = rt.ID
	}

	rooms, err := s.repo.FindAvailableRooms(ctx, q)
	if err != nil {
		return Availability{}, err
	}
	return mapAvailability(stay, q.RoomTypeID, rooms), nil
}

func (s *QueryService) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out []domain.RoomType
	if ok, _ := s.cache.Get(ctx, roomTypesCacheKey, &out); ok {
		return out, nil
	}
	out, err := s.repo.ListRoomTypes(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, roomTypesCacheKey, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// RoomType resolves one type through the cached listing.
func (s *QueryService) RoomType(ctx context.Context, id string) (domain.RoomType, error) {
	types, err := s.ListRoomTypes(ctx)
	if err != nil {
		return domain.RoomType{}, err
	}
	for _, rt := range types {
		if rt.ID == id {
			return rt, nil
		}
	}
	ids := make([]string, 0, len(types))
	for _, rt := range types {
		ids = append(ids, rt.ID)
	}
	return domain.RoomType{}, fmt.Errorf("%w: room type %q, choose from: %s", domain.ErrNotFound, id, strings.Join(ids, ", "))
}

// GetInfo returns one topic. Unknown topics fail with ErrNotFound.
func (s *QueryService) GetInfo(ctx context.Context, topic string) (domain.InfoEntry, error) {
	key := NormalizeTopic(topic)
	if key == "" {
		return domain.InfoEntry{}, fmt.Errorf("%w: topic is required", domain.ErrInvalidArgument)
	}
	cacheKey := "concierge:info:" + key
	var e domain.InfoEntry
	if ok, _ := s.cache.Get(ctx, cacheKey, &e); ok {
		return e, nil
	}
	e, err := s.repo.GetInfo(ctx, key)
	if err != nil {
		return domain.InfoEntry{}, err
	}
	_ = s.cache.Set(ctx, cacheKey, e, int(s.cacheTTL.Seconds()))
	return e, nil
}

func (s *QueryService) ListInfo(ctx context.Context) ([]domain.InfoEntry, error) {
	var out []domain.InfoEntry
	if ok, _ := s.cache.Get(ctx, infoAllCacheKey, &out); ok {
		return out, nil
	}
	out, err := s.repo.ListInfo(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, infoAllCacheKey, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) Attractions(ctx context.Context) ([]domain.Attraction, error) {
	e, err := s.GetInfo(ctx, domain.TopicLocalAttractions)
	if err != nil {
		return nil, err
	}
	return decodeAttractions(e.Body)
}

// Overview is the general hotel summary returned when no topic is asked for.
func (s *QueryService) Overview(ctx context.Context) (Overview, error) {
	entries, err := s.ListInfo(ctx)
	if err != nil {
		return Overview{}, err
	}
	return mapOverview(entries), nil
}

// NormalizeTopic lower-cases a topic and folds spaces and dashes into underscores.
func NormalizeTopic(topic string) string {
	t := strings.ToLower(strings.TrimSpace(topic))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(t)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, string, any, int) error    { return nil }
func (noopCache) Del(context.Context, string) error              { return nil }
