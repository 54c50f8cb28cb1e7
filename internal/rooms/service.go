package rooms

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"roomly/internal/shared/constants"
	"roomly/pkg/cache"
	"roomly/pkg/logger"

	"github.com/google/uuid"
)

// HotelRegistry enumerates the hotels the stats engine groups by
// (declared here to avoid a dependency on the hotels package).
type HotelRegistry interface {
	ListHotelRefs(ctx context.Context) ([]HotelRef, error)
}

// EventPublisher pushes room lifecycle events to the message bus.
type EventPublisher interface {
	PublishRoomEvent(ctx context.Context, event RoomEvent) error
}

// Service is the allocation engine plus the read-only query/stats views.
//
// Allocate, Confirm and Release are the only operations that touch the
// temp_locked flag, each inside a single exclusive transaction. Under
// concurrent callers each room is handed to at most one of them: the
// eligibility query locks the candidate rows, so a second Allocate blocks
// until the first commits and then no longer sees the taken room.
type Service interface {
	// Allocate selects and temp-locks the least-booked eligible room.
	// Returns (nil, nil) when no room is eligible.
	Allocate(ctx context.Context) (*Room, error)

	// Confirm finalizes a prior allocation: bumps times_booked by one and
	// clears the lock. Confirming a missing or already-unlocked room is a
	// no-op, so retried confirms cannot double-count.
	Confirm(ctx context.Context, roomID uint) error

	// Release abandons a prior allocation without counting a booking.
	// No-op on missing or already-unlocked rooms.
	Release(ctx context.Context, roomID uint) error

	CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, error)

	ListAvailable(ctx context.Context) ([]Room, error)
	ListRecommended(ctx context.Context) ([]Room, error)
	Search(ctx context.Context, query SearchQuery) ([]Room, error)
	OccupancyStats(ctx context.Context) (*OccupancyStats, error)

	// ReleaseExpiredLocks frees rooms whose temp lock outlived ttl.
	// Called by the background sweeper.
	ReleaseExpiredLocks(ctx context.Context, ttl time.Duration) (int64, error)

	SetCacheService(cacheService cache.Service)
	SetEventPublisher(publisher EventPublisher)
}

type service struct {
	repo         Repository
	registry     HotelRegistry
	cacheService cache.Service
	publisher    EventPublisher
	log          *logger.Logger
}

func NewService(repo Repository, registry HotelRegistry) Service {
	return &service{
		repo:     repo,
		registry: registry,
		log:      logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// SetEventPublisher injects the event publisher dependency
func (s *service) SetEventPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

func (s *service) Allocate(ctx context.Context) (*Room, error) {
	var allocated *Room

	err := s.repo.WithLock(ctx, func(store LockedStore) error {
		candidates, err := store.LockEligible()
		if err != nil {
			return fmt.Errorf("failed to lock eligible rooms: %w", err)
		}
		if len(candidates) == 0 {
			return nil
		}

		room := candidates[0]
		now := time.Now().UTC()
		room.TempLocked = true
		room.LockedAt = &now
		if err := store.Save(&room); err != nil {
			return fmt.Errorf("failed to persist allocation: %w", err)
		}

		allocated = &room
		return nil
	})
	if err != nil {
		return nil, err
	}

	if allocated == nil {
		s.log.LogNoRoomsAvailable(ctx)
		return nil, nil
	}

	s.log.LogRoomAllocated(ctx, allocated.ID, allocated.TimesBooked)
	s.publishEvent(ctx, EventRoomAllocated, allocated)
	return allocated, nil
}

func (s *service) Confirm(ctx context.Context, roomID uint) error {
	var confirmed *Room

	err := s.repo.WithLock(ctx, func(store LockedStore) error {
		room, err := store.GetForUpdate(roomID)
		if err != nil {
			return fmt.Errorf("failed to fetch room %d: %w", roomID, err)
		}
		if room == nil {
			// Tolerated: confirming an already-gone room is not an error
			return nil
		}
		if !room.TempLocked {
			// Guarded transition: a duplicate confirm must not double-count
			return nil
		}

		room.TimesBooked++
		room.TempLocked = false
		room.LockedAt = nil
		if err := store.Save(room); err != nil {
			return fmt.Errorf("failed to persist confirmation: %w", err)
		}

		confirmed = room
		return nil
	})
	if err != nil {
		return err
	}

	if confirmed != nil {
		s.log.LogBookingConfirmed(ctx, confirmed.ID, confirmed.TimesBooked)
		s.publishEvent(ctx, EventRoomConfirmed, confirmed)
	}
	return nil
}

func (s *service) Release(ctx context.Context, roomID uint) error {
	var released *Room

	err := s.repo.WithLock(ctx, func(store LockedStore) error {
		room, err := store.GetForUpdate(roomID)
		if err != nil {
			return fmt.Errorf("failed to fetch room %d: %w", roomID, err)
		}
		if room == nil || !room.TempLocked {
			return nil
		}

		room.TempLocked = false
		room.LockedAt = nil
		if err := store.Save(room); err != nil {
			return fmt.Errorf("failed to persist release: %w", err)
		}

		released = room
		return nil
	})
	if err != nil {
		return err
	}

	if released != nil {
		s.log.LogRoomReleased(ctx, released.ID)
		s.publishEvent(ctx, EventRoomReleased, released)
	}
	return nil
}

func (s *service) CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, error) {
	room := &Room{
		HotelID:     req.HotelID,
		Number:      req.Number,
		Available:   true,
		TimesBooked: 0,
		TempLocked:  false,
	}
	if req.Available != nil {
		room.Available = *req.Available
	}

	if err := s.repo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidateStatsCache(ctx)
	return room, nil
}

func (s *service) ListAvailable(ctx context.Context) ([]Room, error) {
	return s.repo.FindAvailable(ctx)
}

func (s *service) ListRecommended(ctx context.Context) ([]Room, error) {
	return s.repo.FindRecommended(ctx)
}

func (s *service) Search(ctx context.Context, query SearchQuery) ([]Room, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}

	minBooked := defaultMinBooked
	if query.MinBooked != nil {
		minBooked = *query.MinBooked
	}
	maxBooked := defaultMaxBooked
	if query.MaxBooked != nil {
		maxBooked = *query.MaxBooked
	}

	matched := make([]Room, 0, len(all))
	for _, room := range all {
		if query.HotelID != nil && room.HotelID != *query.HotelID {
			continue
		}
		if query.Available != nil && room.Available != *query.Available {
			continue
		}
		if query.Number != "" && !strings.Contains(room.Number, query.Number) {
			continue
		}
		if room.TimesBooked < minBooked || room.TimesBooked > maxBooked {
			continue
		}
		matched = append(matched, room)
	}

	switch query.SortBy {
	case SortByTimesBookedDesc:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].TimesBooked > matched[j].TimesBooked
		})
	case SortByNumber:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Number < matched[j].Number
		})
	default:
		// Unrecognized sort keys fall back to id ascending
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].ID < matched[j].ID
		})
	}

	return matched, nil
}

func (s *service) OccupancyStats(ctx context.Context) (*OccupancyStats, error) {
	if s.cacheService != nil {
		var cached OccupancyStats
		err := s.cacheService.GetOrSet(ctx, constants.CACHE_KEY_ROOMS_OCCUPANCY, constants.TTL_ROOMS_OCCUPANCY,
			func() (interface{}, error) {
				return s.computeOccupancyStats(ctx)
			}, &cached)
		if err == nil {
			return &cached, nil
		}
		// Fall through to a direct read on cache failure
	}
	return s.computeOccupancyStats(ctx)
}

func (s *service) computeOccupancyStats(ctx context.Context) (*OccupancyStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}
	occupied, err := s.repo.CountUnavailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count occupied rooms: %w", err)
	}

	stats := &OccupancyStats{
		TotalRooms:     total,
		OccupiedRooms:  occupied,
		AvailableRooms: total - occupied,
		OccupancyRate:  formatRate(occupied, total),
		ByHotel:        map[string]HotelOccupancy{},
	}

	refs, err := s.registry.ListHotelRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	for _, ref := range refs {
		hotelRooms, err := s.repo.FindByHotelID(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load rooms for hotel %d: %w", ref.ID, err)
		}

		var hotelOccupied int64
		for _, room := range hotelRooms {
			if !room.Available {
				hotelOccupied++
			}
		}

		hotelTotal := int64(len(hotelRooms))
		rate := 0.0
		if hotelTotal > 0 {
			rate = float64(hotelOccupied) / float64(hotelTotal) * 100
		}
		stats.ByHotel[ref.Name] = HotelOccupancy{
			Total:    hotelTotal,
			Occupied: hotelOccupied,
			Rate:     rate,
		}
	}

	return stats, nil
}

// formatRate renders the occupancy percentage, guarding the zero-room case
func formatRate(occupied, total int64) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(occupied)/float64(total)*100)
}

func (s *service) ReleaseExpiredLocks(ctx context.Context, ttl time.Duration) (int64, error) {
	before := time.Now().UTC().Add(-ttl)
	freed, err := s.repo.ReleaseExpiredLocks(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to release expired locks: %w", err)
	}
	if freed > 0 {
		s.log.LogExpiredLocksReleased(ctx, freed)
	}
	return freed, nil
}

func (s *service) publishEvent(ctx context.Context, eventType string, room *Room) {
	if s.publisher == nil {
		return
	}
	event := RoomEvent{
		EventID:     uuid.New().String(),
		Type:        eventType,
		RoomID:      room.ID,
		HotelID:     room.HotelID,
		TimesBooked: room.TimesBooked,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.publisher.PublishRoomEvent(ctx, event); err != nil {
		// Events are best-effort; the allocation result already committed
		s.log.WithError(err).Warn("failed to publish room event")
	}
}

func (s *service) invalidateStatsCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.CACHE_KEY_ROOMS_OCCUPANCY); err != nil {
		s.log.WithError(err).Warn("failed to invalidate occupancy cache")
	}
}
