package rooms

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository serializes WithLock with a mutex, mirroring the exclusive
// transaction the real store runs allocation under.
type fakeRepository struct {
	mu     sync.Mutex
	rooms  map[uint]*Room
	nextID uint
}

func newFakeRepository(rooms ...Room) *fakeRepository {
	repo := &fakeRepository{rooms: make(map[uint]*Room), nextID: 1}
	for i := range rooms {
		room := rooms[i]
		if room.ID == 0 {
			room.ID = repo.nextID
		}
		if room.ID >= repo.nextID {
			repo.nextID = room.ID + 1
		}
		repo.rooms[room.ID] = &room
	}
	return repo
}

func (f *fakeRepository) Create(_ context.Context, room *Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room.ID = f.nextID
	f.nextID++
	copied := *room
	f.rooms[room.ID] = &copied
	return nil
}

func (f *fakeRepository) WithLock(_ context.Context, fn func(store LockedStore) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	staged := make(map[uint]*Room, len(f.rooms))
	for id, room := range f.rooms {
		copied := *room
		staged[id] = &copied
	}

	if err := fn(&fakeLockedStore{rooms: staged}); err != nil {
		return err
	}

	f.rooms = staged
	return nil
}

type fakeLockedStore struct {
	rooms map[uint]*Room
}

func (s *fakeLockedStore) LockEligible() ([]Room, error) {
	var eligible []Room
	for _, room := range s.rooms {
		if room.Available && !room.TempLocked {
			eligible = append(eligible, *room)
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].TimesBooked != eligible[j].TimesBooked {
			return eligible[i].TimesBooked < eligible[j].TimesBooked
		}
		return eligible[i].ID < eligible[j].ID
	})
	return eligible, nil
}

func (s *fakeLockedStore) GetForUpdate(id uint) (*Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return nil, nil
	}
	copied := *room
	return &copied, nil
}

func (s *fakeLockedStore) Save(room *Room) error {
	copied := *room
	s.rooms[room.ID] = &copied
	return nil
}

func (f *fakeRepository) snapshot() []Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Room, 0, len(f.rooms))
	for _, room := range f.rooms {
		out = append(out, *room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeRepository) get(id uint) *Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return nil
	}
	copied := *room
	return &copied
}

func (f *fakeRepository) FindAvailable(_ context.Context) ([]Room, error) {
	var out []Room
	for _, room := range f.snapshot() {
		if room.Available {
			out = append(out, room)
		}
	}
	return out, nil
}

func (f *fakeRepository) FindRecommended(_ context.Context) ([]Room, error) {
	out, _ := f.FindAvailable(context.Background())
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TimesBooked != out[j].TimesBooked {
			return out[i].TimesBooked < out[j].TimesBooked
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeRepository) FindAll(_ context.Context) ([]Room, error) {
	return f.snapshot(), nil
}

func (f *fakeRepository) FindByHotelID(_ context.Context, hotelID uint) ([]Room, error) {
	var out []Room
	for _, room := range f.snapshot() {
		if room.HotelID == hotelID {
			out = append(out, room)
		}
	}
	return out, nil
}

func (f *fakeRepository) Count(_ context.Context) (int64, error) {
	return int64(len(f.snapshot())), nil
}

func (f *fakeRepository) CountUnavailable(_ context.Context) (int64, error) {
	var count int64
	for _, room := range f.snapshot() {
		if !room.Available {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) ReleaseExpiredLocks(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var freed int64
	for _, room := range f.rooms {
		if room.TempLocked && room.LockedAt != nil && room.LockedAt.Before(before) {
			room.TempLocked = false
			room.LockedAt = nil
			freed++
		}
	}
	return freed, nil
}

type fakeRegistry struct {
	refs []HotelRef
}

func (f *fakeRegistry) ListHotelRefs(_ context.Context) ([]HotelRef, error) {
	return f.refs, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, &fakeRegistry{})
}

func TestAllocate_PicksLeastBookedThenLowestID(t *testing.T) {
	repo := newFakeRepository(
		Room{ID: 10, HotelID: 1, Number: "101", Available: true, TimesBooked: 3},
		Room{ID: 11, HotelID: 1, Number: "102", Available: true, TimesBooked: 1},
		Room{ID: 12, HotelID: 2, Number: "201", Available: true, TimesBooked: 1},
		Room{ID: 13, HotelID: 2, Number: "202", Available: true, TimesBooked: 5},
	)
	service := newTestService(repo)

	room, err := service.Allocate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, room)

	assert.Equal(t, uint(11), room.ID)
	assert.True(t, room.TempLocked)
	require.NotNil(t, room.LockedAt)

	stored := repo.get(11)
	assert.True(t, stored.TempLocked)
	assert.Equal(t, 1, stored.TimesBooked, "allocation must not bump the booking counter")
}

func TestAllocate_SkipsUnavailableAndLockedRooms(t *testing.T) {
	repo := newFakeRepository(
		Room{ID: 1, HotelID: 1, Number: "101", Available: false, TimesBooked: 0},
		Room{ID: 2, HotelID: 1, Number: "102", Available: true, TimesBooked: 0, TempLocked: true},
		Room{ID: 3, HotelID: 1, Number: "103", Available: true, TimesBooked: 7},
	)
	service := newTestService(repo)

	room, err := service.Allocate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, uint(3), room.ID)
}

func TestAllocate_NoEligibleRooms(t *testing.T) {
	repo := newFakeRepository(
		Room{ID: 1, HotelID: 1, Number: "101", Available: false},
		Room{ID: 2, HotelID: 1, Number: "102", Available: true, TempLocked: true},
	)
	service := newTestService(repo)

	room, err := service.Allocate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, room)
}

func TestAllocate_ConcurrentCallersGetDistinctRooms(t *testing.T) {
	const workers = 8

	var seed []Room
	for i := 1; i <= workers; i++ {
		seed = append(seed, Room{ID: uint(i), HotelID: 1, Number: "10" + string(rune('0'+i)), Available: true})
	}
	repo := newFakeRepository(seed...)
	service := newTestService(repo)

	results := make(chan uint, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room, err := service.Allocate(context.Background())
			assert.NoError(t, err)
			if room != nil {
				results <- room.ID
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[uint]bool)
	for id := range results {
		assert.False(t, seen[id], "room %d handed to two callers", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestConfirm_IncrementsAndUnlocks(t *testing.T) {
	lockedAt := time.Now().UTC()
	repo := newFakeRepository(
		Room{ID: 5, HotelID: 1, Number: "105", Available: true, TimesBooked: 5, TempLocked: true, LockedAt: &lockedAt},
	)
	service := newTestService(repo)

	require.NoError(t, service.Confirm(context.Background(), 5))

	stored := repo.get(5)
	assert.Equal(t, 6, stored.TimesBooked)
	assert.False(t, stored.TempLocked)
	assert.Nil(t, stored.LockedAt)
}

func TestConfirm_NoOpWhenNotLocked(t *testing.T) {
	repo := newFakeRepository(
		Room{ID: 5, HotelID: 1, Number: "105", Available: true, TimesBooked: 5},
	)
	service := newTestService(repo)

	require.NoError(t, service.Confirm(context.Background(), 5))

	stored := repo.get(5)
	assert.Equal(t, 5, stored.TimesBooked, "duplicate confirm must not double-count")
	assert.False(t, stored.TempLocked)
}

func TestConfirm_NoOpOnMissingRoom(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	assert.NoError(t, service.Confirm(context.Background(), 99))
}

func TestRelease_UnlocksWithoutCounting(t *testing.T) {
	lockedAt := time.Now().UTC()
	repo := newFakeRepository(
		Room{ID: 7, HotelID: 1, Number: "107", Available: true, TimesBooked: 2, TempLocked: true, LockedAt: &lockedAt},
	)
	service := newTestService(repo)

	require.NoError(t, service.Release(context.Background(), 7))

	stored := repo.get(7)
	assert.Equal(t, 2, stored.TimesBooked)
	assert.False(t, stored.TempLocked)
	assert.Nil(t, stored.LockedAt)

	// Releasing again is harmless
	require.NoError(t, service.Release(context.Background(), 7))
	assert.Equal(t, 2, repo.get(7).TimesBooked)
}

func TestRelease_NoOpOnMissingRoom(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	assert.NoError(t, service.Release(context.Background(), 42))
}

func TestAllocateConfirmCycle_MovesRoomToBackOfQueue(t *testing.T) {
	repo := newFakeRepository(
		Room{ID: 1, HotelID: 1, Number: "101", Available: true, TimesBooked: 0},
		Room{ID: 2, HotelID: 1, Number: "102", Available: true, TimesBooked: 0},
	)
	service := newTestService(repo)
	ctx := context.Background()

	first, err := service.Allocate(ctx)
	require.NoError(t, err)
	require.Equal(t, uint(1), first.ID)
	require.NoError(t, service.Confirm(ctx, first.ID))

	second, err := service.Allocate(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.ID, "the confirmed room now has a higher counter")
}

func TestSearch_FilterComposition(t *testing.T) {
	repo := newFakeRepository(
		Room{ID: 1, HotelID: 1, Number: "101", Available: true, TimesBooked: 3},
		Room{ID: 2, HotelID: 1, Number: "102", Available: false, TimesBooked: 8},
		Room{ID: 3, HotelID: 2, Number: "201", Available: true, TimesBooked: 1},
		Room{ID: 4, HotelID: 2, Number: "202", Available: true, TimesBooked: 5},
	)
	service := newTestService(repo)
	ctx := context.Background()

	hotelID := uint(2)
	available := true
	rooms, err := service.Search(ctx, SearchQuery{HotelID: &hotelID, Available: &available})
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, uint(3), rooms[0].ID)
	assert.Equal(t, uint(4), rooms[1].ID)

	minBooked := 4
	rooms, err = service.Search(ctx, SearchQuery{MinBooked: &minBooked})
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	rooms, err = service.Search(ctx, SearchQuery{Number: "20"})
	require.NoError(t, err)
	require.Len(t, rooms, 2)
}

func TestSearch_SortKeys(t *testing.T) {
	repo := newFakeRepository(
		Room{ID: 1, HotelID: 1, Number: "300", Available: true, TimesBooked: 2},
		Room{ID: 2, HotelID: 1, Number: "100", Available: true, TimesBooked: 9},
		Room{ID: 3, HotelID: 1, Number: "200", Available: true, TimesBooked: 4},
	)
	service := newTestService(repo)
	ctx := context.Background()

	rooms, err := service.Search(ctx, SearchQuery{SortBy: SortByTimesBookedDesc})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3, 1}, roomIDs(rooms))

	rooms, err = service.Search(ctx, SearchQuery{SortBy: SortByNumber})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3, 1}, roomIDs(rooms))

	// Unknown sort key falls back to id ascending
	rooms, err = service.Search(ctx, SearchQuery{SortBy: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, roomIDs(rooms))
}

func roomIDs(rooms []Room) []uint {
	ids := make([]uint, len(rooms))
	for i, room := range rooms {
		ids[i] = room.ID
	}
	return ids
}

func TestOccupancyStats_PerHotelBreakdown(t *testing.T) {
	repo := newFakeRepository(
		Room{ID: 1, HotelID: 1, Number: "101", Available: true},
		Room{ID: 2, HotelID: 1, Number: "102", Available: false},
		Room{ID: 3, HotelID: 2, Number: "201", Available: true},
		Room{ID: 4, HotelID: 2, Number: "202", Available: true},
	)
	registry := &fakeRegistry{refs: []HotelRef{
		{ID: 1, Name: "Aurora Hotel"},
		{ID: 2, Name: "Sea Breeze Resort"},
	}}
	service := NewService(repo, registry)

	stats, err := service.OccupancyStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalRooms)
	assert.Equal(t, int64(1), stats.OccupiedRooms)
	assert.Equal(t, int64(3), stats.AvailableRooms)
	assert.Equal(t, "25.00%", stats.OccupancyRate)

	aurora := stats.ByHotel["Aurora Hotel"]
	assert.Equal(t, int64(2), aurora.Total)
	assert.Equal(t, int64(1), aurora.Occupied)
	assert.InDelta(t, 50.0, aurora.Rate, 0.001)

	seaBreeze := stats.ByHotel["Sea Breeze Resort"]
	assert.Equal(t, int64(2), seaBreeze.Total)
	assert.Equal(t, int64(0), seaBreeze.Occupied)
	assert.InDelta(t, 0.0, seaBreeze.Rate, 0.001)
}

func TestOccupancyStats_NoRooms(t *testing.T) {
	service := newTestService(newFakeRepository())

	stats, err := service.OccupancyStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.TotalRooms)
	assert.Equal(t, "0.00%", stats.OccupancyRate)
}

func TestReleaseExpiredLocks_FreesOnlyStaleLeases(t *testing.T) {
	stale := time.Now().UTC().Add(-30 * time.Minute)
	fresh := time.Now().UTC().Add(-1 * time.Minute)
	repo := newFakeRepository(
		Room{ID: 1, HotelID: 1, Number: "101", Available: true, TempLocked: true, LockedAt: &stale},
		Room{ID: 2, HotelID: 1, Number: "102", Available: true, TempLocked: true, LockedAt: &fresh},
		Room{ID: 3, HotelID: 1, Number: "103", Available: true},
	)
	service := newTestService(repo)

	freed, err := service.ReleaseExpiredLocks(context.Background(), 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), freed)

	assert.False(t, repo.get(1).TempLocked)
	assert.True(t, repo.get(2).TempLocked, "fresh lease must survive the sweep")
	assert.False(t, repo.get(3).TempLocked)
}

func TestListRecommended_OrdersLeastBookedFirst(t *testing.T) {
	repo := newFakeRepository(
		Room{ID: 1, HotelID: 1, Number: "101", Available: true, TimesBooked: 4},
		Room{ID: 2, HotelID: 1, Number: "102", Available: true, TimesBooked: 0},
		Room{ID: 3, HotelID: 1, Number: "103", Available: false, TimesBooked: 0},
	)
	service := newTestService(repo)

	rooms, err := service.ListRecommended(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 1}, roomIDs(rooms))
}
