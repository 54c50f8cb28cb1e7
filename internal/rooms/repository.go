package rooms

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// LockedStore is the view of the room table inside an exclusive transaction.
// Rows returned by LockEligible and GetForUpdate are locked until the
// surrounding WithLock callback returns.
type LockedStore interface {
	// LockEligible takes an exclusive lock on all rooms matching
	// available = true AND temp_locked = false, ordered by
	// (times_booked ASC, id ASC).
	LockEligible() ([]Room, error)

	// GetForUpdate fetches one room by id under an exclusive lock.
	// Returns (nil, nil) when the id does not exist.
	GetForUpdate(id uint) (*Room, error)

	// Save upserts a room within the transaction.
	Save(room *Room) error
}

type Repository interface {
	Create(ctx context.Context, room *Room) error

	// WithLock runs fn inside a transaction; returning an error rolls it
	// back. This is the only place the row locks are available.
	WithLock(ctx context.Context, fn func(store LockedStore) error) error

	// Read-only queries
	FindAvailable(ctx context.Context) ([]Room, error)
	FindRecommended(ctx context.Context) ([]Room, error)
	FindAll(ctx context.Context) ([]Room, error)
	FindByHotelID(ctx context.Context, hotelID uint) ([]Room, error)
	Count(ctx context.Context) (int64, error)
	CountUnavailable(ctx context.Context) (int64, error)

	// ReleaseExpiredLocks clears temp locks whose lease started before the
	// given instant. Returns the number of rooms freed.
	ReleaseExpiredLocks(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, room *Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *repository) WithLock(ctx context.Context, fn func(store LockedStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&lockedStore{tx: tx})
	})
}

type lockedStore struct {
	tx *gorm.DB
}

func (s *lockedStore) LockEligible() ([]Room, error) {
	var candidates []Room
	err := s.tx.
		Set("gorm:query_option", "FOR UPDATE").
		Where("available = ? AND temp_locked = ?", true, false).
		Order("times_booked ASC, id ASC").
		Find(&candidates).Error
	return candidates, err
}

func (s *lockedStore) GetForUpdate(id uint) (*Room, error) {
	var room Room
	err := s.tx.
		Set("gorm:query_option", "FOR UPDATE").
		First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (s *lockedStore) Save(room *Room) error {
	return s.tx.Save(room).Error
}

func (r *repository) FindAvailable(ctx context.Context) ([]Room, error) {
	var rs []Room
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Find(&rs).Error
	return rs, err
}

func (r *repository) FindRecommended(ctx context.Context) ([]Room, error) {
	var rs []Room
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("times_booked ASC, id ASC").
		Find(&rs).Error
	return rs, err
}

func (r *repository) FindAll(ctx context.Context) ([]Room, error) {
	var rs []Room
	err := r.db.WithContext(ctx).Find(&rs).Error
	return rs, err
}

func (r *repository) FindByHotelID(ctx context.Context, hotelID uint) ([]Room, error) {
	var rs []Room
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Find(&rs).Error
	return rs, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Room{}).Count(&count).Error
	return count, err
}

func (r *repository) CountUnavailable(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Room{}).
		Where("available = ?", false).
		Count(&count).Error
	return count, err
}

func (r *repository) ReleaseExpiredLocks(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Room{}).
		Where("temp_locked = ? AND locked_at IS NOT NULL AND locked_at < ?", true, before).
		Updates(map[string]interface{}{
			"temp_locked": false,
			"locked_at":   nil,
		})
	return result.RowsAffected, result.Error
}
