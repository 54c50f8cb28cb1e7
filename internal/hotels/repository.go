package hotels

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrHotelNotFound = errors.New("hotel not found")

type Repository interface {
	Create(ctx context.Context, hotel *Hotel) error
	GetByID(ctx context.Context, id uint) (*Hotel, error)
	FindAll(ctx context.Context) ([]Hotel, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, hotel *Hotel) error {
	return r.db.WithContext(ctx).Create(hotel).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Hotel, error) {
	var hotel Hotel
	err := r.db.WithContext(ctx).First(&hotel, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &hotel, nil
}

func (r *repository) FindAll(ctx context.Context) ([]Hotel, error) {
	var hs []Hotel
	err := r.db.WithContext(ctx).Order("id ASC").Find(&hs).Error
	return hs, err
}
