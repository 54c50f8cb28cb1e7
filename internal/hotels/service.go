package hotels

import (
	"context"
	"fmt"
)

type Service interface {
	CreateHotel(ctx context.Context, req CreateHotelRequest) (*Hotel, error)
	GetHotel(ctx context.Context, id uint) (*Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateHotel(ctx context.Context, req CreateHotelRequest) (*Hotel, error) {
	hotel := &Hotel{
		Name:    req.Name,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, hotel); err != nil {
		return nil, fmt.Errorf("failed to create hotel: %w", err)
	}
	return hotel, nil
}

func (s *service) GetHotel(ctx context.Context, id uint) (*Hotel, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListHotels(ctx context.Context) ([]Hotel, error) {
	return s.repo.FindAll(ctx)
}
