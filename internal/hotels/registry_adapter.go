package hotels

import (
	"context"

	"roomly/internal/rooms"
)

// RegistryAdapter exposes the hotel catalog to the rooms package without a
// reverse import (rooms declares the interface it consumes).
type RegistryAdapter struct {
	service Service
}

func NewRegistryAdapter(service Service) *RegistryAdapter {
	return &RegistryAdapter{service: service}
}

func (a *RegistryAdapter) ListHotelRefs(ctx context.Context) ([]rooms.HotelRef, error) {
	hs, err := a.service.ListHotels(ctx)
	if err != nil {
		return nil, err
	}

	refs := make([]rooms.HotelRef, 0, len(hs))
	for _, h := range hs {
		refs = append(refs, rooms.HotelRef{ID: h.ID, Name: h.Name})
	}
	return refs, nil
}
