package rooms

// CreateRoomRequest carries the payload for registering a new room.
// Available defaults to true when omitted.
type CreateRoomRequest struct {
	HotelID   uint   `json:"hotelId" binding:"required"`
	Number    string `json:"number" binding:"required,min=1,max=20"`
	Available *bool  `json:"available"`
}

// SearchRoomsQuery binds the query-string filters of the search endpoint.
// All filters are optional and combine with AND semantics.
type SearchRoomsQuery struct {
	HotelID   *uint  `form:"hotelId"`
	Available *bool  `form:"available"`
	Number    string `form:"number"`
	MinBooked *int   `form:"minBooked"`
	MaxBooked *int   `form:"maxBooked"`
	SortBy    string `form:"sortBy"`
}

// ToSearchQuery maps the bound query params onto the service-level filter.
func (q SearchRoomsQuery) ToSearchQuery() SearchQuery {
	return SearchQuery{
		HotelID:   q.HotelID,
		Available: q.Available,
		Number:    q.Number,
		MinBooked: q.MinBooked,
		MaxBooked: q.MaxBooked,
		SortBy:    q.SortBy,
	}
}
