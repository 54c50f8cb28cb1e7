package rooms

import "time"

// Room is a single bookable unit. TempLocked marks a provisional hold taken
// by Allocate and resolved by Confirm or Release; Available is the service
// state flag and is never touched by the allocation flow.
type Room struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	HotelID     uint       `json:"hotel_id" gorm:"index;not null"`
	Number      string     `json:"number" gorm:"not null;size:32"`
	Available   bool       `json:"available" gorm:"not null;default:true"`
	TimesBooked int        `json:"times_booked" gorm:"not null;default:0;check:times_booked >= 0"`
	TempLocked  bool       `json:"temp_locked" gorm:"not null;default:false"`
	LockedAt    *time.Time `json:"locked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Room) TableName() string {
	return "rooms"
}

// Sort keys accepted by Search. Anything else falls back to id ascending.
const (
	SortByTimesBookedDesc = "timesBooked_desc"
	SortByNumber          = "number"
)

// SearchQuery carries the optional search filters. Nil pointers mean the
// filter is absent; MinBooked/MaxBooked default to [0, 1000].
type SearchQuery struct {
	HotelID   *uint
	Available *bool
	Number    string
	MinBooked *int
	MaxBooked *int
	SortBy    string
}

const (
	defaultMinBooked = 0
	defaultMaxBooked = 1000
)

// HotelRef is the slice of the hotel catalog the stats engine needs.
type HotelRef struct {
	ID   uint
	Name string
}

// OccupancyStats is the aggregate occupancy view. Occupancy is defined by
// the Available flag; a temp-locked room still counts as available here.
type OccupancyStats struct {
	TotalRooms     int64                     `json:"total_rooms"`
	AvailableRooms int64                     `json:"available_rooms"`
	OccupiedRooms  int64                     `json:"occupied_rooms"`
	OccupancyRate  string                    `json:"occupancy_rate"`
	ByHotel        map[string]HotelOccupancy `json:"by_hotel"`
}

// HotelOccupancy is the per-hotel occupancy breakdown.
type HotelOccupancy struct {
	Total    int64   `json:"total"`
	Occupied int64   `json:"occupied"`
	Rate     float64 `json:"rate"`
}

// RoomEvent is the message published to the bus on allocation lifecycle
// transitions.
type RoomEvent struct {
	EventID     string    `json:"event_id"`
	Type        string    `json:"type"`
	RoomID      uint      `json:"room_id"`
	HotelID     uint      `json:"hotel_id,omitempty"`
	TimesBooked int       `json:"times_booked"`
	OccurredAt  time.Time `json:"occurred_at"`
}

const (
	EventRoomAllocated = "room.allocated"
	EventRoomConfirmed = "room.confirmed"
	EventRoomReleased  = "room.released"
)
