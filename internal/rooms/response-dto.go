package rooms

import "time"

type RoomResponse struct {
	ID          uint      `json:"id"`
	HotelID     uint      `json:"hotel_id"`
	Number      string    `json:"number"`
	Available   bool      `json:"available"`
	TimesBooked int       `json:"times_booked"`
	TempLocked  bool      `json:"temp_locked"`
	CreatedAt   time.Time `json:"created_at"`
}

type AllocationResponse struct {
	Allocated bool          `json:"allocated"`
	Room      *RoomResponse `json:"room,omitempty"`
}

func ToRoomResponse(room *Room) *RoomResponse {
	if room == nil {
		return nil
	}
	return &RoomResponse{
		ID:          room.ID,
		HotelID:     room.HotelID,
		Number:      room.Number,
		Available:   room.Available,
		TimesBooked: room.TimesBooked,
		TempLocked:  room.TempLocked,
		CreatedAt:   room.CreatedAt,
	}
}

func ToRoomResponseList(rooms []Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, *ToRoomResponse(&rooms[i]))
	}
	return out
}
