package rooms

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roomly/internal/shared/utils/response"
)

type Controller interface {
	CreateRoom(c *gin.Context)
	ListAvailable(c *gin.Context)
	ListRecommended(c *gin.Context)
	SearchRooms(c *gin.Context)
	GetOccupancyStats(c *gin.Context)
	AllocateRoom(c *gin.Context)
	ConfirmBooking(c *gin.Context)
	ReleaseRoom(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	room, err := ctrl.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Room created successfully", ToRoomResponse(room), nil)
}

func (ctrl *controller) ListAvailable(c *gin.Context) {
	rooms, err := ctrl.service.ListAvailable(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to retrieve rooms", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Available rooms retrieved successfully", ToRoomResponseList(rooms), nil)
}

func (ctrl *controller) ListRecommended(c *gin.Context) {
	rooms, err := ctrl.service.ListRecommended(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to retrieve rooms", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Recommended rooms retrieved successfully", ToRoomResponseList(rooms), nil)
}

func (ctrl *controller) SearchRooms(c *gin.Context) {
	var query SearchRoomsQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	rooms, err := ctrl.service.Search(c.Request.Context(), query.ToSearchQuery())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to search rooms", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Rooms retrieved successfully", ToRoomResponseList(rooms), nil)
}

func (ctrl *controller) GetOccupancyStats(c *gin.Context) {
	stats, err := ctrl.service.OccupancyStats(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to compute occupancy stats", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Occupancy stats retrieved successfully", stats, nil)
}

func (ctrl *controller) AllocateRoom(c *gin.Context) {
	room, err := ctrl.service.Allocate(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to allocate room", nil, err.Error())
		return
	}

	if room == nil {
		response.RespondJSON(c, "success", http.StatusOK, "No rooms available", AllocationResponse{Allocated: false}, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Room allocated successfully", AllocationResponse{
		Allocated: true,
		Room:      ToRoomResponse(room),
	}, nil)
}

func (ctrl *controller) ConfirmBooking(c *gin.Context) {
	roomID, ok := parseRoomID(c)
	if !ok {
		return
	}

	if err := ctrl.service.Confirm(c.Request.Context(), roomID); err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to confirm booking", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking confirmed successfully", nil, nil)
}

func (ctrl *controller) ReleaseRoom(c *gin.Context) {
	roomID, ok := parseRoomID(c)
	if !ok {
		return
	}

	if err := ctrl.service.Release(c.Request.Context(), roomID); err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to release room", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Room released successfully", nil, nil)
}

func parseRoomID(c *gin.Context) (uint, bool) {
	idStr := c.Param("roomId")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid room ID", nil, err.Error())
		return 0, false
	}
	return uint(id), true
}
