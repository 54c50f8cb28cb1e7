package hotels

import (
	"errors"
	"net/http"
	"strconv"

	"roomly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	CreateHotel(c *gin.Context)
	GetHotel(c *gin.Context)
	ListHotels(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateHotel(c *gin.Context) {
	var req CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	hotel, err := ctrl.service.CreateHotel(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create hotel", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Hotel created successfully", hotel, nil)
}

func (ctrl *controller) GetHotel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid hotel ID", nil, err.Error())
		return
	}

	hotel, err := ctrl.service.GetHotel(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Hotel not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get hotel", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Hotel retrieved successfully", hotel, nil)
}

func (ctrl *controller) ListHotels(c *gin.Context) {
	hs, err := ctrl.service.ListHotels(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list hotels", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Hotels retrieved successfully", hs, nil)
}
