package availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"travelmarket/internal/domain"
	"travelmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability", h.CheckAvailability)
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	serviceType := domain.ServiceType(c.Query("serviceType"))

	listingID, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid listing id")
		return
	}

	start, ok := parseDateParam(c.Query("start"))
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid start date")
		return
	}
	end, ok := parseDateParam(c.Query("end"))
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid end date")
		return
	}

	result, err := h.service.CheckAvailability(c.Request.Context(), serviceType, listingID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid availability query")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Listing not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to check availability")
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// parseDateParam accepts RFC 3339 timestamps or plain dates; empty
// means the bound was not supplied.
func parseDateParam(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	return nil, false
}
