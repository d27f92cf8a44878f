package coupon

import (
	"errors"
	"net/http"

	"travelmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the preview endpoint for authenticated users;
// coupon creation is registered separately under the admin group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/coupons/preview", h.Preview)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/coupons", h.CreateCoupon)
}

func (h *Handler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	preview, err := h.service.Preview(c.Request.Context(), req.Code, req.OrderTotal)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid coupon query")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Coupon not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to preview coupon")
		}
		return
	}

	response.Success(c, http.StatusOK, preview)
}

func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	created, err := h.service.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid coupon definition")
		case errors.Is(err, ErrDuplicate):
			response.Error(c, http.StatusConflict, response.CodeConflict, "Coupon code already exists")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create coupon")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"coupon": created})
}
