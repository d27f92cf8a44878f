package order

import (
	"errors"
	"net/http"
	"strconv"

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
	rg.POST("/orders", h.PlaceOrder)
	rg.GET("/orders/my", h.GetMyOrders)
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	o, err := h.service.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"order": o})
}

func (h *Handler) GetMyOrders(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.service.GetMyOrders(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load orders")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var stockErr *StockError
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCouponNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.As(err, &stockErr):
		response.Error(c, http.StatusConflict, response.CodeConflict, stockErr.Error())
	case errors.Is(err, ErrStock):
		response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to place order")
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 20
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if s := c.Query("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
