package handler

import (
	"errors"
	"net/http"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AllocationsHandler struct{ svc service.InventoryService }

func NewAllocationsHandler(svc service.InventoryService) *AllocationsHandler {
	return &AllocationsHandler{svc: svc}
}

// Allocate reserves stock for a production line. On success the created
// allocation event is returned; on insufficient stock nothing changes and no
// event is written.
func (h *AllocationsHandler) Allocate(c *gin.Context) {
	var req dto.AllocateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid itemId"))
		return
	}

	resp, err := h.svc.Allocate(c.Request.Context(), itemID, req.Quantity, req.ProductionLineID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(http.StatusNotFound, apierror.New("Item not found"))
		case errors.Is(err, service.ErrInsufficientInventory):
			c.JSON(http.StatusBadRequest, apierror.New("Insufficient inventory"))
		default:
			log.Error().Err(err).Str("item_id", req.ItemID).Msg("allocation failed")
			c.JSON(http.StatusInternalServerError, apierror.New("Allocation failed"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deallocate returns previously reserved stock.
func (h *AllocationsHandler) Deallocate(c *gin.Context) {
	var req dto.DeallocateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid itemId"))
		return
	}

	resp, err := h.svc.Deallocate(c.Request.Context(), itemID, req.Quantity, req.ProductionLineID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(http.StatusNotFound, apierror.New("Item not found"))
		default:
			log.Error().Err(err).Str("item_id", req.ItemID).Msg("deallocation failed")
			c.JSON(http.StatusInternalServerError, apierror.New("Deallocation failed"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
