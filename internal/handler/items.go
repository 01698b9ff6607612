package handler

import (
	"errors"
	"net/http"
	"strconv"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ItemsHandler struct{ svc service.InventoryService }

func NewItemsHandler(svc service.InventoryService) *ItemsHandler {
	return &ItemsHandler{svc: svc}
}

func (h *ItemsHandler) List(c *gin.Context) {
	var filter dto.ItemFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListItems(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list items")
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list items"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid item id"))
		return
	}
	resp, err := h.svc.GetItem(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Item not found"))
			return
		}
		log.Error().Err(err).Str("id", id.String()).Msg("failed to fetch item")
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to fetch item"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateQuantity sets an absolute stock level on one item. The reason lands
// in the ledger as an adjustment event.
func (h *ItemsHandler) UpdateQuantity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid item id"))
		return
	}
	var req dto.UpdateQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateQuantity(c.Request.Context(), id, *req.Quantity, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Item not found"))
			return
		}
		log.Error().Err(err).Str("id", id.String()).Msg("failed to update quantity")
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to update quantity"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid item id"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.ItemHistory(c.Request.Context(), id, limit)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Item not found"))
			return
		}
		log.Error().Err(err).Str("id", id.String()).Msg("failed to fetch item history")
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to fetch item history"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
