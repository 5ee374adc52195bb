package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restock/internal/core/busday"
	"restock/internal/domain/documents/stockorder"
	"restock/internal/infrastructure/http/v1/dto"
)

// StockOrderHandler handles stock order endpoints.
type StockOrderHandler struct {
	*BaseHandler
	service *stockorder.Service
	clock   busday.Clock
}

// NewStockOrderHandler creates a new stock order handler.
func NewStockOrderHandler(base *BaseHandler, service *stockorder.Service, clock busday.Clock) *StockOrderHandler {
	return &StockOrderHandler{
		BaseHandler: base,
		service:     service,
		clock:       clock,
	}
}

// Create handles POST /documents/stock-orders
func (h *StockOrderHandler) Create(c *gin.Context) {
	var req dto.CreateStockOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	order, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedDocumentResponse{
		ID:            order.ID.String(),
		InvoiceNumber: order.Number,
	})
}

// Get handles GET /documents/stock-orders/:id
func (h *StockOrderHandler) Get(c *gin.Context) {
	orderID, ok := h.ParamID(c)
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStockOrder(order, h.clock))
}

// GetByNumber handles GET /documents/stock-orders/by-number/:number
func (h *StockOrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStockOrder(order, h.clock))
}

// List handles GET /documents/stock-orders
func (h *StockOrderHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.StockOrderResponse, len(result.Items))
	for i, order := range result.Items {
		items[i] = dto.FromStockOrder(order, h.clock)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// AdvanceStage handles POST /documents/stock-orders/:id/advance
func (h *StockOrderHandler) AdvanceStage(c *gin.Context) {
	orderID, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req dto.AdvanceStageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	at := time.Now().UTC()
	if req.At != nil {
		at = *req.At
	}

	order, err := h.service.AdvanceStage(c.Request.Context(), stockorder.AdvanceInput{
		OrderID:         orderID,
		LineNo:          req.LineNo,
		Stage:           stockorder.Stage(req.Stage),
		Qty:             req.Qty,
		At:              at,
		ExpectedVersion: req.ExpectedVersion,
		Correct:         req.Correct,
		Reason:          req.Reason,
		Actor:           req.Actor,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStockOrder(order, h.clock))
}

// Corrections handles GET /documents/stock-orders/:id/corrections
func (h *StockOrderHandler) Corrections(c *gin.Context) {
	orderID, ok := h.ParamID(c)
	if !ok {
		return
	}

	corrections, err := h.service.Corrections(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCorrections(corrections))
}
