package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restock/internal/domain/documents/instock"
	"restock/internal/infrastructure/http/v1/dto"
)

// InStockHandler handles in-stock entry endpoints.
type InStockHandler struct {
	*BaseHandler
	service *instock.Service
}

// NewInStockHandler creates a new in-stock handler.
func NewInStockHandler(base *BaseHandler, service *instock.Service) *InStockHandler {
	return &InStockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /documents/instock
func (h *InStockHandler) Create(c *gin.Context) {
	var req dto.CreateInStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedDocumentResponse{
		ID:            entry.ID.String(),
		InvoiceNumber: entry.Number,
	})
}

// Get handles GET /documents/instock/:id
func (h *InStockHandler) Get(c *gin.Context) {
	entryID, ok := h.ParamID(c)
	if !ok {
		return
	}

	entry, err := h.service.GetByID(c.Request.Context(), entryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInStockEntry(entry))
}

// GetByNumber handles GET /documents/instock/by-number/:number
func (h *InStockHandler) GetByNumber(c *gin.Context) {
	entry, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInStockEntry(entry))
}

// List handles GET /documents/instock
func (h *InStockHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.InStockResponse, len(result.Items))
	for i, entry := range result.Items {
		items[i] = dto.FromInStockEntry(entry)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
