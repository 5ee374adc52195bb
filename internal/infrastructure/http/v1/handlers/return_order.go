package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restock/internal/domain/documents/returnorder"
	"restock/internal/infrastructure/http/v1/dto"
)

// ReturnOrderHandler handles return order endpoints.
type ReturnOrderHandler struct {
	*BaseHandler
	service *returnorder.Service
}

// NewReturnOrderHandler creates a new return order handler.
func NewReturnOrderHandler(base *BaseHandler, service *returnorder.Service) *ReturnOrderHandler {
	return &ReturnOrderHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /documents/returns
func (h *ReturnOrderHandler) Create(c *gin.Context) {
	var req dto.CreateReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	ret, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedDocumentResponse{
		ID:            ret.ID.String(),
		InvoiceNumber: ret.Number,
	})
}

// Get handles GET /documents/returns/:id
func (h *ReturnOrderHandler) Get(c *gin.Context) {
	returnID, ok := h.ParamID(c)
	if !ok {
		return
	}

	ret, err := h.service.GetByID(c.Request.Context(), returnID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReturnOrder(ret))
}

// GetByNumber handles GET /documents/returns/by-number/:number
func (h *ReturnOrderHandler) GetByNumber(c *gin.Context) {
	ret, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReturnOrder(ret))
}

// List handles GET /documents/returns
func (h *ReturnOrderHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.ReturnResponse, len(result.Items))
	for i, ret := range result.Items {
		items[i] = dto.FromReturnOrder(ret)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
