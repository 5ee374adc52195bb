package handlers

import (
	"github.com/gin-gonic/gin"

	"restock/internal/domain/reports"
	"restock/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles report endpoints. Every endpoint shares the same
// query surface (dto.ReportQuery) and differs only in the report flavor.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

func (h *ReportsHandler) scope(c *gin.Context) (reports.Scope, bool) {
	var req dto.ReportQuery
	if !h.BindQuery(c, &req) {
		return reports.Scope{}, false
	}

	scope, err := req.ToScope()
	if err != nil {
		h.Error(c, err)
		return reports.Scope{}, false
	}
	return scope, true
}

// ProductFulfillment handles GET /reports/product-fulfillment
func (h *ReportsHandler) ProductFulfillment(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	report, err := h.service.ProductFulfillment(c.Request.Context(), scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// BranchSummary handles GET /reports/branch-summary
func (h *ReportsHandler) BranchSummary(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	report, err := h.service.BranchSummary(c.Request.Context(), scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// InStock handles GET /reports/instock
func (h *ReportsHandler) InStock(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	report, err := h.service.InStock(c.Request.Context(), scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// Returns handles GET /reports/returns
func (h *ReportsHandler) Returns(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	report, err := h.service.Returns(c.Request.Context(), scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}
