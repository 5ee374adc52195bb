package handlers

import (
	"github.com/gin-gonic/gin"

	"restock/internal/domain/catalogs/branch"
	"restock/internal/domain/catalogs/category"
	"restock/internal/domain/catalogs/department"
	"restock/internal/domain/catalogs/product"
	"restock/internal/infrastructure/http/v1/dto"
)

// Catalogs are owned centrally and read-only to the replenishment core;
// the create endpoints exist for provisioning and seeding.

// BranchHandler handles branch catalog endpoints.
type BranchHandler struct {
	*BaseHandler
	service *branch.Service
}

// NewBranchHandler creates a new branch handler.
func NewBranchHandler(base *BaseHandler, service *branch.Service) *BranchHandler {
	return &BranchHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalogs/branches
func (h *BranchHandler) Create(c *gin.Context) {
	var req dto.CreateBranchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, b.ID.String())
}

// Get handles GET /catalogs/branches/:id
func (h *BranchHandler) Get(c *gin.Context) {
	branchID, ok := h.ParamID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), branchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBranch(b))
}

// List handles GET /catalogs/branches
func (h *BranchHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.BranchResponse, len(result.Items))
	for i, b := range result.Items {
		items[i] = dto.FromBranch(b)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// DepartmentHandler handles department catalog endpoints.
type DepartmentHandler struct {
	*BaseHandler
	service *department.Service
}

// NewDepartmentHandler creates a new department handler.
func NewDepartmentHandler(base *BaseHandler, service *department.Service) *DepartmentHandler {
	return &DepartmentHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalogs/departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d := department.NewDepartment(req.Code, req.Name)
	if err := h.service.Create(c.Request.Context(), d); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, d.ID.String())
}

// Get handles GET /catalogs/departments/:id
func (h *DepartmentHandler) Get(c *gin.Context) {
	departmentID, ok := h.ParamID(c)
	if !ok {
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), departmentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromDepartment(d))
}

// List handles GET /catalogs/departments
func (h *DepartmentHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.DepartmentResponse, len(result.Items))
	for i, d := range result.Items {
		items[i] = dto.FromDepartment(d)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// CategoryHandler handles category catalog endpoints.
type CategoryHandler struct {
	*BaseHandler
	service *category.Service
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHandler {
	return &CategoryHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalogs/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), cat); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, cat.ID.String())
}

// Get handles GET /catalogs/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	categoryID, ok := h.ParamID(c)
	if !ok {
		return
	}

	cat, err := h.service.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCategory(cat))
}

// List handles GET /catalogs/categories
func (h *CategoryHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.CategoryResponse, len(result.Items))
	for i, cat := range result.Items {
		items[i] = dto.FromCategory(cat)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// ProductHandler handles product catalog endpoints.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalogs/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, p.ID.String())
}

// Get handles GET /catalogs/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParamID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// List handles GET /catalogs/products
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ProductResponse, len(result.Items))
	for i, p := range result.Items {
		items[i] = dto.FromProduct(p)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
