package dto

import (
	"restock/internal/core/types"
	"restock/internal/domain/catalogs/branch"
	"restock/internal/domain/catalogs/category"
	"restock/internal/domain/catalogs/department"
	"restock/internal/domain/catalogs/product"
)

// --- Branch ---

// CreateBranchRequest for registering a branch. The 3-letter code is derived
// from the name when omitted.
type CreateBranchRequest struct {
	Code      string `json:"code,omitempty"`
	Name      string `json:"name" binding:"required"`
	CompanyID string `json:"companyId" binding:"required"`
}

// ToEntity converts the request to a domain branch.
func (r *CreateBranchRequest) ToEntity() (*branch.Branch, error) {
	companyID, err := ParseID("companyId", r.CompanyID)
	if err != nil {
		return nil, err
	}

	b := branch.NewBranch(r.Name, companyID)
	if r.Code != "" {
		b.Code = r.Code
	}
	return b, nil
}

// BranchResponse represents a branch.
type BranchResponse struct {
	BaseResponse
	Code      string `json:"code"`
	Name      string `json:"name"`
	CompanyID string `json:"companyId"`
	IsActive  bool   `json:"isActive"`
}

// FromBranch converts a domain branch to its response shape.
func FromBranch(b *branch.Branch) BranchResponse {
	return BranchResponse{
		BaseResponse: FromBaseEntity(b.BaseEntity),
		Code:         b.Code,
		Name:         b.Name,
		CompanyID:    b.CompanyID.String(),
		IsActive:     b.IsActive,
	}
}

// --- Department ---

// CreateDepartmentRequest for registering a department.
type CreateDepartmentRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// DepartmentResponse represents a department.
type DepartmentResponse struct {
	BaseResponse
	Code string `json:"code"`
	Name string `json:"name"`
}

// FromDepartment converts a domain department to its response shape.
func FromDepartment(d *department.Department) DepartmentResponse {
	return DepartmentResponse{
		BaseResponse: FromBaseEntity(d.BaseEntity),
		Code:         d.Code,
		Name:         d.Name,
	}
}

// --- Category ---

// CreateCategoryRequest for registering a category.
type CreateCategoryRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	DepartmentID string `json:"departmentId" binding:"required"`
}

// ToEntity converts the request to a domain category.
func (r *CreateCategoryRequest) ToEntity() (*category.Category, error) {
	departmentID, err := ParseID("departmentId", r.DepartmentID)
	if err != nil {
		return nil, err
	}
	return category.NewCategory(r.Code, r.Name, departmentID), nil
}

// CategoryResponse represents a category.
type CategoryResponse struct {
	BaseResponse
	Code         string `json:"code"`
	Name         string `json:"name"`
	DepartmentID string `json:"departmentId"`
}

// FromCategory converts a domain category to its response shape.
func FromCategory(c *category.Category) CategoryResponse {
	return CategoryResponse{
		BaseResponse: FromBaseEntity(c.BaseEntity),
		Code:         c.Code,
		Name:         c.Name,
		DepartmentID: c.DepartmentID.String(),
	}
}

// --- Product ---

// CreateProductRequest for registering a product.
type CreateProductRequest struct {
	Code       string      `json:"code" binding:"required"`
	Name       string      `json:"name" binding:"required"`
	Price      types.Money `json:"price"`
	CategoryID string      `json:"categoryId" binding:"required"`
}

// ToEntity converts the request to a domain product.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	categoryID, err := ParseID("categoryId", r.CategoryID)
	if err != nil {
		return nil, err
	}
	return product.NewProduct(r.Code, r.Name, r.Price, categoryID), nil
}

// ProductResponse represents a product.
type ProductResponse struct {
	BaseResponse
	Code       string      `json:"code"`
	Name       string      `json:"name"`
	Price      types.Money `json:"price"`
	CategoryID string      `json:"categoryId"`
}

// FromProduct converts a domain product to its response shape.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		BaseResponse: FromBaseEntity(p.BaseEntity),
		Code:         p.Code,
		Name:         p.Name,
		Price:        p.Price,
		CategoryID:   p.CategoryID.String(),
	}
}
