package dto

import (
	"restock/internal/core/types"
	"restock/internal/domain/documents/instock"
)

// CreateInStockRequest represents a request to register an arrival.
type CreateInStockRequest struct {
	BranchID  string               `json:"branchId" binding:"required"`
	Comment   string               `json:"comment,omitempty"`
	Items     []InStockLineRequest `json:"items" binding:"required,min=1,dive"`
	CreatedBy string               `json:"createdBy,omitempty"`
}

// InStockLineRequest represents one arrival line.
type InStockLineRequest struct {
	ProductID string      `json:"productId" binding:"required"`
	Qty       int64       `json:"qty" binding:"required,gt=0"`
	Price     types.Money `json:"price"`
}

// ToInput converts the request to a service input.
func (r *CreateInStockRequest) ToInput() (instock.CreateInput, error) {
	branchID, err := ParseID("branchId", r.BranchID)
	if err != nil {
		return instock.CreateInput{}, err
	}

	in := instock.CreateInput{
		BranchID:  branchID,
		Comment:   r.Comment,
		CreatedBy: r.CreatedBy,
	}
	for _, line := range r.Items {
		productID, err := ParseID("productId", line.ProductID)
		if err != nil {
			return instock.CreateInput{}, err
		}
		in.Items = append(in.Items, instock.CreateItemInput{
			ProductID: productID,
			Qty:       line.Qty,
			Price:     line.Price,
		})
	}
	return in, nil
}

// InStockItemResponse represents one arrival line.
type InStockItemResponse struct {
	LineNo    int         `json:"lineNo"`
	ProductID string      `json:"productId"`
	Qty       int64       `json:"qty"`
	Price     types.Money `json:"price"`
	Total     types.Money `json:"total"`
}

// InStockResponse represents an in-stock entry with its items.
type InStockResponse struct {
	BaseResponse
	InvoiceNumber string                `json:"invoiceNumber"`
	BranchID      string                `json:"branchId"`
	BranchCode    string                `json:"branchCode"`
	Comment       string                `json:"comment,omitempty"`
	CreatedBy     string                `json:"createdBy,omitempty"`
	Items         []InStockItemResponse `json:"items"`
	Total         types.Money           `json:"total"`
}

// FromInStockEntry converts a domain entry to its response shape.
func FromInStockEntry(e *instock.InStockEntry) *InStockResponse {
	resp := &InStockResponse{
		BaseResponse:  FromBaseDocument(e.BaseDocument),
		InvoiceNumber: e.Number,
		BranchID:      e.BranchID.String(),
		BranchCode:    e.BranchCode,
		Comment:       e.Comment,
		CreatedBy:     e.CreatedBy,
		Items:         make([]InStockItemResponse, len(e.Items)),
		Total:         e.Total(),
	}
	for i, item := range e.Items {
		resp.Items[i] = InStockItemResponse{
			LineNo:    item.LineNo,
			ProductID: item.ProductID.String(),
			Qty:       item.Qty,
			Price:     item.Price,
			Total:     item.Total(),
		}
	}
	return resp
}
