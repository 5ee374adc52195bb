package dto

import (
	"restock/internal/core/apperror"
	"restock/internal/domain/documents/returnorder"
)

// CreateReturnRequest represents a request to register a return.
type CreateReturnRequest struct {
	BranchID  string              `json:"branchId" binding:"required"`
	Comment   string              `json:"comment,omitempty"`
	Items     []ReturnLineRequest `json:"items" binding:"required,min=1,dive"`
	CreatedBy string              `json:"createdBy,omitempty"`
}

// ReturnLineRequest represents one returned line.
type ReturnLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       int64  `json:"qty" binding:"required,gt=0"`
	Reason    string `json:"reason" binding:"required"`
	Note      string `json:"note,omitempty"`
}

// ToInput converts the request to a service input.
func (r *CreateReturnRequest) ToInput() (returnorder.CreateInput, error) {
	branchID, err := ParseID("branchId", r.BranchID)
	if err != nil {
		return returnorder.CreateInput{}, err
	}

	in := returnorder.CreateInput{
		BranchID:  branchID,
		Comment:   r.Comment,
		CreatedBy: r.CreatedBy,
	}
	for _, line := range r.Items {
		productID, err := ParseID("productId", line.ProductID)
		if err != nil {
			return returnorder.CreateInput{}, err
		}
		reason := returnorder.Reason(line.Reason)
		if !reason.Valid() {
			return returnorder.CreateInput{}, apperror.NewValidation("unknown return reason").
				WithDetail("value", line.Reason)
		}
		in.Items = append(in.Items, returnorder.CreateItemInput{
			ProductID: productID,
			Qty:       line.Qty,
			Reason:    reason,
			Note:      line.Note,
		})
	}
	return in, nil
}

// ReturnItemResponse represents one returned line.
type ReturnItemResponse struct {
	LineNo    int    `json:"lineNo"`
	ProductID string `json:"productId"`
	Qty       int64  `json:"qty"`
	Reason    string `json:"reason"`
	Note      string `json:"note,omitempty"`
}

// ReturnResponse represents a return order with its items.
type ReturnResponse struct {
	BaseResponse
	InvoiceNumber string               `json:"invoiceNumber"`
	BranchID      string               `json:"branchId"`
	BranchCode    string               `json:"branchCode"`
	Comment       string               `json:"comment,omitempty"`
	CreatedBy     string               `json:"createdBy,omitempty"`
	Items         []ReturnItemResponse `json:"items"`
}

// FromReturnOrder converts a domain return to its response shape.
func FromReturnOrder(o *returnorder.ReturnOrder) *ReturnResponse {
	resp := &ReturnResponse{
		BaseResponse:  FromBaseDocument(o.BaseDocument),
		InvoiceNumber: o.Number,
		BranchID:      o.BranchID.String(),
		BranchCode:    o.BranchCode,
		Comment:       o.Comment,
		CreatedBy:     o.CreatedBy,
		Items:         make([]ReturnItemResponse, len(o.Items)),
	}
	for i, item := range o.Items {
		resp.Items[i] = ReturnItemResponse{
			LineNo:    item.LineNo,
			ProductID: item.ProductID.String(),
			Qty:       item.Qty,
			Reason:    string(item.Reason),
			Note:      item.Note,
		}
	}
	return resp
}
