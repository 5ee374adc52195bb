package dto

import (
	"time"

	"restock/internal/core/busday"
	"restock/internal/domain/documents/stockorder"
)

// --- Request DTOs ---

// CreateStockOrderRequest represents a request to create a stock order.
type CreateStockOrderRequest struct {
	BranchID     string                  `json:"branchId" binding:"required"`
	DeliveryDate time.Time               `json:"deliveryDate" binding:"required"`
	Comment      string                  `json:"comment,omitempty"`
	Items        []StockOrderLineRequest `json:"items" binding:"required,min=1,dive"`
	CreatedBy    string                  `json:"createdBy,omitempty"`
}

// StockOrderLineRequest represents one requested order line.
type StockOrderLineRequest struct {
	ProductID   string `json:"productId" binding:"required"`
	RequiredQty int64  `json:"requiredQty" binding:"required,gt=0"`
}

// ToInput converts the request to a service input.
func (r *CreateStockOrderRequest) ToInput() (stockorder.CreateInput, error) {
	branchID, err := ParseID("branchId", r.BranchID)
	if err != nil {
		return stockorder.CreateInput{}, err
	}

	in := stockorder.CreateInput{
		BranchID:     branchID,
		DeliveryDate: r.DeliveryDate,
		Comment:      r.Comment,
		CreatedBy:    r.CreatedBy,
	}
	for _, line := range r.Items {
		productID, err := ParseID("productId", line.ProductID)
		if err != nil {
			return stockorder.CreateInput{}, err
		}
		in.Items = append(in.Items, stockorder.CreateItemInput{
			ProductID:   productID,
			RequiredQty: line.RequiredQty,
		})
	}
	return in, nil
}

// AdvanceStageRequest records one line/stage write.
type AdvanceStageRequest struct {
	LineNo          int        `json:"lineNo" binding:"required,min=1"`
	Stage           string     `json:"stage" binding:"required"`
	Qty             int64      `json:"qty" binding:"min=0"`
	At              *time.Time `json:"at,omitempty"`
	ExpectedVersion int        `json:"expectedVersion,omitempty"`

	// Correction mode; reason and actor become part of the audit trail.
	Correct bool   `json:"correct,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Actor   string `json:"actor,omitempty"`
}

// --- Response DTOs ---

// StockOrderItemResponse represents one order line with its stage progress.
type StockOrderItemResponse struct {
	LineNo    int    `json:"lineNo"`
	ProductID string `json:"productId"`

	RequiredQty   int64      `json:"requiredQty"`
	RequiredDate  *time.Time `json:"requiredDate,omitempty"`
	SendingQty    int64      `json:"sendingQty"`
	SendingDate   *time.Time `json:"sendingDate,omitempty"`
	ConfirmedQty  int64      `json:"confirmedQty"`
	ConfirmedDate *time.Time `json:"confirmedDate,omitempty"`
	PickedQty     int64      `json:"pickedQty"`
	PickedDate    *time.Time `json:"pickedDate,omitempty"`
	ReceivedQty   int64      `json:"receivedQty"`
	ReceivedDate  *time.Time `json:"receivedDate,omitempty"`

	DifferenceQty int64 `json:"differenceQty"`
	Closed        bool  `json:"closed"`

	// Statuses is the computed three-way coloring per stage.
	Statuses map[string]string `json:"statuses"`
}

// StockOrderResponse represents a stock order with its items.
type StockOrderResponse struct {
	BaseResponse
	InvoiceNumber string                   `json:"invoiceNumber"`
	BranchID      string                   `json:"branchId"`
	BranchCode    string                   `json:"branchCode"`
	DeliveryDate  time.Time                `json:"deliveryDate"`
	Live          bool                     `json:"live"`
	Comment       string                   `json:"comment,omitempty"`
	CreatedBy     string                   `json:"createdBy,omitempty"`
	UpdatedBy     string                   `json:"updatedBy,omitempty"`
	Items         []StockOrderItemResponse `json:"items"`
}

// FromStockOrderItem converts a domain item to its response shape.
func FromStockOrderItem(item stockorder.Item) StockOrderItemResponse {
	statuses := make(map[string]string, len(stockorder.Stages))
	for _, stage := range stockorder.Stages {
		statuses[string(stage)] = string(item.StageStatus(stage))
	}

	return StockOrderItemResponse{
		LineNo:        item.LineNo,
		ProductID:     item.ProductID.String(),
		RequiredQty:   item.RequiredQty,
		RequiredDate:  item.RequiredDate,
		SendingQty:    item.SendingQty,
		SendingDate:   item.SendingDate,
		ConfirmedQty:  item.ConfirmedQty,
		ConfirmedDate: item.ConfirmedDate,
		PickedQty:     item.PickedQty,
		PickedDate:    item.PickedDate,
		ReceivedQty:   item.ReceivedQty,
		ReceivedDate:  item.ReceivedDate,
		DifferenceQty: item.DifferenceQty,
		Closed:        item.Closed(),
		Statuses:      statuses,
	}
}

// FromStockOrder converts a domain order to its response shape.
func FromStockOrder(o *stockorder.StockOrder, clock busday.Clock) *StockOrderResponse {
	resp := &StockOrderResponse{
		BaseResponse:  FromBaseDocument(o.BaseDocument),
		InvoiceNumber: o.Number,
		BranchID:      o.BranchID.String(),
		BranchCode:    o.BranchCode,
		DeliveryDate:  o.DeliveryDate,
		Live:          o.IsLive(clock),
		Comment:       o.Comment,
		CreatedBy:     o.CreatedBy,
		UpdatedBy:     o.UpdatedBy,
		Items:         make([]StockOrderItemResponse, len(o.Items)),
	}
	for i, item := range o.Items {
		resp.Items[i] = FromStockOrderItem(item)
	}
	return resp
}

// CorrectionResponse represents one audited stage correction.
type CorrectionResponse struct {
	LineNo    int        `json:"lineNo"`
	Stage     string     `json:"stage"`
	OldQty    int64      `json:"oldQty"`
	OldDate   *time.Time `json:"oldDate,omitempty"`
	NewQty    int64      `json:"newQty"`
	NewDate   *time.Time `json:"newDate,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Actor     string     `json:"actor,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// FromCorrections converts the audit trail to response shape.
func FromCorrections(cs []stockorder.Correction) []CorrectionResponse {
	out := make([]CorrectionResponse, len(cs))
	for i, c := range cs {
		out[i] = CorrectionResponse{
			LineNo:    c.LineNo,
			Stage:     string(c.Stage),
			OldQty:    c.OldQty,
			OldDate:   c.OldDate,
			NewQty:    c.NewQty,
			NewDate:   c.NewDate,
			Reason:    c.Reason,
			Actor:     c.Actor,
			CreatedAt: c.CreatedAt,
		}
	}
	return out
}
