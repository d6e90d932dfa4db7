package production

import (
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/production"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest is the body of POST /productionEntry
type CreateEntryRequest struct {
	WarehouseName   string            `json:"warehouseName" binding:"required,max=200"`
	CreatedBy       string            `json:"createdBy" binding:"max=100"`
	ItemCode        []string          `json:"itemCode" binding:"required,min=1,dive,required"`
	ItemName        []string          `json:"itemName"`
	VarianceName    []string          `json:"varianceName"`
	MeasurementType []string          `json:"measurementType"`
	UOM             []string          `json:"uom"`
	Qty             []decimal.Decimal `json:"qty"`
	Weight          []decimal.Decimal `json:"weight"`
	Remarks         []string          `json:"remarks"`
}

// FromSaleOrderRequest is the body of POST /productionEntry/saleorder
type FromSaleOrderRequest struct {
	SaleOrderNo   string `json:"saleOrderNo" binding:"required,max=50"`
	WarehouseName string `json:"warehouseName" binding:"max=200"`
	CreatedBy     string `json:"createdBy" binding:"max=100"`
}

// EditQuantitiesRequest is the body of PUT /productionEntry/:id/quantities
type EditQuantitiesRequest struct {
	ItemCode []string          `json:"itemCode" binding:"required,min=1"`
	Qty      []decimal.Decimal `json:"qty"`
	Weight   []decimal.Decimal `json:"weight"`
}

// ListFilter is the query of GET /productionEntry
type ListFilter struct {
	WarehouseName string `form:"warehouseName"`
	Status        string `form:"status" binding:"omitempty,oneof=active deactive"`
	FromDate      string `form:"fromDate" binding:"omitempty,dmy"`
	ToDate        string `form:"toDate" binding:"omitempty,dmy"`
	Search        string `form:"search"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LineResponse is one production line on the wire
type LineResponse struct {
	ItemCode        string          `json:"itemCode"`
	ItemName        string          `json:"itemName"`
	VarianceName    string          `json:"varianceName"`
	MeasurementType string          `json:"measurementType"`
	UOM             string          `json:"uom"`
	Qty             decimal.Decimal `json:"qty"`
	Weight          decimal.Decimal `json:"weight"`
	Remarks         string          `json:"remarks,omitempty"`
}

// EntryResponse is a production entry on the wire
type EntryResponse struct {
	ID                    uuid.UUID      `json:"id"`
	ProductionEntryNumber string         `json:"productionEntryNumber"`
	WarehouseName         string         `json:"warehouseName"`
	Type                  string         `json:"type,omitempty"`
	SaleOrderNo           string         `json:"saleOrderNo,omitempty"`
	CreatedBy             string         `json:"createdBy"`
	Date                  time.Time      `json:"date"`
	Items                 []LineResponse `json:"items"`
	CancelledItems        []LineResponse `json:"cancelItems"`
	Status                string         `json:"status"`
	Version               int            `json:"version"`
}

func toLines(lines []production.Line) []LineResponse {
	out := make([]LineResponse, len(lines))
	for i, l := range lines {
		out[i] = LineResponse{
			ItemCode:        l.ItemCode,
			ItemName:        l.ItemName,
			VarianceName:    l.VarianceName,
			MeasurementType: string(l.MeasurementType),
			UOM:             l.UOM,
			Qty:             l.Qty,
			Weight:          l.Weight,
			Remarks:         l.Remarks,
		}
	}
	return out
}

// ToEntryResponse converts the domain entry
func ToEntryResponse(e *production.Entry) EntryResponse {
	return EntryResponse{
		ID:                    e.ID,
		ProductionEntryNumber: e.ProductionEntryNumber,
		WarehouseName:         e.WarehouseName,
		Type:                  e.Type,
		SaleOrderNo:           e.SaleOrderNo,
		CreatedBy:             e.CreatedBy,
		Date:                  e.Date,
		Items:                 toLines(e.Lines),
		CancelledItems:        toLines(e.CancelledLines),
		Status:                string(e.Status),
		Version:               e.Version,
	}
}

func measurement(raw string) valueobject.MeasurementType {
	if mt, ok := valueobject.ParseMeasurementType(raw); ok {
		return mt
	}
	return valueobject.MeasurementType(raw)
}

func pick(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func pickDecimal(values []decimal.Decimal, i int) decimal.Decimal {
	if i < len(values) {
		return values[i]
	}
	return decimal.Zero
}
