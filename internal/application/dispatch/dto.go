package dispatch

import (
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/dispatch"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDispatchRequest is the body of POST /dispatch. Lines travel as
// parallel arrays; a line is a count line when qty[i] > 0, otherwise a
// weight line.
type CreateDispatchRequest struct {
	Type          string            `json:"type" binding:"omitempty,oneof=FG SO fg so"`
	BranchName    string            `json:"branchName" binding:"required,max=200"`
	CreatedBy     string            `json:"createdBy" binding:"max=100"`
	DriverName    string            `json:"driverName" binding:"max=100"`
	VehicleNumber string            `json:"vehicleNumber" binding:"max=50"`
	Remarks       string            `json:"remarks" binding:"max=500"`
	SaleOrderNo   string            `json:"saleOrderNo" binding:"max=50"`
	ItemCode      []string          `json:"itemCode" binding:"required,min=1,dive,required"`
	VarianceName  []string          `json:"varianceName"`
	Qty           []decimal.Decimal `json:"qty"`
	Weight        []decimal.Decimal `json:"weight"`
}

// PatchDispatchRequest is the body of PATCH /dispatch/:id. A status of
// received or pending_approval records a receipt; the other fields merge.
type PatchDispatchRequest struct {
	Status          *string                 `json:"status"`
	ReceivedQty     []decimal.Decimal       `json:"receivedQty"`
	ReceivedWeight  []decimal.Decimal       `json:"receivedWeight"`
	ReceivedTime    *string                 `json:"receivedTime"`
	ReceivedBy      *string                 `json:"receivedBy" binding:"omitempty,max=100"`
	DriverName      *string                 `json:"driverName" binding:"omitempty,max=100"`
	DriverNumber    *string                 `json:"driverNumber" binding:"omitempty,max=50"`
	VehicleNumber   *string                 `json:"vehicleNumber" binding:"omitempty,max=50"`
	Remarks         *string                 `json:"remarks" binding:"omitempty,max=500"`
	ApprovalDetails []shared.ApprovalDetail `json:"approvalDetails"`
}

func (r PatchDispatchRequest) details() dispatch.Details {
	return dispatch.Details{
		DriverName:    r.DriverName,
		DriverNumber:  r.DriverNumber,
		VehicleNumber: r.VehicleNumber,
		Remarks:       r.Remarks,
	}
}

func (r PatchDispatchRequest) hasDetails() bool {
	return r.DriverName != nil || r.DriverNumber != nil || r.VehicleNumber != nil || r.Remarks != nil
}

// ListFilter is the query of GET /dispatch. Dates are DD-MM-YYYY local days.
type ListFilter struct {
	BranchName    string   `form:"branchName"`
	WarehouseName string   `form:"warehouseName"`
	Type          string   `form:"type"`
	Status        []string `form:"status"`
	FromDate      string   `form:"fromDate" binding:"omitempty,dmy"`
	ToDate        string   `form:"toDate" binding:"omitempty,dmy"`
	Search        string   `form:"search"`
	Page          int      `form:"page" binding:"omitempty,min=1"`
	PageSize      int      `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy       string   `form:"order_by"`
	OrderDir      string   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DispatchResponse is a dispatch on the wire, lines projected back into the
// parallel arrays clients send
type DispatchResponse struct {
	ID              uuid.UUID               `json:"id"`
	DispatchNo      string                  `json:"dispatchNo"`
	Type            string                  `json:"type"`
	BranchName      string                  `json:"branchName"`
	BranchAlias     string                  `json:"branchAlias"`
	WarehouseName   string                  `json:"warehouseName"`
	CreatedBy       string                  `json:"createdBy"`
	ReceivedBy      string                  `json:"receivedBy,omitempty"`
	DriverName      string                  `json:"driverName"`
	DriverNumber    string                  `json:"driverNumber"`
	VehicleNumber   string                  `json:"vehicleNumber"`
	Remarks         string                  `json:"remarks"`
	SaleOrderNo     string                  `json:"saleOrderNo,omitempty"`
	ItemCode        []string                `json:"itemCode"`
	VarianceName    []string                `json:"varianceName"`
	Qty             []decimal.Decimal       `json:"qty"`
	Weight          []decimal.Decimal       `json:"weight"`
	ReceivedQty     []decimal.Decimal       `json:"receivedQty"`
	ReceivedWeight  []decimal.Decimal       `json:"receivedWeight"`
	Status          string                  `json:"status"`
	Date            time.Time               `json:"date"`
	ReceivedTime    *time.Time              `json:"receivedTime,omitempty"`
	ApprovalDetails []shared.ApprovalDetail `json:"approvalDetails"`
	Version         int                     `json:"version"`
}

// ToDispatchResponse converts the domain dispatch
func ToDispatchResponse(d *dispatch.Dispatch) DispatchResponse {
	codes := make([]string, len(d.Lines))
	names := make([]string, len(d.Lines))
	for i, l := range d.Lines {
		codes[i] = l.ItemCode
		names[i] = l.VarianceName
	}
	qty, weight := valueobject.Split(d.SentQuantities())
	rqty, rweight := valueobject.Split(d.ReceivedQuantities())
	approvals := []shared.ApprovalDetail(d.ApprovalDetails)
	if approvals == nil {
		approvals = []shared.ApprovalDetail{}
	}
	return DispatchResponse{
		ID:              d.ID,
		DispatchNo:      d.DispatchNo,
		Type:            string(d.Type),
		BranchName:      d.BranchName,
		BranchAlias:     d.BranchAlias,
		WarehouseName:   d.WarehouseName,
		CreatedBy:       d.CreatedBy,
		ReceivedBy:      d.ReceivedBy,
		DriverName:      d.DriverName,
		DriverNumber:    d.DriverNumber,
		VehicleNumber:   d.VehicleNumber,
		Remarks:         d.Remarks,
		SaleOrderNo:     d.SaleOrderNo,
		ItemCode:        codes,
		VarianceName:    names,
		Qty:             qty,
		Weight:          weight,
		ReceivedQty:     rqty,
		ReceivedWeight:  rweight,
		Status:          string(d.Status),
		Date:            d.Date,
		ReceivedTime:    d.ReceivedTime,
		ApprovalDetails: approvals,
		Version:         d.Version,
	}
}
