package transfer

import (
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTransferRequest is the body of POST /itemtransfer. Lines travel as
// parallel arrays indexed alike.
type CreateTransferRequest struct {
	FromBranch   string            `json:"fromBranch" binding:"required,max=200"`
	ToBranch     string            `json:"toBranch" binding:"required,max=200"`
	RequestedBy  string            `json:"requestedBy" binding:"max=100"`
	Remarks      string            `json:"remarks" binding:"max=500"`
	ItemCode     []string          `json:"itemCode"`
	ItemName     []string          `json:"itemName" binding:"required,min=1"`
	VarianceName []string          `json:"varianceName"`
	UOM          []string          `json:"uom"`
	Price        []decimal.Decimal `json:"price"`
	ReqQty       []decimal.Decimal `json:"reqQty"`
}

func (r CreateTransferRequest) lines() []transfer.Line {
	lines := make([]transfer.Line, len(r.ItemName))
	for i := range r.ItemName {
		lines[i] = transfer.Line{
			ItemCode:     pick(r.ItemCode, i),
			ItemName:     pick(r.ItemName, i),
			VarianceName: pick(r.VarianceName, i),
			UOM:          pick(r.UOM, i),
			Price:        pickDecimal(r.Price, i),
			ReqQty:       pickDecimal(r.ReqQty, i),
		}
	}
	return lines
}

// TransitionRequest is the body of PATCH /itemtransfer/:id
type TransitionRequest struct {
	Status      string            `json:"status" binding:"required"`
	SendQty     []decimal.Decimal `json:"sendQty"`
	ReceivedQty []decimal.Decimal `json:"receivedQty"`
	Remarks     string            `json:"remarks" binding:"max=500"`
}

// ListFilter is the query of GET /itemtransfer
type ListFilter struct {
	Status     []string `form:"status"`
	FromBranch string   `form:"fromBranch"`
	ToBranch   string   `form:"toBranch"`
	Branch     string   `form:"branch"`
	Days       int      `form:"days" binding:"omitempty,min=1,max=366"`
	Search     string   `form:"search"`
	Page       int      `form:"page" binding:"omitempty,min=1"`
	PageSize   int      `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy    string   `form:"order_by"`
	OrderDir   string   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TransferResponse is an item transfer on the wire
type TransferResponse struct {
	ID              uuid.UUID         `json:"id"`
	TransferNo      string            `json:"transferNo"`
	FromBranch      string            `json:"fromBranch"`
	ToBranch        string            `json:"toBranch"`
	RequestedBy     string            `json:"requestedBy"`
	Remarks         string            `json:"remarks"`
	ItemCode        []string          `json:"itemCode"`
	ItemName        []string          `json:"itemName"`
	VarianceName    []string          `json:"varianceName"`
	UOM             []string          `json:"uom"`
	Price           []decimal.Decimal `json:"price"`
	ReqQty          []decimal.Decimal `json:"reqQty"`
	SendQty         []decimal.Decimal `json:"sendQty"`
	ReceivedQty     []decimal.Decimal `json:"receivedQty"`
	Status          string            `json:"status"`
	RequestDateTime time.Time         `json:"requestDateTime"`
	SentDateTime    *time.Time        `json:"sentDateTime,omitempty"`
	ReceiveDateTime *time.Time        `json:"receiveDateTime,omitempty"`
	RejectDateTime  *time.Time        `json:"rejectDateTime,omitempty"`
	Version         int               `json:"version"`
}

// ToTransferResponse converts the domain transfer
func ToTransferResponse(t *transfer.ItemTransfer) TransferResponse {
	n := len(t.Lines)
	r := TransferResponse{
		ID:              t.ID,
		TransferNo:      t.TransferNo,
		FromBranch:      t.FromBranch,
		ToBranch:        t.ToBranch,
		RequestedBy:     t.RequestedBy,
		Remarks:         t.Remarks,
		ItemCode:        make([]string, n),
		ItemName:        make([]string, n),
		VarianceName:    make([]string, n),
		UOM:             make([]string, n),
		Price:           make([]decimal.Decimal, n),
		ReqQty:          make([]decimal.Decimal, n),
		SendQty:         make([]decimal.Decimal, n),
		ReceivedQty:     make([]decimal.Decimal, n),
		Status:          string(t.Status),
		RequestDateTime: t.RequestDateTime,
		SentDateTime:    t.SentDateTime,
		ReceiveDateTime: t.ReceiveDateTime,
		RejectDateTime:  t.RejectDateTime,
		Version:         t.Version,
	}
	for i, l := range t.Lines {
		r.ItemCode[i] = l.ItemCode
		r.ItemName[i] = l.ItemName
		r.VarianceName[i] = l.VarianceName
		r.UOM[i] = l.UOM
		r.Price[i] = l.Price
		r.ReqQty[i] = l.ReqQty
		r.SendQty[i] = l.SendQty
		r.ReceivedQty[i] = l.ReceivedQty
	}
	return r
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
