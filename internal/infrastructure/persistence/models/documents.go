package models

import (
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/dispatch"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/production"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/transfer"
	"github.com/shopspring/decimal"
)

// dispatchLineRecord is the stored shape of one dispatch line
type dispatchLineRecord struct {
	ItemCode     string          `json:"itemCode"`
	VarianceName string          `json:"varianceName"`
	SentKind     string          `json:"sentKind"`
	Sent         decimal.Decimal `json:"sent"`
	ReceivedKind string          `json:"receivedKind"`
	Received     decimal.Decimal `json:"received"`
}

// DispatchModel is the persistence model for the Dispatch aggregate
type DispatchModel struct {
	AggregateModel
	DispatchNo          string     `gorm:"type:varchar(32);uniqueIndex"`
	Type                string     `gorm:"type:varchar(8);not null;default:'FG'"`
	BranchName          string     `gorm:"type:varchar(200);not null"`
	BranchKey           string     `gorm:"type:varchar(200);not null;index"`
	BranchAlias         string     `gorm:"type:varchar(16)"`
	WarehouseName       string     `gorm:"type:varchar(200);not null;index"`
	CreatedBy           string     `gorm:"type:varchar(100)"`
	ReceivedBy          string     `gorm:"type:varchar(100)"`
	DriverName          string     `gorm:"type:varchar(100)"`
	DriverNumber        string     `gorm:"type:varchar(32)"`
	VehicleNumber       string     `gorm:"type:varchar(32)"`
	Remarks             string     `gorm:"type:text"`
	SaleOrderNo         string     `gorm:"type:varchar(32);index"`
	Status              string     `gorm:"type:varchar(32);not null;index"`
	Date                time.Time  `gorm:"not null;index"`
	ReceivedTime        *time.Time ``
	LinesJSON           string     `gorm:"column:lines;type:text;default:'[]'"`
	ApprovalDetailsJSON string     `gorm:"column:approval_details;type:text;default:'[]'"`
}

// TableName returns the table name for GORM
func (DispatchModel) TableName() string {
	return "dispatches"
}

// ToDomain converts the persistence model to a domain Dispatch
func (m *DispatchModel) ToDomain() *dispatch.Dispatch {
	d := &dispatch.Dispatch{
		BaseAggregateRoot: m.ToAggregateRoot(),
		DispatchNo:        m.DispatchNo,
		Type:              dispatch.Type(m.Type),
		BranchName:        m.BranchName,
		BranchAlias:       m.BranchAlias,
		WarehouseName:     m.WarehouseName,
		CreatedBy:         m.CreatedBy,
		ReceivedBy:        m.ReceivedBy,
		DriverName:        m.DriverName,
		DriverNumber:      m.DriverNumber,
		VehicleNumber:     m.VehicleNumber,
		Remarks:           m.Remarks,
		SaleOrderNo:       m.SaleOrderNo,
		Status:            dispatch.Status(m.Status),
		Date:              m.Date.UTC(),
		ReceivedTime:      utcPtr(m.ReceivedTime),
		ApprovalDetails:   shared.ApprovalLog{},
	}
	var records []dispatchLineRecord
	decodeJSON(m.LinesJSON, "lines", m.ID, &records)
	d.Lines = make([]dispatch.Line, len(records))
	for i, r := range records {
		d.Lines[i] = dispatch.Line{
			ItemCode:     r.ItemCode,
			VarianceName: r.VarianceName,
			Sent:         valueobject.Of(valueobject.MeasurementType(r.SentKind), r.Sent),
			Received:     valueobject.Of(valueobject.MeasurementType(r.ReceivedKind), r.Received),
		}
	}
	decodeJSON(m.ApprovalDetailsJSON, "approval_details", m.ID, &d.ApprovalDetails)
	return d
}

// FromDomain populates the persistence model from a domain Dispatch
func (m *DispatchModel) FromDomain(d *dispatch.Dispatch) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.DispatchNo = d.DispatchNo
	m.Type = string(d.Type)
	m.BranchName = d.BranchName
	m.BranchKey = foldKey(d.BranchName)
	m.BranchAlias = d.BranchAlias
	m.WarehouseName = d.WarehouseName
	m.CreatedBy = d.CreatedBy
	m.ReceivedBy = d.ReceivedBy
	m.DriverName = d.DriverName
	m.DriverNumber = d.DriverNumber
	m.VehicleNumber = d.VehicleNumber
	m.Remarks = d.Remarks
	m.SaleOrderNo = d.SaleOrderNo
	m.Status = string(d.Status)
	m.Date = d.Date.UTC()
	m.ReceivedTime = utcPtr(d.ReceivedTime)

	records := make([]dispatchLineRecord, len(d.Lines))
	for i, l := range d.Lines {
		records[i] = dispatchLineRecord{
			ItemCode:     l.ItemCode,
			VarianceName: l.VarianceName,
			SentKind:     string(l.Sent.Kind()),
			Sent:         l.Sent.Amount(),
			ReceivedKind: string(l.Received.Kind()),
			Received:     l.Received.Amount(),
		}
	}
	m.LinesJSON = encodeJSON(records, "[]")
	m.ApprovalDetailsJSON = encodeApprovals(d.ApprovalDetails)
}

func encodeApprovals(log shared.ApprovalLog) string {
	if log == nil {
		log = shared.ApprovalLog{}
	}
	return encodeJSON(log, "[]")
}

// ItemTransferModel is the persistence model for the ItemTransfer aggregate
type ItemTransferModel struct {
	AggregateModel
	TransferNo      string     `gorm:"type:varchar(32);uniqueIndex"`
	FromBranch      string     `gorm:"type:varchar(200);not null"`
	FromBranchKey   string     `gorm:"type:varchar(200);not null;index"`
	ToBranch        string     `gorm:"type:varchar(200);not null"`
	ToBranchKey     string     `gorm:"type:varchar(200);not null;index"`
	RequestedBy     string     `gorm:"type:varchar(100)"`
	Remarks         string     `gorm:"type:text"`
	Status          string     `gorm:"type:varchar(16);not null;index"`
	RequestDateTime time.Time  `gorm:"not null;index"`
	SentDateTime    *time.Time ``
	ReceiveDateTime *time.Time ``
	RejectDateTime  *time.Time ``
	LinesJSON       string     `gorm:"column:lines;type:text;default:'[]'"`
}

// TableName returns the table name for GORM
func (ItemTransferModel) TableName() string {
	return "item_transfers"
}

// ToDomain converts the persistence model to a domain ItemTransfer
func (m *ItemTransferModel) ToDomain() *transfer.ItemTransfer {
	t := &transfer.ItemTransfer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		TransferNo:        m.TransferNo,
		FromBranch:        m.FromBranch,
		ToBranch:          m.ToBranch,
		RequestedBy:       m.RequestedBy,
		Remarks:           m.Remarks,
		Status:            transfer.Status(m.Status),
		RequestDateTime:   m.RequestDateTime.UTC(),
		SentDateTime:      utcPtr(m.SentDateTime),
		ReceiveDateTime:   utcPtr(m.ReceiveDateTime),
		RejectDateTime:    utcPtr(m.RejectDateTime),
		Lines:             make([]transfer.Line, 0),
	}
	decodeJSON(m.LinesJSON, "lines", m.ID, &t.Lines)
	return t
}

// FromDomain populates the persistence model from a domain ItemTransfer
func (m *ItemTransferModel) FromDomain(t *transfer.ItemTransfer) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.TransferNo = t.TransferNo
	m.FromBranch = t.FromBranch
	m.FromBranchKey = foldKey(t.FromBranch)
	m.ToBranch = t.ToBranch
	m.ToBranchKey = foldKey(t.ToBranch)
	m.RequestedBy = t.RequestedBy
	m.Remarks = t.Remarks
	m.Status = string(t.Status)
	m.RequestDateTime = t.RequestDateTime.UTC()
	m.SentDateTime = utcPtr(t.SentDateTime)
	m.ReceiveDateTime = utcPtr(t.ReceiveDateTime)
	m.RejectDateTime = utcPtr(t.RejectDateTime)
	lines := t.Lines
	if lines == nil {
		lines = []transfer.Line{}
	}
	m.LinesJSON = encodeJSON(lines, "[]")
}

// ProductionEntryModel is the persistence model for production entries
type ProductionEntryModel struct {
	AggregateModel
	ProductionEntryNumber string    `gorm:"type:varchar(32);uniqueIndex"`
	WarehouseName         string    `gorm:"type:varchar(200);not null;index"`
	Type                  string    `gorm:"type:varchar(32)"`
	SaleOrderNo           string    `gorm:"type:varchar(32);index"`
	CreatedBy             string    `gorm:"type:varchar(100)"`
	Date                  time.Time `gorm:"not null;index"`
	Status                string    `gorm:"type:varchar(16);not null;index"`
	LinesJSON             string    `gorm:"column:lines;type:text;default:'[]'"`
	CancelledLinesJSON    string    `gorm:"column:cancelled_lines;type:text;default:'[]'"`
}

// TableName returns the table name for GORM
func (ProductionEntryModel) TableName() string {
	return "production_entries"
}

// ToDomain converts the persistence model to a domain production Entry
func (m *ProductionEntryModel) ToDomain() *production.Entry {
	e := &production.Entry{
		BaseAggregateRoot:     m.ToAggregateRoot(),
		ProductionEntryNumber: m.ProductionEntryNumber,
		WarehouseName:         m.WarehouseName,
		Type:                  m.Type,
		SaleOrderNo:           m.SaleOrderNo,
		CreatedBy:             m.CreatedBy,
		Date:                  m.Date.UTC(),
		Status:                production.Status(m.Status),
		Lines:                 make([]production.Line, 0),
		CancelledLines:        make([]production.Line, 0),
	}
	decodeJSON(m.LinesJSON, "lines", m.ID, &e.Lines)
	decodeJSON(m.CancelledLinesJSON, "cancelled_lines", m.ID, &e.CancelledLines)
	return e
}

// FromDomain populates the persistence model from a domain production Entry
func (m *ProductionEntryModel) FromDomain(e *production.Entry) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.ProductionEntryNumber = e.ProductionEntryNumber
	m.WarehouseName = e.WarehouseName
	m.Type = e.Type
	m.SaleOrderNo = e.SaleOrderNo
	m.CreatedBy = e.CreatedBy
	m.Date = e.Date.UTC()
	m.Status = string(e.Status)
	lines, cancelled := e.Lines, e.CancelledLines
	if lines == nil {
		lines = []production.Line{}
	}
	if cancelled == nil {
		cancelled = []production.Line{}
	}
	m.LinesJSON = encodeJSON(lines, "[]")
	m.CancelledLinesJSON = encodeJSON(cancelled, "[]")
}
