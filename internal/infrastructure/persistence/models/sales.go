package models

import (
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleOrderModel stores sale orders and held orders in one table, split by kind
type SaleOrderModel struct {
	AggregateModel
	Kind                string          `gorm:"type:varchar(16);not null;index"`
	SaleOrderNo         string          `gorm:"type:varchar(32);index"`
	BranchName          string          `gorm:"type:varchar(200);not null"`
	BranchKey           string          `gorm:"type:varchar(200);not null;index"`
	BranchAlias         string          `gorm:"type:varchar(16)"`
	CustomerName        string          `gorm:"type:varchar(200)"`
	CustomerPhone       string          `gorm:"type:varchar(32)"`
	CustomerAddress     string          `gorm:"type:text"`
	DeliveryDate        *time.Time      ``
	Remarks             string          `gorm:"type:text"`
	CreatedBy           string          `gorm:"type:varchar(100)"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status              string          `gorm:"type:varchar(32);not null;index"`
	LastApprovalStatus  string          `gorm:"type:varchar(32);index"`
	OrderDate           time.Time       `gorm:"not null;index"`
	ShiftIDsJSON        string          `gorm:"column:shift_ids;type:text;default:'[]'"`
	LinesJSON           string          `gorm:"column:lines;type:text;default:'[]'"`
	AdvancesJSON        string          `gorm:"column:advances;type:text;default:'[]'"`
	ApprovalDetailsJSON string          `gorm:"column:approval_details;type:text;default:'[]'"`
}

// TableName returns the table name for GORM
func (SaleOrderModel) TableName() string {
	return "sale_orders"
}

// ToDomain converts the persistence model to a domain SaleOrder
func (m *SaleOrderModel) ToDomain() *sales.SaleOrder {
	o := &sales.SaleOrder{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Kind:              sales.Kind(m.Kind),
		SaleOrderNo:       m.SaleOrderNo,
		BranchName:        m.BranchName,
		BranchAlias:       m.BranchAlias,
		CustomerName:      m.CustomerName,
		CustomerPhone:     m.CustomerPhone,
		CustomerAddress:   m.CustomerAddress,
		DeliveryDate:      utcPtr(m.DeliveryDate),
		Remarks:           m.Remarks,
		CreatedBy:         m.CreatedBy,
		TotalAmount:       m.TotalAmount,
		Status:            sales.Status(m.Status),
		OrderDate:         m.OrderDate.UTC(),
		Lines:             make([]sales.OrderLine, 0),
		Advances:          make([]sales.AdvancePayment, 0),
		ApprovalDetails:   shared.ApprovalLog{},
	}
	decodeJSON(m.LinesJSON, "lines", m.ID, &o.Lines)
	decodeJSON(m.AdvancesJSON, "advances", m.ID, &o.Advances)
	decodeJSON(m.ApprovalDetailsJSON, "approval_details", m.ID, &o.ApprovalDetails)
	return o
}

// FromDomain populates the persistence model from a domain SaleOrder
func (m *SaleOrderModel) FromDomain(o *sales.SaleOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Kind = string(o.Kind)
	m.SaleOrderNo = o.SaleOrderNo
	m.BranchName = o.BranchName
	m.BranchKey = foldKey(o.BranchName)
	m.BranchAlias = o.BranchAlias
	m.CustomerName = o.CustomerName
	m.CustomerPhone = o.CustomerPhone
	m.CustomerAddress = o.CustomerAddress
	m.DeliveryDate = utcPtr(o.DeliveryDate)
	m.Remarks = o.Remarks
	m.CreatedBy = o.CreatedBy
	m.TotalAmount = o.TotalAmount
	m.Status = string(o.Status)
	m.LastApprovalStatus = o.LastApprovalStatus()
	m.OrderDate = o.OrderDate.UTC()

	lines, advances := o.Lines, o.Advances
	if lines == nil {
		lines = []sales.OrderLine{}
	}
	if advances == nil {
		advances = []sales.AdvancePayment{}
	}
	m.ShiftIDsJSON = encodeJSON(o.ShiftIDs(), "[]")
	m.LinesJSON = encodeJSON(lines, "[]")
	m.AdvancesJSON = encodeJSON(advances, "[]")
	m.ApprovalDetailsJSON = encodeApprovals(o.ApprovalDetails)
}

// ShiftIDPattern is the LIKE pattern matching orders holding an advance in shiftID
func ShiftIDPattern(shiftID string) string {
	return `%"` + shiftID + `"%`
}

// InvoiceModel is the persistence model for invoices
type InvoiceModel struct {
	AggregateModel
	InvoiceNo        string          `gorm:"type:varchar(32);uniqueIndex"`
	BranchName       string          `gorm:"type:varchar(200);not null"`
	BranchKey        string          `gorm:"type:varchar(200);not null;index"`
	ShiftID          string          `gorm:"type:varchar(64);index"`
	SalesType        string          `gorm:"type:varchar(32)"`
	PaymentTypesJSON string          `gorm:"column:payment_types;type:text;default:'[]'"`
	Cash             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Card             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UPI              decimal.Decimal `gorm:"column:upi;type:decimal(18,4);not null;default:0"`
	Others           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SaleOrderNo      string          `gorm:"type:varchar(32);index"`
	CustomerName     string          `gorm:"type:varchar(200)"`
	Date             time.Time       `gorm:"not null;index"`
	LinesJSON        string          `gorm:"column:lines;type:text;default:'[]'"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *sales.Invoice {
	inv := &sales.Invoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		InvoiceNo:         m.InvoiceNo,
		BranchName:        m.BranchName,
		ShiftID:           m.ShiftID,
		SalesType:         m.SalesType,
		PaymentTypes:      make([]string, 0),
		Cash:              m.Cash,
		Card:              m.Card,
		UPI:               m.UPI,
		Others:            m.Others,
		TotalAmount:       m.TotalAmount,
		SaleOrderNo:       m.SaleOrderNo,
		CustomerName:      m.CustomerName,
		Date:              m.Date.UTC(),
		Lines:             make([]sales.OrderLine, 0),
	}
	decodeJSON(m.PaymentTypesJSON, "payment_types", m.ID, &inv.PaymentTypes)
	decodeJSON(m.LinesJSON, "lines", m.ID, &inv.Lines)
	return inv
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *sales.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNo = inv.InvoiceNo
	m.BranchName = inv.BranchName
	m.BranchKey = foldKey(inv.BranchName)
	m.ShiftID = inv.ShiftID
	m.SalesType = inv.SalesType
	m.Cash = inv.Cash
	m.Card = inv.Card
	m.UPI = inv.UPI
	m.Others = inv.Others
	m.TotalAmount = inv.TotalAmount
	m.SaleOrderNo = inv.SaleOrderNo
	m.CustomerName = inv.CustomerName
	m.Date = inv.Date.UTC()
	payments, lines := inv.PaymentTypes, inv.Lines
	if payments == nil {
		payments = []string{}
	}
	if lines == nil {
		lines = []sales.OrderLine{}
	}
	m.PaymentTypesJSON = encodeJSON(payments, "[]")
	m.LinesJSON = encodeJSON(lines, "[]")
}
