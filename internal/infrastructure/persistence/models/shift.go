package models

import (
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shift"
	"github.com/shopspring/decimal"
)

// ShiftModel is the persistence model for the Shift aggregate
type ShiftModel struct {
	AggregateModel
	BranchName      string          `gorm:"type:varchar(200);not null"`
	BranchKey       string          `gorm:"type:varchar(200);not null;index:idx_shift_branch_date"`
	ShiftNumber     int             `gorm:"not null"`
	LocalDate       string          `gorm:"type:varchar(10);not null;index:idx_shift_branch_date"`
	OpenedBy        string          `gorm:"type:varchar(100)"`
	ClosedBy        string          `gorm:"type:varchar(100)"`
	OpeningDateTime time.Time       `gorm:"not null"`
	ClosingDateTime *time.Time      ``
	OpeningBalance  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ClosingBalance  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalDifference decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DifferenceType  string          `gorm:"type:varchar(16)"`
	Status          string          `gorm:"type:varchar(16);not null;index"`
	DayEndStatus    string          `gorm:"type:varchar(16);not null;index"`
	SystemJSON      string          `gorm:"column:system_totals;type:text;default:'{}'"`
	ManualJSON      string          `gorm:"column:manual_totals;type:text;default:'{}'"`
	DifferencesJSON string          `gorm:"column:differences;type:text;default:'{}'"`
}

// TableName returns the table name for GORM
func (ShiftModel) TableName() string {
	return "shifts"
}

// ToDomain converts the persistence model to a domain Shift
func (m *ShiftModel) ToDomain() *shift.Shift {
	s := &shift.Shift{
		BaseAggregateRoot: m.ToAggregateRoot(),
		BranchName:        m.BranchName,
		ShiftNumber:       m.ShiftNumber,
		LocalDate:         m.LocalDate,
		OpenedBy:          m.OpenedBy,
		ClosedBy:          m.ClosedBy,
		OpeningDateTime:   m.OpeningDateTime.UTC(),
		ClosingDateTime:   utcPtr(m.ClosingDateTime),
		OpeningBalance:    m.OpeningBalance,
		ClosingBalance:    m.ClosingBalance,
		TotalDifference:   m.TotalDifference,
		DifferenceType:    m.DifferenceType,
		Status:            shift.Status(m.Status),
		DayEndStatus:      shift.Status(m.DayEndStatus),
		System:            shift.ZeroSystemTotals(),
		Manual:            shift.ZeroModeTotals(),
		Differences:       shift.ZeroModeTotals(),
	}
	decodeJSON(m.SystemJSON, "system_totals", m.ID, &s.System)
	decodeJSON(m.ManualJSON, "manual_totals", m.ID, &s.Manual)
	decodeJSON(m.DifferencesJSON, "differences", m.ID, &s.Differences)
	return s
}

// FromDomain populates the persistence model from a domain Shift
func (m *ShiftModel) FromDomain(s *shift.Shift) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.BranchName = s.BranchName
	m.BranchKey = foldKey(s.BranchName)
	m.ShiftNumber = s.ShiftNumber
	m.LocalDate = s.LocalDate
	m.OpenedBy = s.OpenedBy
	m.ClosedBy = s.ClosedBy
	m.OpeningDateTime = s.OpeningDateTime.UTC()
	m.ClosingDateTime = utcPtr(s.ClosingDateTime)
	m.OpeningBalance = s.OpeningBalance
	m.ClosingBalance = s.ClosingBalance
	m.TotalDifference = s.TotalDifference
	m.DifferenceType = s.DifferenceType
	m.Status = string(s.Status)
	m.DayEndStatus = string(s.DayEndStatus)
	m.SystemJSON = encodeJSON(s.System, "{}")
	m.ManualJSON = encodeJSON(s.Manual, "{}")
	m.DifferencesJSON = encodeJSON(s.Differences, "{}")
}

// DayEndModel is the persistence model for day-end snapshots
type DayEndModel struct {
	BaseModel
	BranchName      string          `gorm:"type:varchar(200);not null"`
	BranchKey       string          `gorm:"type:varchar(200);not null;index"`
	LocalDate       string          `gorm:"type:varchar(10);not null;index"`
	OpeningDateTime time.Time       `gorm:"not null"`
	ClosingDateTime time.Time       `gorm:"not null"`
	TotalDifference decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DifferenceType  string          `gorm:"type:varchar(16)"`
	ShiftIDsJSON    string          `gorm:"column:shift_ids;type:text;default:'[]'"`
	SystemJSON      string          `gorm:"column:system_totals;type:text;default:'{}'"`
	ManualJSON      string          `gorm:"column:manual_totals;type:text;default:'{}'"`
	DifferencesJSON string          `gorm:"column:differences;type:text;default:'{}'"`
}

// TableName returns the table name for GORM
func (DayEndModel) TableName() string {
	return "day_ends"
}

// ToDomain converts the persistence model to a domain DayEnd
func (m *DayEndModel) ToDomain() *shift.DayEnd {
	d := &shift.DayEnd{
		BaseEntity:      m.BaseModel.ToDomain(),
		BranchName:      m.BranchName,
		LocalDate:       m.LocalDate,
		OpeningDateTime: m.OpeningDateTime.UTC(),
		ClosingDateTime: m.ClosingDateTime.UTC(),
		TotalDifference: m.TotalDifference,
		DifferenceType:  m.DifferenceType,
		ShiftIDs:        make([]string, 0),
		System:          shift.ZeroSystemTotals(),
		Manual:          shift.ZeroModeTotals(),
		Differences:     shift.ZeroModeTotals(),
	}
	decodeJSON(m.ShiftIDsJSON, "shift_ids", m.ID, &d.ShiftIDs)
	decodeJSON(m.SystemJSON, "system_totals", m.ID, &d.System)
	decodeJSON(m.ManualJSON, "manual_totals", m.ID, &d.Manual)
	decodeJSON(m.DifferencesJSON, "differences", m.ID, &d.Differences)
	return d
}

// FromDomain populates the persistence model from a domain DayEnd
func (m *DayEndModel) FromDomain(d *shift.DayEnd) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.BranchName = d.BranchName
	m.BranchKey = foldKey(d.BranchName)
	m.LocalDate = d.LocalDate
	m.OpeningDateTime = d.OpeningDateTime.UTC()
	m.ClosingDateTime = d.ClosingDateTime.UTC()
	m.TotalDifference = d.TotalDifference
	m.DifferenceType = d.DifferenceType
	ids := d.ShiftIDs
	if ids == nil {
		ids = []string{}
	}
	m.ShiftIDsJSON = encodeJSON(ids, "[]")
	m.SystemJSON = encodeJSON(d.System, "{}")
	m.ManualJSON = encodeJSON(d.Manual, "{}")
	m.DifferencesJSON = encodeJSON(d.Differences, "{}")
}

// DayEndValidationModel is the persistence model for pre-day-end checklists
type DayEndValidationModel struct {
	BaseModel
	BranchName      string `gorm:"type:varchar(200);not null"`
	BranchKey       string `gorm:"type:varchar(200);not null;index"`
	LocalDate       string `gorm:"type:varchar(10);not null;index"`
	Passed          bool   `gorm:"not null;default:false"`
	CategoriesJSON  string `gorm:"column:categories;type:text;default:'{}'"`
	ShiftStatusJSON string `gorm:"column:shift_status;type:text;default:'{}'"`
}

// TableName returns the table name for GORM
func (DayEndValidationModel) TableName() string {
	return "day_end_validations"
}

// ToDomain converts the persistence model to a domain DayEndValidation
func (m *DayEndValidationModel) ToDomain() *shift.DayEndValidation {
	v := &shift.DayEndValidation{
		BaseEntity: m.BaseModel.ToDomain(),
		BranchName: m.BranchName,
		LocalDate:  m.LocalDate,
		Categories: make(map[string]shift.CategoryResult),
	}
	decodeJSON(m.CategoriesJSON, "categories", m.ID, &v.Categories)
	decodeJSON(m.ShiftStatusJSON, "shift_status", m.ID, &v.ShiftStatus)
	return v
}

// FromDomain populates the persistence model from a domain DayEndValidation
func (m *DayEndValidationModel) FromDomain(v *shift.DayEndValidation) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.BranchName = v.BranchName
	m.BranchKey = foldKey(v.BranchName)
	m.LocalDate = v.LocalDate
	m.Passed = v.Passed()
	cats := v.Categories
	if cats == nil {
		cats = map[string]shift.CategoryResult{}
	}
	m.CategoriesJSON = encodeJSON(cats, "{}")
	m.ShiftStatusJSON = encodeJSON(v.ShiftStatus, "{}")
}
