package models

import (
	"encoding/json"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt.UTC()
	m.UpdatedAt = e.UpdatedAt.UTC()
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToAggregateRoot rebuilds the domain aggregate header
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

// encodeJSON renders v for a text JSON column, falling back to fallback on error
func encodeJSON(v any, fallback string) string {
	b, err := json.Marshal(v)
	if err != nil {
		zap.L().Named("persistence.models").Warn("failed to encode JSON column", zap.Error(err))
		return fallback
	}
	return string(b)
}

// decodeJSON parses a text JSON column into dst. Empty columns leave dst untouched
// and parse failures are logged, not returned.
func decodeJSON(raw, column string, id uuid.UUID, dst any) {
	if raw == "" || raw == "null" {
		return
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		zap.L().Named("persistence.models").Warn("failed to parse JSON column",
			zap.String("column", column),
			zap.String("id", id.String()),
			zap.String("raw_json", raw),
			zap.Error(err))
	}
}

// foldKey is the stored lookup key for a branch or warehouse name
func foldKey(name string) string {
	return registry.FoldName(name)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// All returns every model owned by the service, in migration order
func All() []any {
	return []any{
		&CounterModel{},
		&WarehouseModel{},
		&WarehouseItemModel{},
		&BranchModel{},
		&BranchwiseItemModel{},
		&EmployeeModel{},
		&DispatchModel{},
		&ItemTransferModel{},
		&ProductionEntryModel{},
		&SaleOrderModel{},
		&InvoiceModel{},
		&ShiftModel{},
		&DayEndModel{},
		&DayEndValidationModel{},
	}
}
