package dispatch

import (
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
)

// AggregateTypeDispatch is the aggregate type name carried on events
const AggregateTypeDispatch = "Dispatch"

// Event type constants
const (
	EventTypeDispatchCreated   = "dispatch_created"
	EventTypeDispatchReceived  = "dispatch_received"
	EventTypeDispatchCancelled = "dispatch_cancelled"
)

// DispatchEvent carries what subscribers need to describe a dispatch change
type DispatchEvent struct {
	shared.BaseDomainEvent
	DispatchNo    string `json:"dispatch_no"`
	Type          Type   `json:"dispatch_type"`
	BranchName    string `json:"branch"`
	BranchAlias   string `json:"branch_alias"`
	WarehouseName string `json:"warehouse_name"`
	Status        Status `json:"status"`
}

func newDispatchEvent(eventType string, d *Dispatch) *DispatchEvent {
	return &DispatchEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeDispatch, d.ID),
		DispatchNo:      d.DispatchNo,
		Type:            d.Type,
		BranchName:      d.BranchName,
		BranchAlias:     d.BranchAlias,
		WarehouseName:   d.WarehouseName,
		Status:          d.Status,
	}
}

// NewDispatchCreatedEvent creates a dispatch_created event
func NewDispatchCreatedEvent(d *Dispatch) *DispatchEvent {
	return newDispatchEvent(EventTypeDispatchCreated, d)
}

// NewDispatchReceivedEvent creates a dispatch_received event
func NewDispatchReceivedEvent(d *Dispatch) *DispatchEvent {
	return newDispatchEvent(EventTypeDispatchReceived, d)
}

// NewDispatchCancelledEvent creates a dispatch_cancelled event
func NewDispatchCancelledEvent(d *Dispatch) *DispatchEvent {
	return newDispatchEvent(EventTypeDispatchCancelled, d)
}
