// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// of ORM concerns.
//
// Structure:
//   - base.go: BaseModel, AggregateModel and JSON column helpers
//   - registry.go: counters, warehouses, warehouse items, branches, branchwise items, employees
//   - documents.go: dispatches, item transfers, production entries
//   - sales.go: sale and held orders, invoices
//   - shift.go: shifts, day-ends, day-end validations
package models
