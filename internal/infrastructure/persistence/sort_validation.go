package persistence

import (
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// WarehouseItemSortFields contains allowed sort fields for warehouse items
var WarehouseItemSortFields = withCommon("variance_item_code", "variance_name", "item_name", "category")

// RegistrySortFields contains allowed sort fields for branches, warehouses and employees
var RegistrySortFields = withCommon("branch_name", "warehouse_name", "warehouse_id", "first_name", "alias", "variance_name")

// DocumentSortFields contains allowed sort fields for dispatches, transfers and production entries
var DocumentSortFields = withCommon("date", "status", "dispatch_no", "transfer_no", "request_date_time",
	"production_entry_number", "branch_name", "warehouse_name")

// SalesSortFields contains allowed sort fields for orders, invoices and shifts
var SalesSortFields = withCommon("order_date", "sale_order_no", "status", "date", "invoice_no",
	"shift_number", "opening_date_time", "branch_name", "total_amount")

func withCommon(fields ...string) map[string]bool {
	out := make(map[string]bool, len(CommonSortFields)+len(fields))
	for k := range CommonSortFields {
		out[k] = true
	}
	for _, f := range fields {
		out[f] = true
	}
	return out
}

// applyPage orders and paginates a query. A zero page size returns every row.
func applyPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}
	return query
}

// applyRange bounds column by a half-open date range
func applyRange(query *gorm.DB, column string, r shared.DateRange) *gorm.DB {
	if !r.From.IsZero() {
		query = query.Where(column+" >= ?", r.From.UTC())
	}
	if !r.To.IsZero() {
		query = query.Where(column+" < ?", r.To.UTC())
	}
	return query
}

// searchPattern lower-cases a free-text search into a LIKE pattern
func searchPattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
