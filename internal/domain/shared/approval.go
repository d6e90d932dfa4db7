package shared

import (
	"time"

	"github.com/shopspring/decimal"
)

// Approval statuses recognised across sale orders and held orders
const (
	ApprovalStatusSending  = "Sending to Approval"
	ApprovalStatusApproved = "Approved"
	ApprovalStatusRejected = "Rejected"
)

// ApprovalDetail is one entry of an approval log
type ApprovalDetail struct {
	ApprovalStatus         string            `json:"approvalStatus"`
	ApprovalType           string            `json:"approvalType"`
	Summary                string            `json:"summary"`
	ApprovalDate           time.Time         `json:"approvalDate"`
	ApprovedBy             string            `json:"approvedBy"`
	PreviousDiscount       []string          `json:"previousDiscount"`
	PreviousDiscountAmount []decimal.Decimal `json:"previousDiscountAmount"`
}

// ApprovalLog is an ordered approval history
type ApprovalLog []ApprovalDetail

// ReplaceLast overwrites the last entry, or appends when the log is empty
func (l ApprovalLog) ReplaceLast(d ApprovalDetail) ApprovalLog {
	if len(l) == 0 {
		return append(l, d)
	}
	out := make(ApprovalLog, len(l))
	copy(out, l)
	out[len(out)-1] = d
	return out
}

// Append adds d to the end of the log
func (l ApprovalLog) Append(d ApprovalDetail) ApprovalLog {
	out := make(ApprovalLog, len(l), len(l)+1)
	copy(out, l)
	return append(out, d)
}

// Last returns the most recent entry
func (l ApprovalLog) Last() (ApprovalDetail, bool) {
	if len(l) == 0 {
		return ApprovalDetail{}, false
	}
	return l[len(l)-1], true
}
