package models

import "time"

// RefundStatus represents the progress of a refund
type RefundStatus string

const (
	RefundRequested  RefundStatus = "requested"
	RefundProcessing RefundStatus = "processing"
	RefundCompleted  RefundStatus = "completed"
)

// Rank orders refund statuses; a refund only ever moves to a higher rank.
// Unknown statuses rank -1.
func (s RefundStatus) Rank() int {
	switch s {
	case RefundRequested:
		return 0
	case RefundProcessing:
		return 1
	case RefundCompleted:
		return 2
	}
	return -1
}

// RefundInfo tracks money returned to the user after a paid appointment is cancelled
type RefundInfo struct {
	ID            string       `json:"id"`
	AppointmentID string       `json:"appointmentId"`
	Amount        float64      `json:"amount"`
	Status        RefundStatus `json:"status"`
	Reason        string       `json:"reason"`
	RequestedAt   time.Time    `json:"requestedAt"`
	ProcessedAt   *time.Time   `json:"processedAt,omitempty"`
	CompletedAt   *time.Time   `json:"completedAt,omitempty"`
}

// Clone returns a copy of r that shares no pointers with it.
func (r RefundInfo) Clone() RefundInfo {
	r.ProcessedAt = cloneValue(r.ProcessedAt)
	r.CompletedAt = cloneValue(r.CompletedAt)
	return r
}

// RefundID derives the refund id of an appointment.
func RefundID(appointmentID string) string {
	return "refund_" + appointmentID
}
