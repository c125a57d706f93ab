// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/madrichim/leadhub/internal/app/store/audit"
)

// eventRow is one audit event shaped for the JSON listing.
type eventRow struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	UserID        string            `json:"user_id,omitempty"`
	LeadID        string            `json:"lead_id,omitempty"`
	ActorID       string            `json:"actor_id,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

func newEventRow(e audit.Event) eventRow {
	row := eventRow{
		ID:            e.ID.Hex(),
		Timestamp:     e.Timestamp,
		Category:      e.Category,
		EventType:     e.EventType,
		IP:            e.IP,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
	if e.UserID != nil {
		row.UserID = e.UserID.Hex()
	}
	if e.LeadID != nil {
		row.LeadID = e.LeadID.Hex()
	}
	if e.ActorID != nil {
		row.ActorID = e.ActorID.Hex()
	}
	return row
}
