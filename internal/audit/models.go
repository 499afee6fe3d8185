// Package audit defines the append-only trail of listing mutations.
package audit

import "time"

// ActionUpdated marks a field edit. Status changes use the new status value
// itself as the action, so downstream consumers can branch on it directly.
const ActionUpdated = "updated"

// UnknownAdmin attributes mutations whose caller supplied no identity.
const UnknownAdmin = "Unknown Admin"

// Event is an immutable record of one mutation. Field edits carry
// changes/oldValues; status changes carry oldStatus/newStatus. Consumers
// branch on the action type, so the two shapes must stay distinct.
type Event struct {
	ID        int            `json:"id"`
	ListingID int            `json:"listingId"`
	Action    string         `json:"action"`
	AdminUser string         `json:"adminUser"`
	Timestamp time.Time      `json:"timestamp"`
	Changes   map[string]any `json:"changes,omitempty"`
	OldValues map[string]any `json:"oldValues,omitempty"`
	OldStatus string         `json:"oldStatus,omitempty"`
	NewStatus string         `json:"newStatus,omitempty"`
}
