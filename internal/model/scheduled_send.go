// internal/model/scheduled_send.go
package model

import "time"

type SendStatus string

const (
    SendStatusGenerated        SendStatus = "generated"
    SendStatusPendingScheduled SendStatus = "pending_scheduled"
    SendStatusScheduled        SendStatus = "scheduled"
    SendStatusSending          SendStatus = "sending"
    SendStatusSent             SendStatus = "sent"
    SendStatusReplyReceived    SendStatus = "reply_received"
    SendStatusReplySent        SendStatus = "reply_sent"
    SendStatusArchived         SendStatus = "archived"
    SendStatusFailed           SendStatus = "failed"

    // SendStatusCancelled only appears on inbound deltas; it is treated like archived.
    SendStatusCancelled SendStatus = "cancelled"
)

// Valid reports whether s is one of the statuses the backend stores.
func (s SendStatus) Valid() bool {
    switch s {
    case SendStatusGenerated, SendStatusPendingScheduled, SendStatusScheduled,
        SendStatusSending, SendStatusSent, SendStatusReplyReceived,
        SendStatusReplySent, SendStatusArchived, SendStatusFailed:
        return true
    }
    return false
}

// Dispatched is true once the message is in flight or already delivered.
func (s SendStatus) Dispatched() bool {
    switch s {
    case SendStatusSending, SendStatusSent, SendStatusReplyReceived, SendStatusReplySent:
        return true
    }
    return false
}

// Removed is true for statuses that take a send off the calendar.
func (s SendStatus) Removed() bool {
    return s == SendStatusArchived || s == SendStatusCancelled
}

type ScheduledSend struct {
    ID          string     `db:"id" json:"id"`
    ProspectID  string     `db:"prospect_id" json:"prospect_id"`
    ScheduledAt time.Time  `db:"scheduled_for" json:"scheduled_for"`
    Status      SendStatus `db:"status" json:"status"`
    MessageText string     `db:"message_text" json:"message_text,omitempty"`
}

// SendDelta is a partial update pushed or polled from the backend.
// Nil fields are left untouched when merged.
type SendDelta struct {
    ID           string      `json:"id"`
    Status       *SendStatus `json:"status,omitempty"`
    ScheduledFor *time.Time  `json:"scheduled_for,omitempty"`
}
