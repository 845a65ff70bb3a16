package models

import (
	"evtix/src/types"
	"time"
)

// Ticket is issued once at booking time and mutated exactly once by the
// check-in engine: status only ever moves booked -> checked.
type Ticket struct {
	ID        string             `firestore:"-" json:"id"`
	EventID   string             `firestore:"eventId" json:"event_id"`
	EventName string             `firestore:"eventName" json:"event_name,omitempty"`
	EventDate string             `firestore:"eventDate" json:"event_date,omitempty"`
	Email     string             `firestore:"email" json:"email"`
	Status    types.TicketStatus `firestore:"status" json:"status"`
	CreatedAt time.Time          `firestore:"createdAt" json:"created_at,omitempty"`
	CheckedAt *time.Time         `firestore:"checkedAt,omitempty" json:"checked_at,omitempty"`
}

func (t *Ticket) Payload() *types.TicketPayload {
	return &types.TicketPayload{
		TicketID: t.ID,
		EventID:  t.EventID,
		Email:    t.Email,
	}
}
