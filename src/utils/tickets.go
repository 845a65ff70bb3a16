package utils

import (
	"context"
	"evtix/src/config"
	"evtix/src/lib"
	"evtix/src/models"
	"evtix/src/store"
	"evtix/src/types"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookTicket issues one ticket for the requesting email against the event's
// capacity. The seat reservation itself is an atomic increment on the store,
// so sold never exceeds totalTickets; the per-user limit check is a separate
// read and two near-simultaneous bookings by the same user can still slip
// past it.
func BookTicket(ctx context.Context, eventID string, email string) (*models.Ticket, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	st := store.GetStore()

	event, err := st.GetEvent(ctx, eventID)
	if err != nil {
		log.Printf("Error retrieving Event [%s]: %s\n", eventID, err.Error())
		return nil, err
	}

	count, err := st.CountTickets(ctx, eventID, email)
	if err != nil {
		log.Printf("Error counting Tickets for [%s, %s]: %s\n", eventID, email, err.Error())
		return nil, err
	}
	if count >= config.MAX_TICKETS_PER_USER {
		return nil, types.ErrLimitExceeded
	}

	if err := st.ReserveSeat(ctx, eventID); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		ID:        uuid.NewString(),
		EventID:   event.ID,
		EventName: event.Name,
		EventDate: event.StartDate,
		Email:     email,
		Status:    types.TICKET_BOOKED,
		CreatedAt: time.Now(),
	}
	if err := st.CreateTicket(ctx, ticket); err != nil {
		log.Printf("Error creating Ticket for Event [%s]: %s\n", eventID, err.Error())
		// hand the reserved seat back so a failed write cannot leak capacity
		if rerr := st.ReleaseSeat(ctx, eventID); rerr != nil {
			log.Printf("Error releasing seat for Event [%s]: %s\n", eventID, rerr.Error())
		}
		return nil, err
	}
	return ticket, nil
}

// CheckInTicket is the scan entrypoint: its contract begins at the decoded
// string handed over by the scanning station. Decoding failures never touch
// the store; redemption is a single atomic transition on the store.
func CheckInTicket(ctx context.Context, code string) (*models.Ticket, error) {
	payload, err := types.DecodePayload(code)
	if err != nil {
		return nil, err
	}
	ticket, err := store.GetStore().RedeemTicket(ctx, payload.TicketID, time.Now())
	if err != nil {
		return ticket, err
	}
	go NotifyTicketChanged(ticket)
	return ticket, nil
}

// NotifyTicketChanged pushes the full updated record to the ticket's channel
// so an already-open holder view flips from booked to checked without
// polling. Complements the store's own snapshot subscription.
func NotifyTicketChanged(ticket *models.Ticket) {
	if os.Getenv("PUSHER_APP_ID") == "" {
		return
	}
	p := lib.GetPusherClient()
	channel := fmt.Sprintf("ticket-%s", ticket.ID)
	if err := p.Trigger(channel, "status-changed", ticket); err != nil {
		log.Printf("Error pushing update for Ticket [%s]: %s\n", ticket.ID, err.Error())
	}
}

// AuditCapacity sweeps all events and reports any whose sold count drifted
// past capacity. Runs on the cron scheduler; the invariant is enforced at
// booking time, this makes a violation visible instead of silent.
func AuditCapacity() {
	ctx := context.Background()
	events, err := store.GetStore().ListEvents(ctx)
	if err != nil {
		log.Printf("Error auditing events: %s\n", err.Error())
		return
	}
	for _, event := range events {
		if event.Sold > event.TotalTickets {
			log.Printf("Capacity violation on Event [%s]: sold=%d total=%d\n", event.ID, event.Sold, event.TotalTickets)
		}
	}
}
