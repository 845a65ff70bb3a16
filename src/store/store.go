package store

import (
	"context"
	"evtix/src/models"
	"log"
	"time"
)

const (
	UsersCollection   = "users"
	EventsCollection  = "events"
	TicketsCollection = "tickets"
)

// Store is the record-store boundary: three collections of documents keyed by
// generated identifiers, with point lookups, equality queries, field updates
// and a per-document change subscription. The two status-bearing writes are
// deliberately NOT read+write pairs: ReserveSeat and RedeemTicket are atomic
// primitives so concurrent bookings cannot oversell and concurrent scans
// cannot both redeem.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)

	CreateEvent(ctx context.Context, event *models.Event) (string, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	// ReserveSeat increments the event's sold counter by one, but only while
	// sold < totalTickets. Fails with types.ErrSoldOut at capacity.
	ReserveSeat(ctx context.Context, eventID string) error
	// ReleaseSeat undoes a reservation whose ticket was never written,
	// decrementing sold while it is above zero.
	ReleaseSeat(ctx context.Context, eventID string) error

	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	TicketsByEvent(ctx context.Context, eventID string) ([]models.Ticket, error)
	TicketsByEmail(ctx context.Context, email string) ([]models.Ticket, error)
	CountTickets(ctx context.Context, eventID, email string) (int, error)
	// RedeemTicket applies the one-way booked -> checked transition. When the
	// ticket is already checked it fails with types.ErrAlreadyCheckedIn and
	// still returns the existing record, prior checkedAt included, so the
	// scanning station can display it.
	RedeemTicket(ctx context.Context, id string, at time.Time) (*models.Ticket, error)
	// WatchTicket re-delivers the full current ticket record on every change
	// until ctx is cancelled. At-least-once; the last delivered state wins.
	WatchTicket(ctx context.Context, id string) (<-chan models.Ticket, error)
}

var store Store

func GetStore() Store {
	if store != nil {
		return store
	}
	fs, err := newFirestoreStore(context.Background())
	if err != nil {
		log.Printf("Error connecting to record store: %s\n", err.Error())
		panic(err)
	}
	store = fs
	return store
}

// NewStore replaces the store instance. Used by tests to substitute the
// in-memory implementation.
func NewStore(s Store) Store {
	store = s
	return store
}
