package store

import (
	"context"
	"errors"
	"evtix/src/config"
	"evtix/src/models"
	"evtix/src/types"
	"fmt"
	"log"
	"os"
	"path"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreStore struct {
	client *firestore.Client
}

func newFirestoreStore(ctx context.Context) (*firestoreStore, error) {
	secretsPath := os.Getenv("SECRETS_DIR")
	opt := option.WithCredentialsFile(path.Join(secretsPath, "admin-sdk-credentials.json"))
	client, err := firestore.NewClient(ctx, config.GetProjectID(), opt)
	if err != nil {
		log.Printf("Error initializing Firestore client: %s\n", err.Error())
		return nil, err
	}
	return &firestoreStore{client: client}, nil
}

// storeErr folds transport failures into the generic unavailability error so
// callers can match with errors.Is without knowing about grpc.
func storeErr(err error) error {
	return fmt.Errorf("%w: %s", types.ErrStoreUnavailable, err.Error())
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (s *firestoreStore) CreateUser(ctx context.Context, user *models.User) error {
	if _, err := s.client.Collection(UsersCollection).Doc(user.UID).Set(ctx, user); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *firestoreStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	snap, err := s.client.Collection(UsersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, storeErr(err)
	}
	var user models.User
	if err := snap.DataTo(&user); err != nil {
		return nil, storeErr(err)
	}
	return &user, nil
}

func (s *firestoreStore) CreateEvent(ctx context.Context, event *models.Event) (string, error) {
	ref := s.client.Collection(EventsCollection).NewDoc()
	if _, err := ref.Create(ctx, event); err != nil {
		return "", storeErr(err)
	}
	event.ID = ref.ID
	return ref.ID, nil
}

func (s *firestoreStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	snap, err := s.client.Collection(EventsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, types.ErrEventNotFound
		}
		return nil, storeErr(err)
	}
	var event models.Event
	if err := snap.DataTo(&event); err != nil {
		return nil, storeErr(err)
	}
	event.ID = snap.Ref.ID
	return &event, nil
}

func (s *firestoreStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	iter := s.client.Collection(EventsCollection).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()
	events := []models.Event{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, storeErr(err)
		}
		var event models.Event
		if err := snap.DataTo(&event); err != nil {
			return nil, storeErr(err)
		}
		event.ID = snap.Ref.ID
		events = append(events, event)
	}
	return events, nil
}

func (s *firestoreStore) ReserveSeat(ctx context.Context, eventID string) error {
	ref := s.client.Collection(EventsCollection).Doc(eventID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return types.ErrEventNotFound
			}
			return err
		}
		var event models.Event
		if err := snap.DataTo(&event); err != nil {
			return err
		}
		if event.Sold >= event.TotalTickets {
			return types.ErrSoldOut
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "sold", Value: event.Sold + 1},
		})
	})
	if err != nil {
		if errors.Is(err, types.ErrEventNotFound) || errors.Is(err, types.ErrSoldOut) {
			return err
		}
		return storeErr(err)
	}
	return nil
}

func (s *firestoreStore) ReleaseSeat(ctx context.Context, eventID string) error {
	ref := s.client.Collection(EventsCollection).Doc(eventID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return types.ErrEventNotFound
			}
			return err
		}
		var event models.Event
		if err := snap.DataTo(&event); err != nil {
			return err
		}
		if event.Sold == 0 {
			return nil
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "sold", Value: event.Sold - 1},
		})
	})
	if err != nil {
		if errors.Is(err, types.ErrEventNotFound) {
			return err
		}
		return storeErr(err)
	}
	return nil
}

func (s *firestoreStore) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	if _, err := s.client.Collection(TicketsCollection).Doc(ticket.ID).Create(ctx, ticket); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *firestoreStore) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	snap, err := s.client.Collection(TicketsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, types.ErrTicketNotFound
		}
		return nil, storeErr(err)
	}
	var ticket models.Ticket
	if err := snap.DataTo(&ticket); err != nil {
		return nil, storeErr(err)
	}
	ticket.ID = snap.Ref.ID
	return &ticket, nil
}

func (s *firestoreStore) ticketsQuery(ctx context.Context, q firestore.Query) ([]models.Ticket, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()
	tickets := []models.Ticket{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, storeErr(err)
		}
		var ticket models.Ticket
		if err := snap.DataTo(&ticket); err != nil {
			return nil, storeErr(err)
		}
		ticket.ID = snap.Ref.ID
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func (s *firestoreStore) TicketsByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	q := s.client.Collection(TicketsCollection).Where("eventId", "==", eventID)
	return s.ticketsQuery(ctx, q)
}

func (s *firestoreStore) TicketsByEmail(ctx context.Context, email string) ([]models.Ticket, error) {
	q := s.client.Collection(TicketsCollection).Where("email", "==", email)
	return s.ticketsQuery(ctx, q)
}

func (s *firestoreStore) CountTickets(ctx context.Context, eventID, email string) (int, error) {
	q := s.client.Collection(TicketsCollection).
		Where("eventId", "==", eventID).
		Where("email", "==", email)
	tickets, err := s.ticketsQuery(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(tickets), nil
}

func (s *firestoreStore) RedeemTicket(ctx context.Context, id string, at time.Time) (*models.Ticket, error) {
	ref := s.client.Collection(TicketsCollection).Doc(id)
	var ticket models.Ticket
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return types.ErrTicketNotFound
			}
			return err
		}
		if err := snap.DataTo(&ticket); err != nil {
			return err
		}
		ticket.ID = snap.Ref.ID
		if ticket.Status == types.TICKET_CHECKED {
			return types.ErrAlreadyCheckedIn
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: types.TICKET_CHECKED},
			{Path: "checkedAt", Value: at},
		})
	})
	if err != nil {
		if errors.Is(err, types.ErrAlreadyCheckedIn) {
			// reported, non-fatal: hand back the prior record for display
			return &ticket, err
		}
		if errors.Is(err, types.ErrTicketNotFound) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	ticket.Status = types.TICKET_CHECKED
	ticket.CheckedAt = &at
	return &ticket, nil
}

func (s *firestoreStore) WatchTicket(ctx context.Context, id string) (<-chan models.Ticket, error) {
	ref := s.client.Collection(TicketsCollection).Doc(id)
	snaps := ref.Snapshots(ctx)
	ch := make(chan models.Ticket, 8)
	go func() {
		defer close(ch)
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Error watching ticket [%s]: %s\n", id, err.Error())
				}
				return
			}
			if !snap.Exists() {
				continue
			}
			var ticket models.Ticket
			if err := snap.DataTo(&ticket); err != nil {
				log.Printf("Error decoding ticket [%s] snapshot: %s\n", id, err.Error())
				continue
			}
			ticket.ID = snap.Ref.ID
			select {
			case ch <- ticket:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
