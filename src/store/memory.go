package store

import (
	"context"
	"evtix/src/models"
	"evtix/src/types"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by the test suites in place of the
// managed document database. The mutex stands in for the remote store's
// per-document atomicity so ReserveSeat and RedeemTicket keep their
// increment-if-below-ceiling / transition-if-currently-booked contracts.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	events   map[string]models.Event
	tickets  map[string]models.Ticket
	watchers map[string][]chan models.Ticket
	seq      int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    map[string]models.User{},
		events:   map[string]models.Event{},
		tickets:  map[string]models.Ticket{},
		watchers: map[string][]chan models.Ticket{},
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UID] = *user
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[uid]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return &user, nil
}

func (s *MemoryStore) CreateEvent(ctx context.Context, event *models.Event) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("evt-%d", s.seq)
	event.ID = id
	s.events[id] = *event
	return id, nil
}

func (s *MemoryStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return nil, types.ErrEventNotFound
	}
	return &event, nil
}

func (s *MemoryStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := []models.Event{}
	for _, event := range s.events {
		events = append(events, event)
	}
	return events, nil
}

func (s *MemoryStore) ReserveSeat(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	if !ok {
		return types.ErrEventNotFound
	}
	if event.Sold >= event.TotalTickets {
		return types.ErrSoldOut
	}
	event.Sold++
	s.events[eventID] = event
	return nil
}

func (s *MemoryStore) ReleaseSeat(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	if !ok {
		return types.ErrEventNotFound
	}
	if event.Sold > 0 {
		event.Sold--
		s.events[eventID] = event
	}
	return nil
}

func (s *MemoryStore) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticket.ID] = *ticket
	return nil
}

func (s *MemoryStore) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, types.ErrTicketNotFound
	}
	return &ticket, nil
}

func (s *MemoryStore) TicketsByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tickets := []models.Ticket{}
	for _, ticket := range s.tickets {
		if ticket.EventID == eventID {
			tickets = append(tickets, ticket)
		}
	}
	return tickets, nil
}

func (s *MemoryStore) TicketsByEmail(ctx context.Context, email string) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tickets := []models.Ticket{}
	for _, ticket := range s.tickets {
		if ticket.Email == email {
			tickets = append(tickets, ticket)
		}
	}
	return tickets, nil
}

func (s *MemoryStore) CountTickets(ctx context.Context, eventID, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, ticket := range s.tickets {
		if ticket.EventID == eventID && ticket.Email == email {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) RedeemTicket(ctx context.Context, id string, at time.Time) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, types.ErrTicketNotFound
	}
	if ticket.Status == types.TICKET_CHECKED {
		return &ticket, types.ErrAlreadyCheckedIn
	}
	ticket.Status = types.TICKET_CHECKED
	ticket.CheckedAt = &at
	s.tickets[id] = ticket
	// delivery stays under the mutex: WatchTicket closes channels under the
	// same mutex, so a send can never hit a closed channel. The channels are
	// buffered and the send is non-blocking, so no receiver can hold the lock.
	for _, ch := range s.watchers[id] {
		select {
		case ch <- ticket:
		default:
		}
	}
	return &ticket, nil
}

func (s *MemoryStore) WatchTicket(ctx context.Context, id string) (<-chan models.Ticket, error) {
	s.mu.Lock()
	ch := make(chan models.Ticket, 8)
	s.watchers[id] = append(s.watchers[id], ch)
	if ticket, ok := s.tickets[id]; ok {
		ch <- ticket
	}
	s.mu.Unlock()
	go func() {
		<-ctx.Done()
		s.mu.Lock()
		watchers := s.watchers[id]
		for i, w := range watchers {
			if w == ch {
				s.watchers[id] = append(watchers[:i], watchers[i+1:]...)
				break
			}
		}
		close(ch)
		s.mu.Unlock()
	}()
	return ch, nil
}
