package store

import (
	"context"
	"evtix/src/models"
	"evtix/src/types"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvent(t *testing.T, s *MemoryStore, total uint) string {
	t.Helper()
	id, err := s.CreateEvent(context.Background(), &models.Event{
		Name:         "Test Event",
		StartDate:    "2026-09-01",
		EndDate:      "2026-09-02",
		TotalTickets: total,
	})
	require.Nil(t, err)
	return id
}

func TestReserveSeatCapacity(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id := seedEvent(t, s, 3)

	for i := 0; i < 3; i++ {
		assert.Nil(t, s.ReserveSeat(ctx, id))
	}
	err := s.ReserveSeat(ctx, id)
	assert.ErrorIs(t, err, types.ErrSoldOut)

	event, err := s.GetEvent(ctx, id)
	require.Nil(t, err)
	assert.Equal(t, uint(3), event.Sold)
	assert.LessOrEqual(t, event.Sold, event.TotalTickets)
	assert.Equal(t, uint(0), event.Remaining())
}

func TestReserveSeatUnknownEvent(t *testing.T) {
	s := NewMemoryStore()
	err := s.ReserveSeat(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrEventNotFound)
}

func TestRedeemTicketOnce(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ticket := &models.Ticket{
		ID:      "t1",
		EventID: "e1",
		Email:   "a@x.com",
		Status:  types.TICKET_BOOKED,
	}
	require.Nil(t, s.CreateTicket(ctx, ticket))

	first := time.Now()
	redeemed, err := s.RedeemTicket(ctx, "t1", first)
	require.Nil(t, err)
	assert.Equal(t, types.TICKET_CHECKED, redeemed.Status)
	require.NotNil(t, redeemed.CheckedAt)
	assert.Equal(t, first, *redeemed.CheckedAt)

	again, err := s.RedeemTicket(ctx, "t1", first.Add(time.Minute))
	assert.ErrorIs(t, err, types.ErrAlreadyCheckedIn)
	require.NotNil(t, again)
	require.NotNil(t, again.CheckedAt)
	assert.Equal(t, first, *again.CheckedAt, "redemption timestamp must not move on a second scan")
}

func TestReserveSeatConcurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id := seedEvent(t, s, 5)

	var wg sync.WaitGroup
	var reserved int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.ReserveSeat(ctx, id); err == nil {
				atomic.AddInt32(&reserved, 1)
			} else {
				assert.ErrorIs(t, err, types.ErrSoldOut)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), reserved)
	event, err := s.GetEvent(ctx, id)
	require.Nil(t, err)
	assert.Equal(t, uint(5), event.Sold)
	assert.LessOrEqual(t, event.Sold, event.TotalTickets)
}

func TestReleaseSeat(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id := seedEvent(t, s, 2)

	require.Nil(t, s.ReserveSeat(ctx, id))
	require.Nil(t, s.ReleaseSeat(ctx, id))

	event, err := s.GetEvent(ctx, id)
	require.Nil(t, err)
	assert.Equal(t, uint(0), event.Sold)

	// releasing with nothing reserved never goes negative
	require.Nil(t, s.ReleaseSeat(ctx, id))
	event, err = s.GetEvent(ctx, id)
	require.Nil(t, err)
	assert.Equal(t, uint(0), event.Sold)

	assert.ErrorIs(t, s.ReleaseSeat(ctx, "missing"), types.ErrEventNotFound)
}

func TestRedeemTicketNotFound(t *testing.T) {
	s := NewMemoryStore()
	ticket, err := s.RedeemTicket(context.Background(), "missing", time.Now())
	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, types.ErrTicketNotFound)
}

func TestRedeemTicketConcurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ticket := &models.Ticket{ID: "t1", EventID: "e1", Email: "a@x.com", Status: types.TICKET_BOOKED}
	require.Nil(t, s.CreateTicket(ctx, ticket))

	var wg sync.WaitGroup
	var redeemed int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RedeemTicket(ctx, "t1", time.Now())
			if err == nil {
				atomic.AddInt32(&redeemed, 1)
			} else {
				assert.ErrorIs(t, err, types.ErrAlreadyCheckedIn)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), redeemed, "exactly one scan wins")
}

// Watchers cancelling while their ticket is being redeemed must not trip the
// race detector or panic on a send to a closed channel.
func TestWatchTicketCancelDuringRedeem(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("t%d", i)
		require.Nil(t, s.CreateTicket(context.Background(), &models.Ticket{
			ID:      id,
			EventID: "e1",
			Email:   "a@x.com",
			Status:  types.TICKET_BOOKED,
		}))
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := s.WatchTicket(ctx, id)
		require.Nil(t, err)

		wg.Add(2)
		go func() {
			defer wg.Done()
			cancel()
			for range ch {
			}
		}()
		go func(id string) {
			defer wg.Done()
			_, err := s.RedeemTicket(context.Background(), id, time.Now())
			assert.Nil(t, err)
		}(id)
	}
	wg.Wait()
}

func TestWatchTicketDeliversTransition(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticket := &models.Ticket{ID: "t1", EventID: "e1", Email: "a@x.com", Status: types.TICKET_BOOKED}
	require.Nil(t, s.CreateTicket(context.Background(), ticket))

	ch, err := s.WatchTicket(ctx, "t1")
	require.Nil(t, err)

	// current state is delivered on subscribe
	current := <-ch
	assert.Equal(t, types.TICKET_BOOKED, current.Status)

	_, err = s.RedeemTicket(context.Background(), "t1", time.Now())
	require.Nil(t, err)

	select {
	case updated := <-ch:
		assert.Equal(t, types.TICKET_CHECKED, updated.Status)
	case <-time.After(time.Second):
		t.Fatal("expected a change delivery after redemption")
	}
}
