package models

import "time"

type Event struct {
	ID           string    `firestore:"-" json:"id"`
	Name         string    `firestore:"name" json:"name"`
	Location     string    `firestore:"location" json:"location,omitempty"`
	StartDate    string    `firestore:"startDate" json:"start_date,omitempty"`
	EndDate      string    `firestore:"endDate" json:"end_date,omitempty"`
	TotalTickets uint      `firestore:"totalTickets" json:"total_tickets"`
	Sold         uint      `firestore:"sold" json:"sold"`
	Price        float64   `firestore:"price" json:"price"`
	ImageURL     string    `firestore:"imageUrl,omitempty" json:"image_url,omitempty"`
	CreatedBy    string    `firestore:"createdBy,omitempty" json:"created_by,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt" json:"created_at,omitempty"`
}

// Remaining reports how many tickets can still be issued.
func (e *Event) Remaining() uint {
	if e.Sold >= e.TotalTickets {
		return 0
	}
	return e.TotalTickets - e.Sold
}
