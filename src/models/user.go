package models

import (
	"evtix/src/types"
	"time"
)

// User mirrors the identity provider's account into the record store. Role is
// assigned at sign-up and gates the organizer-only operations.
type User struct {
	UID       string     `firestore:"uid" json:"uid"`
	Email     string     `firestore:"email" json:"email"`
	Name      string     `firestore:"name" json:"name,omitempty"`
	Role      types.Role `firestore:"role" json:"role"`
	CreatedAt time.Time  `firestore:"createdAt" json:"created_at,omitempty"`
}
