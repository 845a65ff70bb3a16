package types

import (
	"encoding/json"
	"fmt"
)

// TicketPayload is the structured value embedded in a ticket's QR symbol.
// The wire format is plain JSON; validity of a scanned payload is established
// by whether ticketId resolves to a real record, not by any signature.
type TicketPayload struct {
	TicketID string `json:"ticketId"`
	EventID  string `json:"eventId"`
	Email    string `json:"email"`
}

func EncodePayload(p *TicketPayload) string {
	raw, _ := json.Marshal(p)
	return string(raw)
}

// DecodePayload is the inverse of EncodePayload. A payload that does not parse,
// or parses without a ticketId, is malformed; a missing ticketId is fatal to
// the check-in attempt.
func DecodePayload(code string) (*TicketPayload, error) {
	var p TicketPayload
	if err := json.Unmarshal([]byte(code), &p); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPayload, err.Error())
	}
	if p.TicketID == "" {
		return nil, fmt.Errorf("%w: missing ticketId", ErrMalformedPayload)
	}
	return &p, nil
}
