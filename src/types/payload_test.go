package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayloadRoundTrip(t *testing.T) {
	p := &TicketPayload{
		TicketID: "a2b9e6c1-7e3f-4d9a-9a0a-2f8c1d4e5f60",
		EventID:  "evt-42",
		Email:    "someone@example.com",
	}
	code := EncodePayload(p)
	decoded, err := DecodePayload(code)
	assert.Nil(t, err)
	assert.Equal(t, p, decoded)
}

func TestEncodeDeterministic(t *testing.T) {
	p := &TicketPayload{TicketID: "t1", EventID: "e1", Email: "a@x.com"}
	assert.Equal(t, EncodePayload(p), EncodePayload(p))
}

func TestDecodeMalformed(t *testing.T) {
	cases := []string{
		"not-json",
		"",
		"{",
		`{"eventId":"e1","email":"a@x.com"}`,
		`{"ticketId":"","eventId":"e1","email":"a@x.com"}`,
		`[1,2,3]`,
	}
	for _, code := range cases {
		decoded, err := DecodePayload(code)
		assert.Nil(t, decoded, "payload %q should not decode", code)
		assert.ErrorIs(t, err, ErrMalformedPayload)
	}
}

func TestDecodeIgnoresExtraFields(t *testing.T) {
	decoded, err := DecodePayload(`{"ticketId":"t1","eventId":"e1","email":"a@x.com","extra":true}`)
	assert.Nil(t, err)
	assert.Equal(t, "t1", decoded.TicketID)
}
