package types

type TicketStatus string

const (
	TICKET_BOOKED  TicketStatus = "booked"
	TICKET_CHECKED TicketStatus = "checked"
)

type Role string

const (
	ROLE_ATTENDEE  Role = "attendee"
	ROLE_ORGANIZER Role = "organizer"
)

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     Role   `json:"role,omitempty" binding:"omitempty,oneof=attendee organizer"`
}

type CreateEventRequestBody struct {
	Name         string  `json:"name" binding:"required"`
	Location     string  `json:"location" binding:"required"`
	StartDate    string  `json:"start_date" binding:"required,eventdate" time_format:"2006-01-02"`
	EndDate      string  `json:"end_date" binding:"required,eventdate,gtedate=StartDate" time_format:"2006-01-02"`
	TotalTickets uint    `json:"total_tickets" binding:"required,gt=0"`
	Price        float64 `json:"price" binding:"gte=0"`
	ImageURL     string  `json:"image_url,omitempty"`
}

type CheckinRequestBody struct {
	Code string `json:"code" binding:"required"`
}

type SimpleRequestParams struct {
	ID string `uri:"id" binding:"required"`
}
