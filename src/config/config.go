package config

import "os"

// DATE_PARSE_FORMAT is the calendar-date layout the browser client writes for
// event start/end dates.
const DATE_PARSE_FORMAT = "2006-01-02"

// MAX_TICKETS_PER_USER caps bookings per (event, email) pair.
const MAX_TICKETS_PER_USER = 2

func GetProjectID() string {
	return os.Getenv("GOOGLE_PROJECT_ID")
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}
	return port
}

func GetCorsOrigin() string {
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}
	return origin
}
