// Package model contains domain models passed between layers.
package model

import "time"

// TimestampLayout renders ISO-8601 UTC timestamps with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// User is a fabricated user record; nothing is stored.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Users returns a fresh copy of the fixture list served by GET /api/users.
func Users() []User {
	return []User{
		{ID: 1, Name: "John Doe", Email: "john@example.com"},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com"},
	}
}

// Timestamp formats t the way every JSON body reports time.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
