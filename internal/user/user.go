package user

import "time"

// User is an identity record. Users are created on signup and immutable
// afterwards; the email is stored lower-cased.
type User struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
}
