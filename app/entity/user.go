package entity

import "time"

type User struct {
	ID uint64

	Name         string
	Email        string
	PasswordHash string

	CreatedAt time.Time
}
