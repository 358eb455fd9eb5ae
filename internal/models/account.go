package models

import "time"

type Account struct {
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
