package domain

import "time"

type User struct {
	ID        uint64
	Name      string
	Email     string
	Password  string
	IsActive  bool
	CreatedAt time.Time
}
