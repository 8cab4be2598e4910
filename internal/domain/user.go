package domain

import "time"

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Identity is the authenticated principal of a single request.
type Identity struct {
	UserID string
	Name   string
	Role   Role
}

func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Name: u.Name, Role: u.Role}
}
