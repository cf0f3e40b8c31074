// Package models holds the persisted account types and their public views.
package models

import "time"

// User is a stored account. The password material never leaves the server.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordSalt []byte
	PasswordHash []byte
	CreatedAt    time.Time

	// Favorites is filled in by the services layer, in insertion order.
	Favorites []string
}

// PublicUser is the JSON view of an account returned to clients.
type PublicUser struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email"`
	Favorites []string  `json:"favorites"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public strips the password material. Favorites is never nil.
func (u *User) Public() PublicUser {
	fav := u.Favorites
	if fav == nil {
		fav = []string{}
	}
	return PublicUser{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		Favorites: fav,
		CreatedAt: u.CreatedAt,
	}
}
