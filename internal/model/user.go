package model

import "time"

// RoleAdmin is the only role the application grants access to.
const RoleAdmin = "admin"

// User is a provisioned operator account. Users are created by the seeder and
// never mutated by the application.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:50;not null;default:'admin'"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the subset of User returned to clients.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Public strips the password hash.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Role: u.Role}
}
