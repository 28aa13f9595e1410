package model

import "time"

// User represents an application user record as stored in the `users`
// table.  PasswordHash never leaves the repository layer; handlers build
// response shapes from the exported fields and the json tag on
// PasswordHash keeps it out of any accidental serialization.
//
// Fields:
//  ID           – primary key identifier of the user.
//  FirstName    – given name shown in the admin table and dashboard.
//  LastName     – family name.
//  Email        – unique email address, stored lowercase.
//  PasswordHash – bcrypt hashed password.
//  Role         – "user" or "admin".
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleAdmin is the role marker granting access to administrative endpoints.
const RoleAdmin = "admin"

// RoleUser is the default role assigned at registration.
const RoleUser = "user"
