package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Authentication and session issuance happen upstream; this service
// only reads users to resolve allocation candidates and audit actor names.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address.
//	FullName     – display name, denormalized into audit CSV exports.
//	PasswordHash – bcrypt hashed password (written by the seed tool only).
//	IsActive     – whether the account is active.
//	CreatedAt    – timestamp of creation; orders sequential auto-allocation.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	FullName     string    // users.full_name
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
}
