package model

import "time"

// RolePatient is the role every self-registered account receives.
const RolePatient = "patient"

// User is the public part of an account: what the rest of the application
// is allowed to see. It never carries the secret.
//
// Fields:
//
//	ID        – "user_<unix ms>" minted at sign-up, immutable.
//	Name      – display name, the only field a profile update may change.
//	Email     – unique across the credential ledger, compared case-insensitively, immutable.
//	Role      – "patient" for self-registered accounts.
//	CreatedAt – sign-up time.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credential is one entry of the credential ledger: a User plus its secret.
// The secret is kept under the "password" key of the persisted JSON. Hashed
// marks a bcrypt secret; records without it hold the secret as given.
type Credential struct {
	User
	Secret string `json:"password"`
	Hashed bool   `json:"hashed,omitempty"`
}

// Session is the persisted identity of the signed-in user. It is exactly
// the User record with the secret stripped.
type Session = User
