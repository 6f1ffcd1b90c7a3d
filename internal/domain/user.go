package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int           `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	PasswordHash string        `json:"password"`
	Role         Role          `json:"role"`
	Orders       []OrderRecord `json:"orders"`

	// Pending reset credential. Both are empty while the account is Active.
	TemporaryPasswordHash   string     `json:"temporaryPassword,omitempty"`
	TemporaryPasswordExpiry *time.Time `json:"temporaryPasswordExpiry,omitempty"`
}

// PendingReset reports whether a temporary password has been issued and not yet consumed.
func (u *User) PendingReset() bool {
	return u.TemporaryPasswordHash != "" && u.TemporaryPasswordExpiry != nil
}

// ClearReset returns the account to the Active credential state.
func (u *User) ClearReset() {
	u.TemporaryPasswordHash = ""
	u.TemporaryPasswordExpiry = nil
}

// Profile is the part of a User safe to hand back to clients.
type Profile struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}
