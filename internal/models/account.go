package models

import "time"

// Role tags an account as one of the three marketplace actors.
type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleConsumer Role = "consumer"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether r is a known role. Admin accounts are seeded at
// startup and are not a valid role for self-registration.
func (r Role) IsValid() bool {
	switch r {
	case RoleFarmer, RoleConsumer, RoleAdmin:
		return true
	}
	return false
}

// Account matches the document stored in the accounts collection.
// Mobile is the login identifier and is unique across accounts.
// Password always holds a bcrypt hash, never the plaintext.
type Account struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Mobile    string    `bson:"mobile" json:"mobile"`
	Password  string    `bson:"password" json:"-"`
	Role      Role      `bson:"role" json:"role"`
	Location  Location  `bson:"location" json:"location"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
