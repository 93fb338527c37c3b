package user

import (
	"time"

	"github.com/gestfin/gestfin/internal/patch"
)

type User struct {
	Id           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Photo        *string   `json:"photo"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser is the registration input; Password is hashed before storage.
type NewUser struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Photo    *string `json:"photo"`
}

type Patch struct {
	Name     patch.Field[string] `json:"name"`
	Email    patch.Field[string] `json:"email"`
	Password patch.Field[string] `json:"password"`
	Photo    patch.Field[string] `json:"photo"`

	passwordHash patch.Field[string]
}

// Assignments never carries the plain password, only its hash.
func (p Patch) Assignments() []patch.Assignment {
	var list []patch.Assignment
	list = patch.Append(list, "name", p.Name)
	list = patch.Append(list, "email", p.Email)
	list = patch.Append(list, "password_hash", p.passwordHash)
	list = patch.Append(list, "photo", p.Photo)
	return list
}
