package family

import (
	"time"

	"github.com/gestfin/gestfin/internal/patch"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type Family struct {
	Id          int       `json:"id"`
	Name        string    `json:"name"`
	OwnerUserId int       `json:"ownerUserId"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Patch struct {
	Name        patch.Field[string] `json:"name"`
	OwnerUserId patch.Field[int]    `json:"ownerUserId"`
	Role        patch.Field[Role]   `json:"role"`
}

func (p Patch) Assignments() []patch.Assignment {
	var list []patch.Assignment
	list = patch.Append(list, "name", p.Name)
	list = patch.Append(list, "owner_user_id", p.OwnerUserId)
	list = patch.AppendWith(list, "role", p.Role, func(r Role) any { return string(r) })
	return list
}
