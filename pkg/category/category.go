package category

import "github.com/gestfin/gestfin/internal/patch"

type Type string

const (
	Income   Type = "income"
	Expense  Type = "expense"
	Transfer Type = "transfer"
)

func (t Type) Valid() bool {
	return t == Income || t == Expense || t == Transfer
}

type Category struct {
	Id       int     `json:"id"`
	FamilyId int     `json:"familyId"`
	Name     string  `json:"name"`
	Type     Type    `json:"type"`
	Icon     *string `json:"icon"`
	Color    *string `json:"color"`
}

type Patch struct {
	Name  patch.Field[string] `json:"name"`
	Type  patch.Field[Type]   `json:"type"`
	Icon  patch.Field[string] `json:"icon"`
	Color patch.Field[string] `json:"color"`
}

func (p Patch) Assignments() []patch.Assignment {
	var list []patch.Assignment
	list = patch.Append(list, "name", p.Name)
	list = patch.AppendWith(list, "type", p.Type, func(t Type) any { return string(t) })
	list = patch.Append(list, "icon", p.Icon)
	list = patch.Append(list, "color", p.Color)
	return list
}

type Filter struct {
	Type *Type
}
