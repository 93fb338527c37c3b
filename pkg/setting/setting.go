package setting

import (
	"time"

	"github.com/gestfin/gestfin/internal/patch"
)

// Setting is a per-user key/value preference. Keys are unique per user.
type Setting struct {
	Id         int       `json:"id"`
	UserId     int       `json:"userId"`
	Key        string    `json:"key"`
	Value      string    `json:"value"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

type Patch struct {
	Key   patch.Field[string] `json:"key"`
	Value patch.Field[string] `json:"value"`
}

func (p Patch) Assignments() []patch.Assignment {
	var list []patch.Assignment
	list = patch.Append(list, "key", p.Key)
	list = patch.Append(list, "value", p.Value)
	return list
}
