package database

import (
	"strings"
)

// Conditions collects optional filter clauses joined with AND.
type Conditions struct {
	clauses []string
	args    []any
}

func (c *Conditions) Add(clause string, args ...any) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

// Where renders " WHERE a AND b", or "" when nothing was added.
func (c *Conditions) Where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

func (c *Conditions) Args() []any {
	return c.args
}
