package model

import "strings"

// Payload is the flat key/value request of one operation (POST form, JSON
// object or query string).
type Payload map[string]string

func (p Payload) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Action is the kind of a write request.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ParseAction returns the action named by s, case-insensitively.
func ParseAction(s string) (Action, bool) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionInsert, ActionUpdate, ActionDelete:
		return a, true
	}
	return "", false
}

// ListParams are the list request inputs a hook may inspect or change.
// RowStart and RowLimit are nil when not requested.
type ListParams struct {
	DoCount   bool
	RowStart  *int
	RowLimit  *int
	ColValues ColumnValues
	Search    string
}
