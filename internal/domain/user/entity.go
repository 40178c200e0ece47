package user

import "strings"

// Filterable field names accepted by Filter.
const (
	FieldUsername    = "username"
	FieldDisplayName = "displayName"
)

// User represents a user entity in the system.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// Field returns the value of the named field and whether the name is known.
func (u User) Field(name string) (string, bool) {
	switch name {
	case FieldUsername:
		return u.Username, true
	case FieldDisplayName:
		return u.DisplayName, true
	default:
		return "", false
	}
}

// Filter selects users whose Field contains Value. The zero Filter matches everything.
type Filter struct {
	Field string
	Value string
}

// IsZero reports whether the filter is inactive. A filter needs both a field and a value.
func (f Filter) IsZero() bool {
	return f.Field == "" || f.Value == ""
}

// Matches reports whether u passes the filter. Matching is case-sensitive.
func (f Filter) Matches(u User) bool {
	if f.IsZero() {
		return true
	}
	v, ok := u.Field(f.Field)
	return ok && strings.Contains(v, f.Value)
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Username    *string
	DisplayName *string
}

// Apply merges the present fields of p into u. The id never changes.
func (p Patch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
}

// NextID returns the id for a new record: one past the largest existing id, or 1.
func NextID(users []User) int64 {
	var maxID int64
	for _, u := range users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	return maxID + 1
}
