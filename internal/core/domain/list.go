package domain

import (
	"slices"
	"time"
)

// GroceryList is a named collection of items owned by one user.
// Shared is true iff at least one share record exists for the list.
type GroceryList struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Shared     bool      `json:"shared"`
	SharedWith []string  `json:"sharedWith"`
}

// ListPatch carries the mutable list fields; nil fields are left untouched.
type ListPatch struct {
	Name   *string
	Shared *bool
}

// Empty reports whether the patch changes nothing.
func (p ListPatch) Empty() bool {
	return p.Name == nil && p.Shared == nil
}

// Apply returns a copy of l with the patch applied.
func (p ListPatch) Apply(l GroceryList) GroceryList {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Shared != nil {
		l.Shared = *p.Shared
	}
	l.SharedWith = slices.Clone(l.SharedWith)
	return l
}

// WithRecipient returns a copy of l marked shared with userID.
func (l GroceryList) WithRecipient(userID string) GroceryList {
	l.Shared = true
	l.SharedWith = slices.Clone(l.SharedWith)
	if !slices.Contains(l.SharedWith, userID) {
		l.SharedWith = append(l.SharedWith, userID)
	}
	return l
}

// ShareRecord grants a user other than the owner visibility of a list.
type ShareRecord struct {
	ListID     string    `json:"listId"`
	SharedWith string    `json:"sharedWith"`
	CreatedAt  time.Time `json:"createdAt"`
}
