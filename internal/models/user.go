package models

import (
	"encoding/json"
	"fmt"
)

// GuestID is the id of the non-persisted guest identity. Guest state lives
// only in the session and never round-trips to the users collection.
const GuestID = 0

// User is a stored account. Tasks and Contacts are membership lists of
// record ids visible to this user. Password holds the bcrypt hash.
type User struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Initials string     `json:"initials"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Color    string     `json:"color"`
	Phone    FlexString `json:"phone,omitempty"`
	Tasks    []int      `json:"tasks"`
	Contacts []int      `json:"contacts"`
}

func DecodeUser(raw json.RawMessage) (*User, error) {
	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if user.ID < 1 {
		return nil, fmt.Errorf("decode user: missing or invalid id")
	}
	user.Tasks = dropZeroIDs(user.Tasks)
	user.Contacts = dropZeroIDs(user.Contacts)
	return &user, nil
}

// ActiveUser is the session snapshot of the acting identity: the profile
// plus the membership lists every feature filters by. It is the single
// source of truth for "who is using the app" between requests.
type ActiveUser struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Initials string     `json:"initials"`
	Email    string     `json:"email"`
	Color    string     `json:"color"`
	Phone    FlexString `json:"phone,omitempty"`
	Tasks    []int      `json:"tasks"`
	Contacts []int      `json:"contacts"`
}

func (a *ActiveUser) IsGuest() bool { return a.ID == GuestID }

func (a *ActiveUser) HasTask(id int) bool { return containsID(a.Tasks, id) }

func (a *ActiveUser) HasContact(id int) bool { return containsID(a.Contacts, id) }

func containsID(ids []int, id int) bool {
	for _, have := range ids {
		if have == id {
			return true
		}
	}
	return false
}

// RemoveID returns ids without every occurrence of id.
func RemoveID(ids []int, id int) []int {
	kept := make([]int, 0, len(ids))
	for _, have := range ids {
		if have != id {
			kept = append(kept, have)
		}
	}
	return kept
}
