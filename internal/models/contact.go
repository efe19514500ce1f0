package models

import (
	"encoding/json"
	"fmt"
)

// UserColorSentinel marks a contact record that is really the acting
// user's own profile mirrored into the contacts view.
const UserColorSentinel = "#ffffff"

// DefaultContactMaxID is the highest id of the shared sample contacts.
// Deleting one of those only detaches it from the acting user; it stays
// available to everyone else.
const DefaultContactMaxID = 10

type Contact struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    FlexString `json:"phone,omitempty"`
	Initials string     `json:"initials"`
	Color    string     `json:"color"`
}

// IsUserProfile reports whether this record mirrors a user profile rather
// than a free-standing contact.
func (c *Contact) IsUserProfile() bool {
	return c.Color == UserColorSentinel
}

func DecodeContact(raw json.RawMessage) (*Contact, error) {
	var contact Contact
	if err := json.Unmarshal(raw, &contact); err != nil {
		return nil, fmt.Errorf("decode contact: %w", err)
	}
	if contact.ID < 1 {
		return nil, fmt.Errorf("decode contact: missing or invalid id")
	}
	return &contact, nil
}
