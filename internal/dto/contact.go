package dto

import (
	"sort"

	"github.com/joinboard/join-api/internal/models"
)

// ContactDTO represents a contact in API responses. Self marks the
// acting user's mirrored profile entry (id 0).
type ContactDTO struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Initials string `json:"initials"`
	Color    string `json:"color"`
	Self     bool   `json:"self,omitempty"`
}

func ToContactDTO(contact *models.Contact) ContactDTO {
	return ContactDTO{
		ID:       contact.ID,
		Name:     contact.Name,
		Email:    contact.Email,
		Phone:    contact.Phone.String(),
		Initials: contact.Initials,
		Color:    contact.Color,
		Self:     contact.ID == 0,
	}
}

// ContactGroupDTO is one letter bucket of the grouped contact list.
type ContactGroupDTO struct {
	Initial  string       `json:"initial"`
	Contacts []ContactDTO `json:"contacts"`
}

// ContactListDTO is the contacts view: the mirrored own profile first,
// then the visible contacts grouped by first initial, letters sorted.
type ContactListDTO struct {
	Self   *ContactDTO       `json:"self,omitempty"`
	Groups []ContactGroupDTO `json:"groups"`
}

func ToContactListDTO(self *models.Contact, contacts []models.Contact) ContactListDTO {
	list := ContactListDTO{Groups: []ContactGroupDTO{}}
	if self != nil {
		dto := ToContactDTO(self)
		list.Self = &dto
	}

	buckets := make(map[string][]ContactDTO)
	for i := range contacts {
		if contacts[i].Initials == "" {
			continue
		}
		initial := string([]rune(contacts[i].Initials)[0])
		buckets[initial] = append(buckets[initial], ToContactDTO(&contacts[i]))
	}

	initials := make([]string, 0, len(buckets))
	for initial := range buckets {
		initials = append(initials, initial)
	}
	sort.Strings(initials)

	for _, initial := range initials {
		list.Groups = append(list.Groups, ContactGroupDTO{Initial: initial, Contacts: buckets[initial]})
	}
	return list
}
