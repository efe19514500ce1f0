package dto

import "github.com/joinboard/join-api/internal/models"

// ActiveUserDTO is the session identity in API responses. The password
// hash never leaves the server.
type ActiveUserDTO struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Email    string `json:"email"`
	Color    string `json:"color"`
	Phone    string `json:"phone,omitempty"`
	Tasks    []int  `json:"tasks"`
	Contacts []int  `json:"contacts"`
	Guest    bool   `json:"guest"`
}

func ToActiveUserDTO(user *models.ActiveUser) ActiveUserDTO {
	return ActiveUserDTO{
		ID:       user.ID,
		Name:     user.Name,
		Initials: user.Initials,
		Email:    user.Email,
		Color:    user.Color,
		Phone:    user.Phone.String(),
		Tasks:    user.Tasks,
		Contacts: user.Contacts,
		Guest:    user.IsGuest(),
	}
}

// UserDTO is a stored account in API responses.
type UserDTO struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Email    string `json:"email"`
	Color    string `json:"color"`
}

func ToUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Name:     user.Name,
		Initials: user.Initials,
		Email:    user.Email,
		Color:    user.Color,
	}
}
