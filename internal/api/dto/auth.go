package dto

import (
	"github.com/hugh/contractor-connect/internal/api/validation"
	"github.com/hugh/contractor-connect/internal/database/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() map[string]string {
	return validation.Required(
		validation.Field{Name: "name", Value: r.Name, Message: "Name is required"},
		validation.Field{Name: "email", Value: r.Email, Message: "Email is required"},
		validation.Field{Name: "password", Value: r.Password, Message: "Password is required"},
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
	}
}
