package api

import "user-auth/internal/service"

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Email     string  `json:"email" form:"email" validate:"required,email" example:"bob@example.com"`
	Password  *string `json:"password" form:"password" validate:"required" example:"Secret123!"`
	FirstName *string `json:"first_name" form:"first_name" validate:"required" example:"Bob"`
	LastName  *string `json:"last_name" form:"last_name" validate:"required" example:"Builder"`
	IsAdmin   bool    `json:"is_admin" form:"is_admin" example:"false"`
}

func (r CreateUserRequest) NewUser() service.NewUser {
	return service.NewUser{
		Email:     r.Email,
		Password:  value(r.Password),
		FirstName: value(r.FirstName),
		LastName:  value(r.LastName),
	}
}
