package api

import "user-auth/internal/model"

// swagger:model api.UserResponse
type UserResponse struct {
	Email     string `json:"email" example:"alice@example.com"`
	FirstName string `json:"first_name" example:"Alice"`
	LastName  string `json:"last_name" example:"Liddell"`
	IsAdmin   bool   `json:"is_admin" example:"false"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
	}
}
