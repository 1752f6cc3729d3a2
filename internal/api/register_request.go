package api

import "user-auth/internal/service"

// RegisterRequest 欄位缺少時驗證失敗；空字串的密碼與姓名照常接受
// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Email     string  `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	Password  *string `json:"password" form:"password" validate:"required" example:"Secret123!"`
	FirstName *string `json:"first_name" form:"first_name" validate:"required" example:"Alice"`
	LastName  *string `json:"last_name" form:"last_name" validate:"required" example:"Liddell"`
}

func (r RegisterRequest) NewUser() service.NewUser {
	return service.NewUser{
		Email:     r.Email,
		Password:  value(r.Password),
		FirstName: value(r.FirstName),
		LastName:  value(r.LastName),
	}
}

func value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
