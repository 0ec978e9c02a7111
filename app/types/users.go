package types

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewRegisterUserRequestFromContext(ctx echo.Context) (*RegisterUserRequest, error) {
	var body RegisterUserRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	return &body, nil
}

func (r *RegisterUserRequest) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(r.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

type RegisterUserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  uint64 `json:"userId"`
}
