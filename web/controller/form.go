package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// LoginForm carries the login request fields.
type LoginForm struct {
	Username string `form:"username" binding:"required,min=4,max=15"`
	Password string `form:"password" binding:"required,min=8,max=80"`
	Remember bool   `form:"remember"`
}

// RegisterForm carries the registration request fields.
type RegisterForm struct {
	Email    string `form:"email" binding:"required,email,max=50"`
	Username string `form:"username" binding:"required,min=4,max=15"`
	Password string `form:"password" binding:"required,min=8,max=80"`
}

// fieldErrors translates a binding error into per-field messages keyed by the
// lowercased field name. A non-validator error maps to a single "form" entry.
func fieldErrors(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Invalid form data"
		return out
	}

	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "This field is required"
		case "min":
			out[field] = "Must be at least " + fe.Param() + " characters"
		case "max":
			out[field] = "Must be at most " + fe.Param() + " characters"
		case "email":
			out[field] = "Invalid email"
		default:
			out[field] = "Invalid value"
		}
	}
	return out
}
