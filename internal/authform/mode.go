// Package authform implements the sign-in / sign-up form: field sets,
// constraint selection and the submission flow.
package authform

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Goofygiraffe06/prepwise/internal/models"
	"github.com/Goofygiraffe06/prepwise/internal/utils"
	"github.com/Goofygiraffe06/prepwise/internal/validate"
)

type Mode string

const (
	SignIn Mode = "sign-in"
	SignUp Mode = "sign-up"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case SignIn, SignUp:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("authform: unknown mode %q", s)
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == SignUp {
		return SignIn
	}
	return SignUp
}

func (m Mode) IsSignIn() bool { return m == SignIn }

// Path is the route serving the mode's form.
func (m Mode) Path() string { return "/" + string(m) }

// Field describes one rendered input.
type Field struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
}

var (
	nameField     = Field{Name: "name", Label: "Name", Type: "text", Placeholder: "Your Name"}
	emailField    = Field{Name: "email", Label: "Email", Type: "email", Placeholder: "Your email address"}
	passwordField = Field{Name: "password", Label: "Password", Type: "password", Placeholder: "Enter your password"}
)

// Fields returns the inputs rendered for m, in display order.
func Fields(m Mode) []Field {
	if m == SignUp {
		return []Field{nameField, emailField, passwordField}
	}
	return []Field{emailField, passwordField}
}

// Schema returns the zero value of the payload type whose tags constrain m.
func Schema(m Mode) any {
	if m == SignUp {
		return models.SignUpRequest{}
	}
	return models.SignInRequest{}
}

// Constraints names the fields m's schema validates.
func Constraints(m Mode) []string {
	return validate.Fields(Schema(m))
}

// bind builds m's payload from posted values. Only m's fields are read.
func bind(m Mode, values url.Values) any {
	email := utils.NormalizeEmail(values.Get("email"))
	password := values.Get("password")
	if m == SignUp {
		return models.SignUpRequest{
			Name:     strings.TrimSpace(values.Get("name")),
			Email:    email,
			Password: password,
		}
	}
	return models.SignInRequest{Email: email, Password: password}
}
