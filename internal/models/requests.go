package models

// SignUpRequest is the sign-up form payload.
type SignUpRequest struct {
	Name     string `form:"name" validate:"required,min=3"`
	Email    string `form:"email" validate:"required,email,max=254"`
	Password string `form:"password" validate:"required,min=3"`
}

// SignInRequest is the sign-in form payload.
type SignInRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=3"`
}
