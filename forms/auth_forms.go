package forms

import "strings"

// SignupForm is the local account registration payload.
type SignupForm struct {
	Username string `form:"username" json:"username" validate:"required,min=2,max=64,alphanum"`
	Email    string `form:"email" json:"email" validate:"omitempty,email"`
	Password string `form:"password" json:"password" validate:"required,min=6,max=64"`
	Confirm  string `form:"confirm" json:"confirm" validate:"eqfield=Password"`
}

// Validate normalizes and checks the signup fields.
func (f SignupForm) Validate() (SignupForm, FieldErrors) {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	errs := FieldErrors{}
	if err := validate.Struct(f); err != nil {
		if verrs, ok := err.(validationErrorList); ok {
			for _, fe := range verrs {
				errs[strings.ToLower(fe.Field())] = validationMessage(fe)
			}
		}
	}
	if len(errs) > 0 {
		return f, errs
	}
	return f, nil
}

// LoginForm is the credential payload for login.
type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// Validate checks both credentials are present.
func (f LoginForm) Validate() (LoginForm, FieldErrors) {
	f.Username = strings.TrimSpace(f.Username)

	errs := FieldErrors{}
	if err := validate.Struct(f); err != nil {
		if verrs, ok := err.(validationErrorList); ok {
			for _, fe := range verrs {
				errs[strings.ToLower(fe.Field())] = validationMessage(fe)
			}
		}
	}
	if len(errs) > 0 {
		return f, errs
	}
	return f, nil
}
