// Package forms holds the input validation for every mutation handler.
// Each form binds request fields, sanitizes user-supplied HTML, and returns
// either a cleaned value or a map of field errors. Handlers consume the
// result uniformly: errors are always surfaced, never silently dropped.
package forms

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sldmxm/yatube-final/utils"
)

var validate = validator.New()

type validationErrorList = validator.ValidationErrors

// FieldErrors maps form field names to human readable messages.
type FieldErrors map[string]string

// PostForm is the submission payload for post create and edit.
type PostForm struct {
	Text  string `form:"text" json:"text"`
	Group string `form:"group" json:"group"` // group slug, optional
	Image string `form:"image" json:"image" validate:"omitempty,max=1024"`
}

// Validate sanitizes and checks the form. On success the returned form
// carries the cleaned values; otherwise the error map names each bad field.
func (f PostForm) Validate() (PostForm, FieldErrors) {
	errs := FieldErrors{}

	f.Text = utils.Sanitize(strings.TrimSpace(f.Text))
	if f.Text == "" {
		errs["text"] = "text must not be empty"
	}
	f.Group = strings.TrimSpace(f.Group)
	f.Image = strings.TrimSpace(f.Image)

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

// CommentForm is the submission payload for adding a comment.
type CommentForm struct {
	Text string `form:"text" json:"text"`
}

// Validate sanitizes and checks the comment text.
func (f CommentForm) Validate() (CommentForm, FieldErrors) {
	f.Text = utils.Sanitize(strings.TrimSpace(f.Text))
	if f.Text == "" {
		return f, FieldErrors{"text": "text must not be empty"}
	}
	return f, nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "too short (minimum " + fe.Param() + ")"
	case "max":
		return "too long (maximum " + fe.Param() + ")"
	case "email":
		return "must be a valid email address"
	case "alphanum":
		return "only letters and digits are allowed"
	case "eqfield":
		return "values do not match"
	default:
		return "invalid value"
	}
}
