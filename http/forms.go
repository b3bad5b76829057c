package http

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"yatube/domain"
	"yatube/errs"
)

var validate = newValidator()

// newValidator returns a validator reporting fields by their form name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// nonFieldErrors is the key of errors that don't belong to a single field.
const nonFieldErrors = "__all__"

// fieldErrors maps form field names to the errors shown next to them.
type fieldErrors map[string][]string

func (fe fieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// AddErr adds the user facing message of err. Internal errors are returned
// instead, since they aren't the user's fault.
func (fe fieldErrors) AddErr(field string, err error) error {
	if errs.ErrorCode(err) == errs.EINTERNAL {
		return err
	}
	fe.Add(field, errs.ErrorMessage(err))
	return nil
}

func (fe fieldErrors) Valid() bool {
	return len(fe) == 0
}

// check validates a form struct and returns its field errors.
func check(form interface{}) fieldErrors {
	fe := fieldErrors{}
	err := validate.Struct(form)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, v := range verrs {
			fe.Add(v.Field(), message(v))
		}
	} else if err != nil {
		fe.Add(nonFieldErrors, err.Error())
	}
	return fe
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "number":
		return "Select a valid choice."
	}
	return "Enter a valid value."
}

// parseForm parses url encoded as well as multipart bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(domain.MaxUploadSize)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

type postForm struct {
	Text   string      `form:"text" validate:"required"`
	Group  string      `form:"group" validate:"omitempty,number"`
	Errors fieldErrors `form:"-" validate:"-"`

	// Groups are the choices for the group field.
	Groups []domain.Group `form:"-" validate:"-"`
	// Image is the name of the current image of an edited post.
	Image string `form:"-" validate:"-"`
}

func (f postForm) SelectedGroup(id int) bool {
	return f.Group == fmt.Sprint(id)
}

func parsePostForm(r *http.Request) postForm {
	return postForm{
		Text:  strings.TrimSpace(r.PostFormValue("text")),
		Group: strings.TrimSpace(r.PostFormValue("group")),
	}
}

type commentForm struct {
	Text   string      `form:"text" validate:"required"`
	Errors fieldErrors `form:"-" validate:"-"`
}

func parseCommentForm(r *http.Request) commentForm {
	return commentForm{
		Text: strings.TrimSpace(r.PostFormValue("text")),
	}
}

type signupForm struct {
	Username string      `form:"username" validate:"required,max=150"`
	Email    string      `form:"email" validate:"omitempty,email"`
	Password string      `form:"password" validate:"required,min=8"`
	Errors   fieldErrors `form:"-" validate:"-"`
}

func parseSignupForm(r *http.Request) signupForm {
	return signupForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
}

type loginForm struct {
	Username string      `form:"username" validate:"required"`
	Password string      `form:"password" validate:"required"`
	Next     string      `form:"-" validate:"-"`
	Errors   fieldErrors `form:"-" validate:"-"`
}

func parseLoginForm(r *http.Request) loginForm {
	return loginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
		Next:     r.FormValue("next"),
	}
}
