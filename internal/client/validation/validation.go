// Package validation checks the login and registration forms before they
// reach the session manager. The manager itself accepts any input.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/go-playground/validator"
)

// DateLayout is the accepted date of birth format.
const DateLayout = "2006-01-02"

// LoginForm is the input of the login command.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// RegisterForm is the input of the register command.
type RegisterForm struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8,strongpassword"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	Phone           string `validate:"omitempty,phone"`
	DateOfBirth     string `validate:"omitempty,pastdate"`

	// ZipCode and Terms are checked here but never stored.
	ZipCode string `validate:"omitempty,zipcode"`
	Terms   bool   `validate:"accepted"`
}

// RegisterData converts the form into the manager input.
func (f RegisterForm) RegisterData() models.RegisterData {
	return models.RegisterData{
		Email:       strings.TrimSpace(f.Email),
		Password:    f.Password,
		FirstName:   strings.TrimSpace(f.FirstName),
		LastName:    strings.TrimSpace(f.LastName),
		Phone:       strings.TrimSpace(f.Phone),
		DateOfBirth: strings.TrimSpace(f.DateOfBirth),
	}
}

// FieldError is one failed rule, reported with a readable message.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors lists every failed rule of a form.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field failed any rule.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

var (
	phoneRe = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// Validator wraps a configured validator.Validate.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New returns a Validator with the custom rules registered.
func New() *Validator {
	return newValidator(time.Now)
}

func newValidator(now func() time.Time) *Validator {
	val := &Validator{v: validator.New(), now: now}

	// Registration only fails on an empty tag name or a nil func.
	_ = val.v.RegisterValidation("strongpassword", strongPassword)
	_ = val.v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = val.v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		return zipRe.MatchString(fl.Field().String())
	})
	_ = val.v.RegisterValidation("accepted", func(fl validator.FieldLevel) bool {
		return fl.Field().Bool()
	})
	_ = val.v.RegisterValidation("pastdate", func(fl validator.FieldLevel) bool {
		d, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil && d.Before(val.now())
	})
	return val
}

func strongPassword(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func (v *Validator) Login(f LoginForm) error {
	f.Email = strings.TrimSpace(f.Email)
	return v.check(&f)
}

func (v *Validator) Register(f RegisterForm) error {
	f.Email = strings.TrimSpace(f.Email)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	f.ZipCode = strings.TrimSpace(f.ZipCode)
	return v.check(&f)
}

func (v *Validator) check(form any) error {
	err := v.v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "strongpassword":
		return "must contain an uppercase letter, a lowercase letter and a digit"
	case "eqfield":
		return "passwords do not match"
	case "phone":
		return "must contain only digits, spaces, dashes, parentheses and an optional leading +"
	case "pastdate":
		return "must be a past date in YYYY-MM-DD format"
	case "zipcode":
		return "must be 5 digits, optionally followed by a dash and 4 digits"
	case "accepted":
		return "must be accepted"
	default:
		return "is " + fe.Tag()
	}
}
