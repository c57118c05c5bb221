package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/polynux/kanap-openclassrooms/models"
)

// Field names match the form inputs and the JSON keys of models.Contact.
type Field string

const (
	FirstName Field = "firstName"
	LastName  Field = "lastName"
	Address   Field = "address"
	City      Field = "city"
	Email     Field = "email"
)

// Fields in form order.
var Fields = []Field{FirstName, LastName, Address, City, Email}

var ErrUnknownField = errors.New("unknown form field")

var (
	nameRe    = regexp.MustCompile(`^\p{L}+(?:[ '\-]\p{L}+)*$`)
	addressRe = regexp.MustCompile(`^[\p{L}0-9 ]+$`)
	emailRe   = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)
)

type rule struct {
	tag     string
	message string
}

var rules = map[Field]rule{
	FirstName: {"required,kanap_name", "Votre prénom ne doit contenir que des lettres"},
	LastName:  {"required,kanap_name", "Votre nom ne doit contenir que des lettres"},
	Address:   {"required,kanap_address", "Votre adresse ne doit contenir que des lettres, des chiffres et des espaces"},
	City:      {"required,kanap_name", "Votre ville ne doit contenir que des lettres"},
	Email:     {"required,kanap_email", "Votre email n'est pas valide"},
}

// Message is the static error shown under an invalid field.
func Message(f Field) string {
	return rules[f].message
}

// FieldState tracks a form field: untouched until first checked, then valid or invalid.
type FieldState int

const (
	Untouched FieldState = iota
	Valid
	Invalid
)

func (s FieldState) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "untouched"
	}
}

func (s FieldState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FieldErrors maps each invalid field to its message. Valid fields are absent.
type FieldErrors map[Field]string

func (e FieldErrors) Get(f string) string {
	return e[Field(f)]
}

// Validator checks the checkout form.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "kanap_name", nameRe)
	mustRegister(v, "kanap_address", addressRe)
	mustRegister(v, "kanap_email", emailRe)
	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Check validates one field, as done when the user leaves it.
// It returns the field's new state and the message to show, if any.
func (v *Validator) Check(field Field, value string) (FieldState, string, error) {
	r, ok := rules[field]
	if !ok {
		return Untouched, "", ErrUnknownField
	}
	if err := v.v.Var(strings.TrimSpace(value), r.tag); err != nil {
		return Invalid, r.message, nil
	}
	return Valid, "", nil
}

// Validate checks every field of the form.
func (v *Validator) Validate(c models.Contact) FieldErrors {
	errs := FieldErrors{}
	err := v.v.Struct(Normalize(c))
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		for _, f := range Fields {
			errs[f] = Message(f)
		}
		return errs
	}
	for _, fe := range verrs {
		f := Field(fe.Field())
		if _, known := rules[f]; known {
			errs[f] = Message(f)
		}
	}
	return errs
}

// Normalize trims surrounding whitespace from every field.
func Normalize(c models.Contact) models.Contact {
	return models.Contact{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Address:   strings.TrimSpace(c.Address),
		City:      strings.TrimSpace(c.City),
		Email:     strings.TrimSpace(c.Email),
	}
}
