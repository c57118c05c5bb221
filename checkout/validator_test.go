package checkout

import (
	"testing"

	"github.com/polynux/kanap-openclassrooms/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContact() models.Contact {
	return models.Contact{
		FirstName: "Hélène",
		LastName:  "Le Goff",
		Address:   "12 rue des Lilas",
		City:      "Saint-Étienne",
		Email:     "helene@example.fr",
	}
}

func TestValidateAcceptsValidForm(t *testing.T) {
	assert.Empty(t, NewValidator().Validate(validContact()))
}

func TestValidateInvalidEmailOnly(t *testing.T) {
	c := validContact()
	c.Email = "helene@"

	errs := NewValidator().Validate(c)

	require.Len(t, errs, 1)
	assert.Equal(t, "Votre email n'est pas valide", errs[Email])
}

func TestValidateEveryFieldEmpty(t *testing.T) {
	errs := NewValidator().Validate(models.Contact{})

	require.Len(t, errs, len(Fields))
	for _, f := range Fields {
		assert.Equal(t, Message(f), errs[f])
	}
}

func TestCheckField(t *testing.T) {
	v := NewValidator()
	cases := []struct {
		field Field
		value string
		want  FieldState
	}{
		{FirstName, "Ada", Valid},
		{FirstName, "Ada42", Invalid},
		{FirstName, "  Jean-Pierre ", Valid},
		{LastName, "O'Neil", Valid},
		{LastName, "", Invalid},
		{Address, "10 Downing Street", Valid},
		{Address, "10, Downing Street", Invalid},
		{City, "Paris", Valid},
		{City, "75001", Invalid},
		{Email, "a.b@c.io", Valid},
		{Email, "a@[127.0.0.1]", Valid},
		{Email, "a@b", Invalid},
		{Email, "not an email", Invalid},
	}
	for _, tc := range cases {
		t.Run(string(tc.field)+"/"+tc.value, func(t *testing.T) {
			state, msg, err := v.Check(tc.field, tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, state)
			if tc.want == Invalid {
				assert.Equal(t, Message(tc.field), msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestCheckUnknownField(t *testing.T) {
	state, _, err := NewValidator().Check("phone", "0600000000")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, Untouched, state)
}

func TestFieldStateText(t *testing.T) {
	b, err := Invalid.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "invalid", string(b))
	assert.Equal(t, "untouched", Untouched.String())
}
