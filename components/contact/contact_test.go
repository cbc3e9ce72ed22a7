package contact

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/folio/internal/form"
)

const (
	msgName         = "Please enter your name."
	msgEmail        = "Please enter your email."
	msgEmailInvalid = "Please enter a valid email address."
	msgMessage      = "Please enter a message."
)

func TestBuiltinDefinition(t *testing.T) {
	fd := definition()
	require.NoError(t, checkDefinition(fd))
	assert.Equal(t, "Thanks! Your message has been validated locally.", fd.Success)
	assert.Equal(t, "Please fix the errors above and try again.", fd.Failure)
	assert.Equal(t, []string{"name", "email", "message"}, fd.FieldNames())
}

func TestValidate_BlankNameOnlyFlagsName(t *testing.T) {
	for _, name := range []string{"", " ", "\t\n", "\u00a0"} {
		got := Validate(FieldValues{Name: name, Email: "jane@example.com", Message: "Hello"})
		assert.Equal(t, form.Errors{"name": msgName}, got, "name %q", name)
	}
}

func TestValidate_MalformedEmail(t *testing.T) {
	for _, email := range []string{"foo", "foo@bar", "@bar.com", "a b@c.d", "a@b@c.d", "a@b."} {
		got := Validate(FieldValues{Name: "Jane", Email: email, Message: "Hello"})
		assert.Equal(t, form.Errors{"email": msgEmailInvalid}, got, "email %q", email)
	}
}

func TestValidate_EmptyEmailWinsOverShape(t *testing.T) {
	got := Validate(FieldValues{Name: "Jane", Email: "   ", Message: "Hello"})
	assert.Equal(t, form.Errors{"email": msgEmail}, got)
}

func TestValidate_ValidInput(t *testing.T) {
	cases := []FieldValues{
		{Name: "Jane", Email: "jane@example.com", Message: "Hello"},
		{Name: "  J ", Email: " a@b.co ", Message: "\nhi\n"},
	}
	for _, v := range cases {
		assert.Empty(t, Validate(v), "%+v", v)
	}
}

func TestValidate_AllEmpty(t *testing.T) {
	want := form.Errors{"name": msgName, "email": msgEmail, "message": msgMessage}
	if diff := cmp.Diff(want, Validate(FieldValues{})); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	v := FieldValues{Name: "", Email: "x", Message: "hi"}
	assert.Equal(t, Validate(v), Validate(v))
}

func TestController_MountsIdle(t *testing.T) {
	c := NewController()
	assert.Equal(t, form.StatusIdle, c.Status())
	assert.Empty(t, c.Errors())
	assert.Equal(t, FieldValues{}, c.Values())
}

func TestController_SubmitValid(t *testing.T) {
	c := NewController()
	res := c.Submit(FieldValues{Name: "Jane", Email: "jane@example.com", Message: "Hello"})

	assert.Equal(t, form.StatusSuccess, res.Status)
	assert.Empty(t, res.Errors)
	assert.Equal(t, FieldValues{}, res.Values)
	assert.Equal(t, res, c.Result())
}

func TestController_SubmitInvalid(t *testing.T) {
	c := NewController()
	in := FieldValues{Name: "", Email: "x", Message: "hi"}
	res := c.Submit(in)

	assert.Equal(t, form.StatusError, res.Status)
	assert.Equal(t, form.Errors{"name": msgName, "email": msgEmailInvalid}, res.Errors)
	assert.Equal(t, in, res.Values)
}

func TestController_StatusNeverReturnsToIdle(t *testing.T) {
	c := NewController()
	c.Submit(FieldValues{})
	c.Submit(FieldValues{Name: "Jane", Email: "jane@example.com", Message: "Hello"})
	assert.Equal(t, form.StatusSuccess, c.Status())

	res := c.Submit(FieldValues{Name: "Jane", Email: "bad", Message: "Hello"})
	assert.Equal(t, form.StatusError, res.Status)
	assert.Equal(t, form.Errors{"email": msgEmailInvalid}, res.Errors, "errors replaced, not merged")

	c.Reset()
	assert.Equal(t, form.StatusIdle, c.Status())
	assert.Equal(t, FieldValues{}, c.Values())
}

func TestCheckDefinition_MissingField(t *testing.T) {
	fd, err := form.ParseFormDef([]byte(`
id: contact
fields:
  - name: name
    label: Name
  - name: email
    label: Email
`), "override.yaml")
	require.NoError(t, err)
	assert.ErrorContains(t, checkDefinition(fd), `"message"`)
}
