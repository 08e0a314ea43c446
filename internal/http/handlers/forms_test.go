package handlers

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func bindOn(t *testing.T, values url.Values, out interface{}) {
	t.Helper()

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest("POST", "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ctx.Request = req

	if err := BindForm(ctx, out); err != nil {
		t.Fatalf("BindForm failed: %v", err)
	}
}

func TestBindFormTrimsStringFields(t *testing.T) {
	var form SignupForm

	bindOn(t, url.Values{
		"firstname": {"  Ann  "},
		"lastname":  {"\tLee\n"},
		"email":     {" ann@example.com "},
	}, &form)

	if form.FirstName != "Ann" || form.LastName != "Lee" || form.Email != "ann@example.com" {
		t.Errorf("fields not trimmed: %+v", form)
	}
}

func TestValidateFormUsesMessageOverrides(t *testing.T) {
	form := SignupForm{
		FirstName:       "",
		LastName:        "Lee",
		Email:           "bad-email",
		Password:        "abc",
		PasswordConfirm: "abc",
	}

	fieldErrors := ValidateForm(form, signupMessages)

	got := map[string]string{}
	for _, fe := range fieldErrors {
		got[fe.Field] = fe.Message
	}

	want := map[string]string{
		"firstname": "First name must not be empty",
		"email":     "Please fill a valid email address",
		"password":  "Password length must be 6 or higher",
	}

	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %q: got %q, want %q", field, got[field], msg)
		}
	}

	if _, ok := got["lastname"]; ok {
		t.Error("valid field reported an error")
	}
}

func TestValidateFormPassesOnValidInput(t *testing.T) {
	form := SignupForm{
		FirstName:       "Ann",
		LastName:        "Lee",
		Email:           "ann@example.com",
		Password:        "secret1",
		PasswordConfirm: "secret1",
	}

	if fieldErrors := ValidateForm(form, signupMessages); len(fieldErrors) != 0 {
		t.Errorf("unexpected errors: %v", fieldErrors)
	}
}

func TestValidationMessageFallbacks(t *testing.T) {
	tests := []struct {
		rule  string
		param string
		want  string
	}{
		{"required", "", "is required"},
		{"min", "6", "must be at least 6"},
		{"email", "", "must be a valid email address"},
		{"eqfield", "Password", "must match Password"},
		{"uuid", "", "failed uuid validation"},
	}

	for _, tt := range tests {
		if got := validationMessage(tt.rule, tt.param); got != tt.want {
			t.Errorf("validationMessage(%q, %q) = %q, want %q", tt.rule, tt.param, got, tt.want)
		}
	}
}
