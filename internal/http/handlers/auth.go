package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/clubhouse/messageboard/internal/config"
	"github.com/clubhouse/messageboard/internal/domain/user"
	"github.com/clubhouse/messageboard/internal/observability"
	"github.com/clubhouse/messageboard/internal/repo/postgres"
	"github.com/clubhouse/messageboard/internal/security"
	"github.com/gin-gonic/gin"
)

// Keep these interfaces small so tests can fake them easily.

type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, email, firstName, lastName, passwordHash, passwordSalt string) (user.User, error)
}

type SessionWriter interface {
	LogIn(c *gin.Context, userID string) error
	LogOut(c *gin.Context) error
}

type AuthHandler struct {
	users    UserDirectory
	sessions SessionWriter
	prom     *observability.Prom
}

func NewAuthHandler(users UserDirectory, sessions SessionWriter, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		prom:     prom,
	}
}

func (h *AuthHandler) authResult(flow, result string) {
	if h.prom != nil {
		h.prom.AuthResults.WithLabelValues(flow, result).Inc()
	}
}

type SignupForm struct {
	FirstName       string `form:"firstname" validate:"required"`
	LastName        string `form:"lastname" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	PasswordConfirm string `form:"password_confirm" validate:"eqfield=Password"`
}

var signupMessages = map[string]string{
	"firstname":        "First name must not be empty",
	"lastname":         "Last name must not be empty",
	"email":            "Please fill a valid email address",
	"password":         "Password length must be 6 or higher",
	"password_confirm": "The password and confirm password values did not match",
}

type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (h *AuthHandler) SignupForm(ctx *gin.Context) {
	Render(ctx, http.StatusOK, "signup_form.tmpl", gin.H{"title": "Sign Up"})
}

func (h *AuthHandler) Signup(ctx *gin.Context) {
	var form SignupForm

	if err := BindForm(ctx, &form); err != nil {
		RenderError(ctx, http.StatusBadRequest, "Invalid form submission", err)
		return
	}

	fieldErrors := ValidateForm(form, signupMessages)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	// duplicate check up front so the error renders alongside the others;
	// the unique index still catches races at insert time
	if form.Email != "" {
		_, err := h.users.GetByEmail(cctx, form.Email)

		if err == nil {
			fieldErrors = append(fieldErrors, FieldError{Field: "email", Message: "Email already in use"})
		} else if !errors.Is(err, postgres.ErrUserNotFound) {
			RenderError(ctx, http.StatusInternalServerError, "Could not create user", err)
			return
		}
	}

	if len(fieldErrors) > 0 {
		h.authResult("signup", "rejected")
		h.renderSignup(ctx, form, fieldErrors)
		return
	}

	hash, salt, err := security.GeneratePassword(form.Password)

	if err != nil {
		h.authResult("signup", "error")
		RenderError(ctx, http.StatusInternalServerError, "Could not create user", err)
		return
	}

	_, err = h.users.Create(cctx, form.Email, form.FirstName, form.LastName, hash, salt)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailAlreadyUsed) {
			h.authResult("signup", "rejected")
			h.renderSignup(ctx, form, []FieldError{{Field: "email", Message: "Email already in use"}})
			return
		}

		h.authResult("signup", "error")
		RenderError(ctx, http.StatusInternalServerError, "Could not create user", err)
		return
	}

	h.authResult("signup", "ok")

	// no auto-login after signup; the new user lands on the board anonymous
	ctx.Redirect(http.StatusSeeOther, "/")
}

// re-render with the sanitized values; password fields are never echoed back
func (h *AuthHandler) renderSignup(ctx *gin.Context, form SignupForm, fieldErrors []FieldError) {
	Render(ctx, http.StatusOK, "signup_form.tmpl", gin.H{
		"title":  "Sign Up",
		"errors": fieldErrors,
		"form": gin.H{
			"firstname": form.FirstName,
			"lastname":  form.LastName,
			"email":     form.Email,
		},
	})
}

func (h *AuthHandler) LoginForm(ctx *gin.Context) {
	Render(ctx, http.StatusOK, "login_form.tmpl", gin.H{"title": "Login"})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var form LoginForm

	if err := BindForm(ctx, &form); err != nil {
		ctx.Redirect(http.StatusSeeOther, "/login_failure")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, form.Email)

	if err != nil {
		// unknown email and wrong password take the same exit
		h.authResult("login", "rejected")
		ctx.Redirect(http.StatusSeeOther, "/login_failure")
		return
	}

	if !security.VerifyPassword(form.Password, foundUser.PasswordHash, foundUser.PasswordSalt) {
		h.authResult("login", "rejected")
		ctx.Redirect(http.StatusSeeOther, "/login_failure")
		return
	}

	err = h.sessions.LogIn(ctx, foundUser.ID)

	if err != nil {
		h.authResult("login", "error")
		RenderError(ctx, http.StatusInternalServerError, "Could not create session", err)
		return
	}

	h.authResult("login", "ok")
	ctx.Redirect(http.StatusSeeOther, "/login_success")
}

func (h *AuthHandler) LoginSuccess(ctx *gin.Context) {
	ctx.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) LoginFailure(ctx *gin.Context) {
	Render(ctx, http.StatusOK, "login_form.tmpl", gin.H{
		"title":          "Login",
		"failureMessage": "Email or password is incorrect",
	})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	err := h.sessions.LogOut(ctx)

	if err != nil {
		// cookie is cleared regardless; losing the store entry cleanup is
		// survivable, the entry expires on its own
		h.authResult("logout", "error")
	}

	ctx.Redirect(http.StatusFound, "/")
}
