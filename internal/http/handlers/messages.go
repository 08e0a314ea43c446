package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/clubhouse/messageboard/internal/config"
	"github.com/clubhouse/messageboard/internal/domain/message"
	"github.com/clubhouse/messageboard/internal/repo/postgres"
	"github.com/clubhouse/messageboard/internal/session"
	"github.com/gin-gonic/gin"
)

type MessageLister interface {
	ListWithAuthors(ctx context.Context) ([]message.Message, error)
}

type MessageStore interface {
	Create(ctx context.Context, title, body, authorID string) (message.Message, error)
	Delete(ctx context.Context, id string) error
}

type MessagesHandler struct {
	lister MessageLister
	store  MessageStore
}

func NewMessagesHandler(lister MessageLister, store MessageStore) *MessagesHandler {
	return &MessagesHandler{
		lister: lister,
		store:  store,
	}
}

type NewMessageForm struct {
	Title string `form:"title" validate:"required"`
	Body  string `form:"message" validate:"required"`
}

var newMessageMessages = map[string]string{
	"title":   "Please add a title to your message",
	"message": "Your message must contain at least 1 character",
}

type DeleteMessageForm struct {
	MessageID string `form:"messageid"`
}

func (h *MessagesHandler) Index(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	messages, err := h.lister.ListWithAuthors(cctx)

	if err != nil {
		RenderError(ctx, http.StatusInternalServerError, "Could not load messages", err)
		return
	}

	Render(ctx, http.StatusOK, "index.tmpl", gin.H{
		"title":    "Message Board",
		"messages": messages,
	})
}

func (h *MessagesHandler) NewMessageForm(ctx *gin.Context) {
	Render(ctx, http.StatusOK, "new_message_form.tmpl", gin.H{"title": "New Message"})
}

func (h *MessagesHandler) CreateMessage(ctx *gin.Context) {
	var form NewMessageForm

	if err := BindForm(ctx, &form); err != nil {
		RenderError(ctx, http.StatusBadRequest, "Invalid form submission", err)
		return
	}

	// RequireAuth guards the route, but the author id comes from the session,
	// never from the form
	u, ok := session.CurrentUser(ctx)

	if !ok {
		ctx.Redirect(http.StatusSeeOther, "/")
		return
	}

	fieldErrors := ValidateForm(form, newMessageMessages)

	if len(fieldErrors) > 0 {
		Render(ctx, http.StatusOK, "new_message_form.tmpl", gin.H{
			"title":  "New Message",
			"errors": fieldErrors,
			"form": gin.H{
				"title":   form.Title,
				"message": form.Body,
			},
		})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err := h.store.Create(cctx, form.Title, form.Body, u.ID)

	if err != nil {
		if errors.Is(err, postgres.ErrEmptyMessage) {
			Render(ctx, http.StatusOK, "new_message_form.tmpl", gin.H{
				"title":  "New Message",
				"errors": []FieldError{{Field: "message", Message: "Your message must contain at least 1 character"}},
			})
			return
		}

		RenderError(ctx, http.StatusInternalServerError, "Could not save message", err)
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/")
}

// DeleteMessage is idempotent from the caller's side: a missing id deletes
// nothing and still redirects home.
func (h *MessagesHandler) DeleteMessage(ctx *gin.Context) {
	var form DeleteMessageForm

	if err := BindForm(ctx, &form); err != nil || form.MessageID == "" {
		ctx.Redirect(http.StatusSeeOther, "/")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.store.Delete(cctx, form.MessageID)

	if err != nil {
		RenderError(ctx, http.StatusInternalServerError, "Could not delete message", err)
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/")
}
