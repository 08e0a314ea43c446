package handlers

import (
	"net/http"

	"github.com/clubhouse/messageboard/internal/session"
	"github.com/gin-gonic/gin"
)

// Render wraps ctx.HTML and makes the current user available to every
// template, so the nav bar can show login state without each handler
// repeating the lookup.
func Render(ctx *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if _, ok := data["user"]; !ok {
		if u, authed := session.CurrentUser(ctx); authed {
			data["user"] = u
		}
	}

	ctx.HTML(status, name, data)
}

// RenderError renders the generic error page. The underlying error is only
// shown outside release mode.
func RenderError(ctx *gin.Context, status int, message string, err error) {
	data := gin.H{
		"title":   "Something went wrong",
		"status":  status,
		"message": message,
	}

	if err != nil && gin.Mode() != gin.ReleaseMode {
		data["detail"] = err.Error()
	}

	Render(ctx, status, "error.tmpl", data)
}

func RenderNotFound(ctx *gin.Context) {
	RenderError(ctx, http.StatusNotFound, "Page not found", nil)
}
