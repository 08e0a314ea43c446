package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/clubhouse/messageboard/internal/config"
	"github.com/clubhouse/messageboard/internal/domain/user"
	"github.com/clubhouse/messageboard/internal/observability"
	"github.com/clubhouse/messageboard/internal/session"
	"github.com/gin-gonic/gin"
)

type RoleWriter interface {
	SetMembership(ctx context.Context, id, membership string) error
	SetAdmin(ctx context.Context, id string, admin bool) error
}

// MembershipHandler runs the two secret-phrase elevation flows. Both routes
// sit behind RequireAuth; the phrases are compared exactly, with no lockout.
type MembershipHandler struct {
	users        RoleWriter
	memberSecret string
	adminSecret  string
	prom         *observability.Prom
}

func NewMembershipHandler(users RoleWriter, memberSecret, adminSecret string, prom *observability.Prom) *MembershipHandler {
	return &MembershipHandler{
		users:        users,
		memberSecret: memberSecret,
		adminSecret:  adminSecret,
		prom:         prom,
	}
}

func (h *MembershipHandler) elevationResult(flow, result string) {
	if h.prom != nil {
		h.prom.AuthResults.WithLabelValues(flow, result).Inc()
	}
}

type SecretPhraseForm struct {
	Password string `form:"password"`
}

func (h *MembershipHandler) JoinMembershipForm(ctx *gin.Context) {
	Render(ctx, http.StatusOK, "join_membership_form.tmpl", gin.H{"title": "Enter secret password"})
}

func (h *MembershipHandler) JoinMembership(ctx *gin.Context) {
	var form SecretPhraseForm

	_ = ctx.ShouldBind(&form)

	u, ok := session.CurrentUser(ctx)

	if !ok {
		ctx.Redirect(http.StatusSeeOther, "/")
		return
	}

	// an empty configured secret never matches
	if h.memberSecret == "" || form.Password != h.memberSecret {
		h.elevationResult("join_membership", "rejected")
		Render(ctx, http.StatusOK, "join_membership_form.tmpl", gin.H{
			"title": "Enter secret password",
			"error": "Secret password is incorrect",
		})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.users.SetMembership(cctx, u.ID, user.MembershipMember)

	if err != nil {
		h.elevationResult("join_membership", "error")
		RenderError(ctx, http.StatusInternalServerError, "Could not update membership", err)
		return
	}

	h.elevationResult("join_membership", "ok")
	ctx.Redirect(http.StatusSeeOther, "/")
}

func (h *MembershipHandler) JoinAdminForm(ctx *gin.Context) {
	Render(ctx, http.StatusOK, "join_admin_form.tmpl", gin.H{"title": "Enter admin password"})
}

func (h *MembershipHandler) JoinAdmin(ctx *gin.Context) {
	var form SecretPhraseForm

	_ = ctx.ShouldBind(&form)

	u, ok := session.CurrentUser(ctx)

	if !ok {
		ctx.Redirect(http.StatusSeeOther, "/")
		return
	}

	if h.adminSecret == "" || form.Password != h.adminSecret {
		h.elevationResult("join_admin", "rejected")
		Render(ctx, http.StatusOK, "join_admin_form.tmpl", gin.H{
			"title": "Enter admin password",
			"error": "Admin password is incorrect",
		})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.users.SetAdmin(cctx, u.ID, true)

	if err != nil {
		h.elevationResult("join_admin", "error")
		RenderError(ctx, http.StatusInternalServerError, "Could not update admin flag", err)
		return
	}

	h.elevationResult("join_admin", "ok")
	ctx.Redirect(http.StatusSeeOther, "/")
}
