package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/clubhouse/messageboard/internal/config"
	"github.com/clubhouse/messageboard/internal/http/handlers"
	"github.com/clubhouse/messageboard/internal/http/middlewares"
	"github.com/clubhouse/messageboard/internal/observability"
	"github.com/clubhouse/messageboard/internal/repo/postgres"
	"github.com/clubhouse/messageboard/internal/session"
	"github.com/clubhouse/messageboard/web"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, store *session.RedisStore, cfg config.Config, prom *observability.Prom, reg *prometheus.Registry) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.CustomRecovery(func(ctx *gin.Context, recovered interface{}) {
		log.Error("panic recovered", "err", recovered)
		handlers.RenderError(ctx, http.StatusInternalServerError, "Something went wrong", nil)
	}))
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// server-rendered views + form helper scripts
	r.SetHTMLTemplate(web.Templates())
	r.StaticFS("/static", web.Static())

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	messagesRepo := postgres.NewMessagesRepo(pool, prom)

	// session resolution runs before every route
	sessions := session.NewManager(store, usersRepo, cfg.Secret, cfg.SessionTTL, cfg.Env == "prod")
	r.Use(sessions.Resolve())

	// health
	pingDB := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	pingRedis := func() error {
		if store == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return store.Ping(ctx)
	}

	// wire up handlers
	h := handlers.NewHealthHandler(pingDB, pingRedis)
	authHandler := handlers.NewAuthHandler(usersRepo, sessions, prom)
	messagesHandler := handlers.NewMessagesHandler(messagesRepo, messagesRepo)
	membershipHandler := handlers.NewMembershipHandler(usersRepo, cfg.MemberPassword, cfg.AdminPassword, prom)

	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	// board
	r.GET("/", messagesHandler.Index)

	// signup / login flows
	r.GET("/signup", authHandler.SignupForm)
	r.POST("/signup", authHandler.Signup)
	r.GET("/login", authHandler.LoginForm)
	r.POST("/login", authHandler.Login)
	r.GET("/login_success", authHandler.LoginSuccess)
	r.GET("/login_failure", authHandler.LoginFailure)
	r.GET("/logout", authHandler.Logout)

	// authenticated-only routes
	r.GET("/new_message", middlewares.RequireAuth(), messagesHandler.NewMessageForm)
	r.POST("/new_message", middlewares.RequireAuth(), messagesHandler.CreateMessage)
	r.GET("/join_membership", middlewares.RequireAuth(), membershipHandler.JoinMembershipForm)
	r.POST("/join_membership", middlewares.RequireAuth(), membershipHandler.JoinMembership)
	r.GET("/admin", middlewares.RequireAuth(), membershipHandler.JoinAdminForm)
	r.POST("/admin", middlewares.RequireAuth(), membershipHandler.JoinAdmin)

	// destructive, admin only
	r.POST("/delete_message", middlewares.RequireAuth(), middlewares.RequireAdmin(), messagesHandler.DeleteMessage)

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RenderNotFound(ctx)
	})

	return r
}
