package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/modules/auth"
	"github.com/inkpress/core/internal/modules/contact"
	"github.com/inkpress/core/internal/modules/content/author"
	"github.com/inkpress/core/internal/modules/content/category"
	"github.com/inkpress/core/internal/modules/content/comment"
	"github.com/inkpress/core/internal/modules/content/post"
	"github.com/inkpress/core/internal/modules/onboarding/authorrequest"
	"github.com/inkpress/core/internal/modules/storage/backup"
	"github.com/inkpress/core/internal/modules/storage/file"
	"github.com/inkpress/core/internal/modules/user"
	"github.com/inkpress/core/internal/pkg/response"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func (a *App) registerRoutes(authSvc *auth.Service) error {
	r := a.router
	db := a.db
	log := a.logger

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	// Identity is resolved for every route so rate limiting can exempt signed-in callers.
	r.Use(middleware.OptionalAuth(db))
	if a.rc != nil {
		r.Use(middleware.RateLimit(a.rc.Raw(), log))
		r.Use(middleware.Idempotence(a.rc.Raw()))
	}

	requireUser := middleware.RequireAuthenticated()
	root := r.Group("")
	admin := r.Group("/admin", middleware.RequireAdmin(a.enforcer))

	// Shared services
	postSvc := post.NewService(db, post.WithLogger(log))

	auth.NewHandler(authSvc, postSvc, !a.cfg.IsDev()).RegisterRoutes(root, requireUser)

	postHandler := post.NewHandler(postSvc)
	postHandler.RegisterRoutes(root, requireUser)
	postHandler.RegisterAdminRoutes(admin)

	comment.NewHandler(comment.NewService(db, comment.WithLogger(log))).RegisterRoutes(root, requireUser)

	categoryHandler := category.NewHandler(category.NewService(db))
	categoryHandler.RegisterRoutes(root)
	categoryHandler.RegisterAdminRoutes(admin)

	authorHandler := author.NewHandler(author.NewService(db))
	authorHandler.RegisterRoutes(root)
	authorHandler.RegisterAdminRoutes(admin)

	requestHandler := authorrequest.NewHandler(authorrequest.NewService(db, authorrequest.WithLogger(log)))
	requestHandler.RegisterRoutes(root, requireUser)
	requestHandler.RegisterAdminRoutes(admin)

	contactHandler := contact.NewHandler(contact.NewService(db, log))
	contactHandler.RegisterRoutes(root)
	contactHandler.RegisterAdminRoutes(admin)

	user.NewHandler(user.NewService(db)).RegisterAdminRoutes(admin)
	backup.NewHandler(backup.NewService(db, log)).RegisterAdminRoutes(admin)
	registerTaskRoutes(admin, a.sched)

	store, err := file.NewStorage(a.cfg)
	if err != nil {
		return fmt.Errorf("upload storage: %w", err)
	}
	log.Warn("POST /upload accepts anonymous requests", zap.String("storage", store.Name()))
	file.NewHandler(db, store, a.cfg.Upload, log).RegisterRoutes(root)

	return nil
}
