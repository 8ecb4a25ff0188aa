package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	pkgcron "github.com/inkpress/core/internal/pkg/cron"
	"github.com/inkpress/core/internal/pkg/response"
	"github.com/inkpress/core/internal/pkg/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionRetention = 7 * 24 * time.Hour

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:        "purge_sessions",
		Description: "delete sessions expired or revoked more than 7 days ago",
		Interval:    6 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := session.Purge(db.WithContext(ctx), time.Now().Add(-sessionRetention))
			if err != nil {
				return err
			}
			cronLogger.Info("purged stale sessions", zap.Int64("count", n))
			return nil
		},
	})
}

func registerTaskRoutes(admin *gin.RouterGroup, sched *pkgcron.Scheduler) {
	tasks := admin.Group("/tasks")
	tasks.GET("", func(c *gin.Context) {
		response.OK(c, sched.List())
	})
	tasks.POST("/:name", func(c *gin.Context) {
		if err := sched.RunNow(c.Request.Context(), c.Param("name")); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		response.Message(c, "task finished")
	})
}
