// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/config"
	"github.com/inkpress/core/internal/database"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/session"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain-text password of every fixture user.
const Password = "password123"

var dbSeq atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
}

// NewDB returns a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: dsn}, logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user whose password is Password.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.UserModel {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.UserModel{
		Username: username,
		Email:    username + "@example.com",
		Name:     strings.ToUpper(username[:1]) + username[1:],
		Password: string(hash),
		Role:     role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePost inserts a published post owned by author. Options run before insert.
func CreatePost(t *testing.T, db *gorm.DB, author *models.UserModel, slug string, opts ...func(*models.PostModel)) *models.PostModel {
	t.Helper()

	p := &models.PostModel{
		Title:     strings.ReplaceAll(slug, "-", " "),
		Slug:      slug,
		Content:   "content of " + slug,
		Excerpt:   "excerpt of " + slug,
		Category:  "general",
		AuthorID:  author.ID,
		Published: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Token issues a session-bound bearer token for user.
func Token(t *testing.T, db *gorm.DB, user *models.UserModel) string {
	t.Helper()

	token, _, err := session.Issue(db, user.ID, "127.0.0.1", "testutil", 0)
	require.NoError(t, err)
	return token
}

// Bearer formats an Authorization header value.
func Bearer(token string) string { return "Bearer " + token }
