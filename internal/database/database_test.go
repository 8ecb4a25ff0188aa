package database_test

import (
	"errors"
	"fmt"
	"testing"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/inkpress/core/internal/config"
	"github.com/inkpress/core/internal/database"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestIsDuplicateKey(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.CategoryModel{Name: "Go", Slug: "go"}).Error)

	err := db.Create(&models.CategoryModel{Name: "Golang", Slug: "go"}).Error
	require.Error(t, err)
	assert.True(t, database.IsDuplicateKey(err))

	assert.True(t, database.IsDuplicateKey(fmt.Errorf("insert: %w", &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"})))
	assert.False(t, database.IsDuplicateKey(&mysqlDriver.MySQLError{Number: 1045}))
	assert.False(t, database.IsDuplicateKey(errors.New("connection refused")))
	assert.False(t, database.IsDuplicateKey(nil))
}

func TestIsNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	var p models.PostModel
	err := db.First(&p, "id = ?", "missing").Error
	assert.True(t, database.IsNotFound(err))
	assert.True(t, database.IsNotFound(fmt.Errorf("load: %w", gorm.ErrRecordNotFound)))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(config.DatabaseConfig{Driver: "postgres"}, logger.Silent)
	assert.Error(t, err)
}
