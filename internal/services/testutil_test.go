package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Template{},
		&models.TemplateQuestion{},
		&models.TemplateOption{},
		&models.Survey{},
		&models.SurveyQuestion{},
	))
	return db
}

func seedAdmin(t *testing.T, db *gorm.DB) models.Admin {
	t.Helper()

	admin := models.Admin{Username: "admin", PasswordHash: "x"}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}
