package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskhive/config"
	"taskhive/models"
)

// newTestDB opens an in-memory database private to one test. The shared
// cache keeps gorm's pooled connections pointed at the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))
	return db
}

func newTestServices(t *testing.T) (*gorm.DB, *ListService, *ParticipantService, *TaskService) {
	t.Helper()
	db := newTestDB(t)
	logger := logrus.WithField("component", "test")
	lists := NewListService(db, logger)
	participants := NewParticipantService(db, logger, lists)
	tasks := NewTaskService(db, logger, lists)
	return db, lists, participants, tasks
}

func newTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		UID:          uuid.New().String(),
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Name:         strings.Split(email, "@")[0],
		Role:         models.GlobalRoleViewer,
		IsActive:     true,
		TokenVersion: 1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
