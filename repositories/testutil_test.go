package repositories

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sldmxm/yatube-final/config"
	"github.com/sldmxm/yatube-final/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.InitTest()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.PageView{},
		&models.UploadedFile{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createGroup(t *testing.T, db *gorm.DB, title, slug string) models.Group {
	t.Helper()
	group := models.Group{Title: title, Slug: slug}
	require.NoError(t, db.Create(&group).Error)
	return group
}

// createPost inserts a post with an explicit publication time so ordering
// assertions are deterministic.
func createPost(t *testing.T, db *gorm.DB, author models.User, group *models.Group, text string, pubDate time.Time) models.Post {
	t.Helper()
	post := models.Post{Text: text, UserID: author.ID, PubDate: pubDate}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}
