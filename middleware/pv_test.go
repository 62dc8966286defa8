package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sldmxm/yatube-final/models"
)

func newPVTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PageView{}))
	return db
}

func newPVRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PageViewRecorder(db))
	ok := func(ctx *gin.Context) { ctx.Status(http.StatusOK) }
	r.GET("/", ok)
	r.GET("/posts/:id", ok)
	r.GET("/posts/:id/stats", ok)
	r.GET("/groups", ok)
	r.POST("/posts/:id/comment", ok)
	return r
}

func hit(r *gin.Engine, method, path string) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
}

func TestPageViewRecorderCountsContentPages(t *testing.T) {
	db := newPVTestDB(t)
	r := newPVRouter(db)

	hit(r, http.MethodGet, "/")
	hit(r, http.MethodGet, "/")
	hit(r, http.MethodGet, "/posts/1")

	var views []models.PageView
	require.NoError(t, db.Order("path ASC").Find(&views).Error)
	require.Len(t, views, 2)
	assert.Equal(t, "/", views[0].Path)
	assert.Equal(t, int64(2), views[0].Count)
	assert.Equal(t, "/posts/1", views[1].Path)
	assert.Equal(t, int64(1), views[1].Count)
}

func TestPageViewRecorderSkipsNonContent(t *testing.T) {
	db := newPVTestDB(t)
	r := newPVRouter(db)

	hit(r, http.MethodGet, "/groups")
	hit(r, http.MethodGet, "/posts/1/stats")
	hit(r, http.MethodPost, "/posts/1/comment")

	var count int64
	require.NoError(t, db.Model(&models.PageView{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestIsContentPath(t *testing.T) {
	assert.True(t, isContentPath("/"))
	assert.True(t, isContentPath("/follow"))
	assert.True(t, isContentPath("/group/cats"))
	assert.True(t, isContentPath("/profile/alice"))
	assert.True(t, isContentPath("/posts/7"))
	assert.False(t, isContentPath("/posts/7/stats"))
	assert.False(t, isContentPath("/groups"))
	assert.False(t, isContentPath("/auth/login"))
	assert.False(t, isContentPath("/static/img.png"))
}
