package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sldmxm/yatube-final/config"
	"github.com/sldmxm/yatube-final/middleware"
	"github.com/sldmxm/yatube-final/models"
	"github.com/sldmxm/yatube-final/utils"
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

// newTestRouter registers the handler surface under test with the same
// middleware wiring the real router uses.
func newTestRouter(db *gorm.DB, cache utils.PageCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	blacklist := utils.NewTokenBlacklist(nil)

	r := gin.New()
	optional := middleware.OptionalAuth(blacklist)
	required := middleware.AuthRequired(blacklist)

	postController := NewPostController(db, cache)
	followController := NewFollowController(db)
	authController := NewAuthController(db, blacklist)
	groupController := NewGroupController(db, cache)
	statsController := NewStatsController(db)

	r.GET("/", optional, postController.Index)
	r.GET("/group/:slug", optional, postController.GroupPosts)
	r.GET("/profile/:username", optional, postController.Profile)
	r.GET("/posts/:id", optional, postController.PostDetail)
	r.GET("/groups", groupController.ListGroups)
	r.GET("/stats", statsController.GetStats)
	r.GET("/posts/:id/stats", statsController.GetPostStats)

	r.POST("/auth/signup", authController.Signup)
	r.GET("/auth/login", authController.LoginPage)
	r.POST("/auth/login", authController.Login)
	r.POST("/auth/logout", required, authController.Logout)
	r.GET("/auth/me", required, authController.Me)

	protected := r.Group("")
	protected.Use(required)
	protected.GET("/follow", postController.FollowIndex)
	protected.GET("/create", postController.CreatePostPage)
	protected.POST("/create", postController.CreatePost)
	protected.GET("/posts/:id/edit", postController.EditPostPage)
	protected.POST("/posts/:id/edit", postController.EditPost)
	protected.POST("/posts/:id/comment", postController.AddComment)
	protected.GET("/profile/:username/follow", followController.Follow)
	protected.GET("/profile/:username/unfollow", followController.Unfollow)
	protected.POST("/groups", groupController.CreateGroup)
	protected.DELETE("/groups/:slug", groupController.DeleteGroup)

	return r
}

func createUser(t *testing.T, db *gorm.DB, username, password string) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := models.User{Username: username, PasswordHash: hash}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createPost(t *testing.T, db *gorm.DB, author models.User, text string) models.Post {
	t.Helper()
	post := models.Post{Text: text, UserID: author.ID, PubDate: time.Now()}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func createGroup(t *testing.T, db *gorm.DB, title, slug string) models.Group {
	t.Helper()
	group := models.Group{Title: title, Slug: slug}
	require.NoError(t, db.Create(&group).Error)
	return group
}

func sessionCookie(t *testing.T, user models.User) *http.Cookie {
	t.Helper()
	token, err := utils.GenerateToken(user.ID, user.Username, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.AuthCookieName, Value: token}
}

func doGET(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	r.ServeHTTP(w, req)
	return w
}

func doForm(r *gin.Engine, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (int, map[string]interface{}) {
	t.Helper()
	var resp struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code, resp.Data
}

// memoryCache is a PageCache double recording what handlers do with it.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	clears  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	return b, ok
}

func (c *memoryCache) Put(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *memoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
	c.clears++
}

func (c *memoryCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
