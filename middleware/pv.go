package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sldmxm/yatube-final/models"
)

// PageViewRecorder records content page views per day and path. Counts feed
// the stats endpoints; non-content paths are skipped to keep the numbers
// meaningful.
func PageViewRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != "GET" {
			return
		}
		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}

		path := c.Request.URL.Path
		if !isContentPath(path) {
			return
		}

		// Use local midnight to align with the DATE column
		now := time.Now().In(time.Local)
		localMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		// Atomic upsert to avoid duplicate key errors under concurrency
		_ = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": time.Now()}),
		}).Create(&models.PageView{Date: localMidnight, Path: path, Count: 1}).Error
	}
}

// isContentPath keeps only reader-facing pages: the feeds, profiles, and
// post details.
func isContentPath(path string) bool {
	if path == "/" || path == "/follow" {
		return true
	}
	for _, prefix := range []string{"/group/", "/profile/", "/posts/"} {
		if strings.HasPrefix(path, prefix) {
			return !strings.HasSuffix(path, "/stats")
		}
	}
	return false
}
