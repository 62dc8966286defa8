package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sldmxm/yatube-final/config"
	"github.com/sldmxm/yatube-final/middleware"
	"github.com/sldmxm/yatube-final/models"
	"github.com/sldmxm/yatube-final/utils"
)

// parsePageNumber resolves the 1-based page query parameter. Absent or
// invalid values fall back to page 1; clamping of too-high values happens in
// the repository against the actual total.
func parsePageNumber(pageStr string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(pageStr)); err == nil && n > 0 {
		return n
	}
	return 1
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func getUsername(ctx *gin.Context) string {
	value, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return ""
	}
	username, _ := value.(string)
	return username
}

func isAdmin(ctx *gin.Context) bool {
	username := getUsername(ctx)
	if username == "" {
		return false
	}
	cfg := config.Get()
	for _, u := range cfg.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), username) {
			return true
		}
	}
	return false
}

// publicUser strips a user down to the fields safe for public payloads.
func publicUser(u models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	}
}

// envelopeJSON wraps a payload in the standard response envelope and
// marshals it for page cache storage, matching what Success would send.
func envelopeJSON(payload interface{}) ([]byte, bool) {
	return utils.CacheJSON(utils.JSONResponse{Code: 0, Message: "success", Data: payload})
}
