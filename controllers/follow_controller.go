package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sldmxm/yatube-final/models"
	"github.com/sldmxm/yatube-final/repositories"
	"github.com/sldmxm/yatube-final/utils"
)

// FollowController toggles follow edges. Both actions are idempotent and
// both end in a redirect to the target author's profile feed regardless of
// whether anything changed.
type FollowController struct {
	users   *repositories.UserRepository
	follows *repositories.FollowRepository
}

// NewFollowController creates a FollowController.
func NewFollowController(db *gorm.DB) *FollowController {
	return &FollowController{
		users:   repositories.NewUserRepository(db),
		follows: repositories.NewFollowRepository(db),
	}
}

// Follow subscribes the caller to an author. Self-follow is a no-op.
func (f *FollowController) Follow(ctx *gin.Context) {
	author, ok := f.resolveAuthor(ctx)
	if !ok {
		return
	}
	callerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	if callerID != author.ID {
		if err := f.follows.Follow(callerID, author.ID); err != nil && !errors.Is(err, models.ErrSelfFollow) {
			utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to follow author")
			return
		}
	}
	ctx.Redirect(http.StatusFound, "/profile/"+author.Username)
}

// Unfollow removes the caller's subscription to an author if present.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	author, ok := f.resolveAuthor(ctx)
	if !ok {
		return
	}
	callerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}

	if err := f.follows.Unfollow(callerID, author.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to unfollow author")
		return
	}
	ctx.Redirect(http.StatusFound, "/profile/"+author.Username)
}

func (f *FollowController) resolveAuthor(ctx *gin.Context) (*models.User, bool) {
	author, err := f.users.FindByUsername(ctx.Param("username"))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load author")
		return nil, false
	}
	if author == nil {
		utils.Error(ctx, http.StatusNotFound, 40412, "user not found")
		return nil, false
	}
	return author, true
}
