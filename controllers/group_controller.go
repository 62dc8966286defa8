package controllers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sldmxm/yatube-final/forms"
	"github.com/sldmxm/yatube-final/models"
	"github.com/sldmxm/yatube-final/repositories"
	"github.com/sldmxm/yatube-final/utils"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// GroupController manages the group catalog. Groups are created and removed
// by administrators only; deleting a group detaches its posts instead of
// deleting them.
type GroupController struct {
	groups *repositories.GroupRepository
	cache  utils.PageCache
}

// NewGroupController creates a GroupController.
func NewGroupController(db *gorm.DB, cache utils.PageCache) *GroupController {
	return &GroupController{
		groups: repositories.NewGroupRepository(db),
		cache:  cache,
	}
}

// ListGroups returns all groups for navigation and form choices.
func (g *GroupController) ListGroups(ctx *gin.Context) {
	groups, err := g.groups.List()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list groups")
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

// CreateGroup adds a group to the catalog. Admin only.
func (g *GroupController) CreateGroup(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40310, "administrator access required")
		return
	}

	var req struct {
		Title       string `form:"title" json:"title"`
		Slug        string `form:"slug" json:"slug"`
		Description string `form:"description" json:"description"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	errs := forms.FieldErrors{}
	req.Title = utils.Sanitize(strings.TrimSpace(req.Title))
	if req.Title == "" {
		errs["title"] = "title must not be empty"
	}
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(req.Slug) {
		errs["slug"] = "slug must contain only lowercase letters, digits, and hyphens"
	}
	if len(errs) > 0 {
		utils.FieldErrors(ctx, errs, req)
		return
	}

	if existing, err := g.groups.FindBySlug(req.Slug); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to check slug")
		return
	} else if existing != nil {
		utils.FieldErrors(ctx, forms.FieldErrors{"slug": "slug already in use"}, req)
		return
	}

	group := models.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: utils.Sanitize(req.Description),
	}
	if err := g.groups.Create(&group); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to create group")
		return
	}

	utils.Success(ctx, gin.H{"group": group})
}

// DeleteGroup removes a group by slug, clearing the group reference on its
// posts. Admin only.
func (g *GroupController) DeleteGroup(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40311, "administrator access required")
		return
	}

	group, err := g.groups.FindBySlug(ctx.Param("slug"))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load group")
		return
	}
	if group == nil {
		utils.Error(ctx, http.StatusNotFound, 40413, "group not found")
		return
	}

	if err := g.groups.Delete(group.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to delete group")
		return
	}

	if g.cache != nil {
		g.cache.Clear()
	}
	utils.Success(ctx, gin.H{"message": "group deleted"})
}
