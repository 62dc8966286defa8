package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sldmxm/yatube-final/config"
	"github.com/sldmxm/yatube-final/forms"
	"github.com/sldmxm/yatube-final/models"
	"github.com/sldmxm/yatube-final/repositories"
	"github.com/sldmxm/yatube-final/utils"
)

// PostController serves the four feeds, post detail, post mutations, and
// comment creation. The page cache is injected; only global feed pages are
// cached and post mutations clear it wholesale.
type PostController struct {
	db       *gorm.DB
	posts    *repositories.PostRepository
	groups   *repositories.GroupRepository
	users    *repositories.UserRepository
	comments *repositories.CommentRepository
	follows  *repositories.FollowRepository
	cache    utils.PageCache
}

// NewPostController creates a PostController. cache may be nil, which
// disables page caching.
func NewPostController(db *gorm.DB, cache utils.PageCache) *PostController {
	return &PostController{
		db:       db,
		posts:    repositories.NewPostRepository(db),
		groups:   repositories.NewGroupRepository(db),
		users:    repositories.NewUserRepository(db),
		comments: repositories.NewCommentRepository(db),
		follows:  repositories.NewFollowRepository(db),
		cache:    cache,
	}
}

func (p *PostController) pageSize() int {
	return config.Get().PostsPerPage
}

func (p *PostController) cacheTTL() time.Duration {
	return time.Duration(config.Get().FeedCacheTTLSeconds) * time.Second
}

// Index returns the global feed, newest first.
func (p *PostController) Index(ctx *gin.Context) {
	page := parsePageNumber(ctx.Query("page"))

	cacheKey := fmt.Sprintf("feed:global:page=%d", page)
	if p.cache != nil {
		if b, ok := p.cache.Get(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	posts, info, err := p.posts.GlobalFeed(page, p.pageSize())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load feed")
		return
	}

	payload := gin.H{
		"title": "Latest updates",
		"posts": posts,
		"page":  info,
	}
	if p.cache != nil {
		if b, ok := envelopeJSON(payload); ok {
			p.cache.Put(cacheKey, b, p.cacheTTL())
		}
	}
	utils.Success(ctx, payload)
}

// FollowIndex returns posts by authors the caller follows.
func (p *PostController) FollowIndex(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	page := parsePageNumber(ctx.Query("page"))

	posts, info, err := p.posts.FollowFeed(userID, page, p.pageSize())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load follow feed")
		return
	}

	utils.Success(ctx, gin.H{
		"title": "Subscription feed",
		"posts": posts,
		"page":  info,
	})
}

// GroupPosts returns the feed of one group resolved by slug.
func (p *PostController) GroupPosts(ctx *gin.Context) {
	slug := ctx.Param("slug")
	group, err := p.groups.FindBySlug(slug)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load group")
		return
	}
	if group == nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "group not found")
		return
	}

	page := parsePageNumber(ctx.Query("page"))
	posts, info, err := p.posts.GroupFeed(group.ID, page, p.pageSize())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load group feed")
		return
	}

	utils.Success(ctx, gin.H{
		"group": group,
		"posts": posts,
		"page":  info,
	})
}

// Profile returns an author's feed plus the caller's follow state.
func (p *PostController) Profile(ctx *gin.Context) {
	author, err := p.users.FindByUsername(ctx.Param("username"))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load author")
		return
	}
	if author == nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "user not found")
		return
	}

	following := false
	if callerID, ok := getUserID(ctx); ok {
		following, err = p.follows.IsFollowing(callerID, author.ID)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to load follow state")
			return
		}
	}

	page := parsePageNumber(ctx.Query("page"))
	posts, info, err := p.posts.ProfileFeed(author.ID, page, p.pageSize())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to load profile feed")
		return
	}

	followers, _ := p.follows.CountFollowers(author.ID)
	followingCount, _ := p.follows.CountFollowing(author.ID)

	utils.Success(ctx, gin.H{
		"author":          publicUser(*author),
		"posts":           posts,
		"page":            info,
		"following":       following,
		"followers_count": followers,
		"following_count": followingCount,
	})
}

// PostDetail returns a post with its comments and a blank comment form.
func (p *PostController) PostDetail(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}

	comments, err := p.comments.ListForPost(post.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to load comments")
		return
	}
	post.Comments = comments

	utils.Success(ctx, gin.H{
		"post":     post,
		"comments": comments,
		"form":     gin.H{"text": ""},
	})
}

// CreatePostPage returns the blank submission form context plus the group choices.
func (p *PostController) CreatePostPage(ctx *gin.Context) {
	groups, err := p.groups.List()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50018, "failed to load groups")
		return
	}
	utils.Success(ctx, gin.H{
		"form":   gin.H{"text": "", "group": "", "image": ""},
		"groups": groups,
	})
}

// CreatePost validates the submission, binds the author server-side, and
// redirects to the author's profile feed on success.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	var form forms.PostForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	cleaned, errs := form.Validate()
	groupID, gerrs := p.resolveGroup(cleaned.Group)
	for k, v := range gerrs {
		if errs == nil {
			errs = forms.FieldErrors{}
		}
		errs[k] = v
	}
	if len(errs) > 0 {
		utils.FieldErrors(ctx, errs, cleaned)
		return
	}

	post := models.Post{
		Text:    cleaned.Text,
		UserID:  userID,
		GroupID: groupID,
		Image:   cleaned.Image,
	}
	if err := p.posts.Create(&post); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}

	if p.cache != nil {
		p.cache.Clear()
	}
	ctx.Redirect(http.StatusFound, "/profile/"+getUsername(ctx))
}

// EditPostPage returns the edit form prefilled with the post's current
// values. Non-authors are redirected to the read-only detail view.
func (p *PostController) EditPostPage(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	userID, _ := getUserID(ctx)
	if post.UserID != userID {
		ctx.Redirect(http.StatusFound, "/posts/"+strconv.Itoa(int(post.ID)))
		return
	}

	groups, err := p.groups.List()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load groups")
		return
	}
	groupSlug := ""
	if post.Group != nil {
		groupSlug = post.Group.Slug
	}
	utils.Success(ctx, gin.H{
		"form":    gin.H{"text": post.Text, "group": groupSlug, "image": post.Image},
		"groups":  groups,
		"is_edit": true,
	})
}

// EditPost persists changes to a post. Only the author may edit; anyone else
// is silently redirected to the detail view without mutation.
func (p *PostController) EditPost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	detailPath := "/posts/" + strconv.Itoa(int(post.ID))

	userID, _ := getUserID(ctx)
	if post.UserID != userID {
		ctx.Redirect(http.StatusFound, detailPath)
		return
	}

	var form forms.PostForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	cleaned, errs := form.Validate()
	groupID, gerrs := p.resolveGroup(cleaned.Group)
	for k, v := range gerrs {
		if errs == nil {
			errs = forms.FieldErrors{}
		}
		errs[k] = v
	}
	if len(errs) > 0 {
		utils.FieldErrors(ctx, errs, cleaned)
		return
	}

	post.Text = cleaned.Text
	post.GroupID = groupID
	post.Image = cleaned.Image
	if err := p.posts.Update(post); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to update post")
		return
	}

	if p.cache != nil {
		p.cache.Clear()
	}
	ctx.Redirect(http.StatusFound, detailPath)
}

// AddComment appends a comment to a post and redirects back to the detail
// view. Invalid submissions are surfaced as field errors, matching the post
// form behavior.
func (p *PostController) AddComment(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	var form forms.CommentForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}
	cleaned, errs := form.Validate()
	if len(errs) > 0 {
		utils.FieldErrors(ctx, errs, cleaned)
		return
	}

	comment := models.Comment{
		PostID: post.ID,
		UserID: userID,
		Text:   cleaned.Text,
	}
	if err := p.comments.Create(&comment); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to create comment")
		return
	}

	ctx.Redirect(http.StatusFound, "/posts/"+strconv.Itoa(int(post.ID)))
}

// UploadImage stores a post image and returns its public URL. Files are
// recorded for the expiry sweeper when self-destruct is enabled.
func (p *PostController) UploadImage(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("image")
	if err != nil {
		file, header, err = ctx.Request.FormFile("file")
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
			return
		}
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		utils.Error(ctx, http.StatusBadRequest, 40031, "unsupported image type")
		return
	}

	const maxSize = 10 * 1024 * 1024
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40032, "image size exceeds 10MB")
		return
	}

	now := time.Now()
	baseDir := filepath.Join(".", "static", "uploads", now.Format("2006"), now.Format("01"), now.Format("02"))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create upload directory")
		return
	}

	safeName := fmt.Sprintf("%s_%d%s", uuid.NewString(), userID, ext)
	dstPath := filepath.Join(baseDir, safeName)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to save file")
		return
	}
	defer out.Close()

	lr := &io.LimitedReader{R: file, N: maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil || written > maxSize {
		_ = out.Close()
		_ = os.Remove(dstPath)
		if written > maxSize {
			utils.Error(ctx, http.StatusBadRequest, 40032, "image size exceeds 10MB")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to write file")
		}
		return
	}

	relURL := fmt.Sprintf("/static/uploads/%s/%s/%s/%s",
		now.Format("2006"), now.Format("01"), now.Format("02"), safeName)

	cfg := config.Get()
	expireAt := now.Add(time.Duration(cfg.UploadsSelfDestructMinutes) * time.Minute)
	absPath, _ := filepath.Abs(dstPath)
	if err := p.db.Create(&models.UploadedFile{FilePath: absPath, URL: relURL, ExpireAt: expireAt}).Error; err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("failed to record uploaded file: %v", err)
	}

	utils.Success(ctx, gin.H{"url": relURL})
}

// loadPost resolves the :id path parameter; writes a 404 and returns false
// on unknown ids.
func (p *PostController) loadPost(ctx *gin.Context) (*models.Post, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return nil, false
	}
	post, err := p.posts.FindByID(uint(id))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50019, "failed to load post")
		return nil, false
	}
	if post == nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return nil, false
	}
	return post, true
}

// resolveGroup maps an optional group slug to its id. Unknown slugs become a
// field error so the form round-trips like any other validation failure.
func (p *PostController) resolveGroup(slug string) (*uint, forms.FieldErrors) {
	if slug == "" {
		return nil, nil
	}
	group, err := p.groups.FindBySlug(slug)
	if err != nil {
		return nil, forms.FieldErrors{"group": "failed to resolve group"}
	}
	if group == nil {
		return nil, forms.FieldErrors{"group": "unknown group"}
	}
	return &group.ID, nil
}
