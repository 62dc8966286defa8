package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sldmxm/yatube-final/models"
)

// PostRepository builds the four post feeds and owns post persistence.
// Every feed is ordered newest first with the author and group preloaded.
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a PostRepository on the given database handle.
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) feedQuery() *gorm.DB {
	return r.db.Preload("Author").Preload("Group").
		Order("pub_date DESC, id DESC")
}

// paginate counts the query, clamps the requested page, and fetches its slice.
func (r *PostRepository) paginate(q *gorm.DB, page, pageSize int) ([]models.Post, PageInfo, error) {
	var total int64
	if err := q.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, PageInfo{}, err
	}
	page, info := resolvePage(page, pageSize, total)

	var posts []models.Post
	if err := q.Offset((page - 1) * info.PageSize).Limit(info.PageSize).Find(&posts).Error; err != nil {
		return nil, PageInfo{}, err
	}
	return posts, info, nil
}

// GlobalFeed returns all posts, newest first.
func (r *PostRepository) GlobalFeed(page, pageSize int) ([]models.Post, PageInfo, error) {
	return r.paginate(r.feedQuery(), page, pageSize)
}

// GroupFeed returns the posts published into one group.
func (r *PostRepository) GroupFeed(groupID uint, page, pageSize int) ([]models.Post, PageInfo, error) {
	return r.paginate(r.feedQuery().Where("group_id = ?", groupID), page, pageSize)
}

// ProfileFeed returns the posts of one author.
func (r *PostRepository) ProfileFeed(authorID uint, page, pageSize int) ([]models.Post, PageInfo, error) {
	return r.paginate(r.feedQuery().Where("user_id = ?", authorID), page, pageSize)
}

// FollowFeed returns posts whose author is followed by the given user.
func (r *PostRepository) FollowFeed(followerID uint, page, pageSize int) ([]models.Post, PageInfo, error) {
	followed := r.db.Model(&models.Follow{}).
		Select("author_id").Where("user_id = ?", followerID)
	return r.paginate(r.feedQuery().Where("user_id IN (?)", followed), page, pageSize)
}

// FindByID loads a post with its author and group. Returns (nil, nil) when absent.
func (r *PostRepository) FindByID(postID uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").Preload("Group").First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create persists a new post. PubDate is assigned by the storage layer.
func (r *PostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update rewrites the mutable fields of a post. PubDate and the author
// binding never change after creation.
func (r *PostRepository) Update(post *models.Post) error {
	return r.db.Model(&models.Post{}).Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
}
