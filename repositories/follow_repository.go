package repositories

import (
	"gorm.io/gorm"

	"github.com/sldmxm/yatube-final/models"
)

// FollowRepository owns the directed follow edges between users.
// Follow and Unfollow are idempotent: a second follow keeps the single
// existing edge, a second unfollow is a no-op.
type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Follow creates the (user, author) edge unless it already exists.
// Self-follow is rejected with models.ErrSelfFollow before touching storage;
// the unique index and CHECK constraint back this up under concurrency.
func (r *FollowRepository) Follow(userID, authorID uint) error {
	if userID == authorID {
		return models.ErrSelfFollow
	}
	follow := models.Follow{UserID: userID, AuthorID: authorID}
	return r.db.Where(models.Follow{UserID: userID, AuthorID: authorID}).
		FirstOrCreate(&follow).Error
}

// Unfollow deletes the edge if present. Missing edges are not an error.
func (r *FollowRepository) Unfollow(userID, authorID uint) error {
	return r.db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether the (user, author) edge exists.
func (r *FollowRepository) IsFollowing(userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// CountFollowers returns how many users follow the given author.
func (r *FollowRepository) CountFollowers(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// CountFollowing returns how many authors the given user follows.
func (r *FollowRepository) CountFollowing(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
