package repositories

import (
	"gorm.io/gorm"

	"github.com/sldmxm/yatube-final/models"
	"github.com/sldmxm/yatube-final/utils"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create appends an immutable comment to a post.
func (r *CommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// ListForPost returns a post's comments oldest first with authors attached.
// Authors are loaded in one batch keyed by the deduplicated user ids.
func (r *CommentRepository) ListForPost(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("post_id = ?", postID).
		Order("created ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return comments, nil
	}

	var userIDs []uint
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	userIDs = utils.UniqueUint(userIDs)

	var users []models.User
	if err := r.db.Find(&users, userIDs).Error; err != nil {
		return nil, err
	}
	userMap := make(map[uint]models.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}
	for i := range comments {
		if user, ok := userMap[comments[i].UserID]; ok {
			comments[i].Author = user
		}
	}
	return comments, nil
}

// CountForPost returns how many comments a post has.
func (r *CommentRepository) CountForPost(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
