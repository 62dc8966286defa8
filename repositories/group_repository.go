package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sldmxm/yatube-final/models"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// FindBySlug resolves a group by its URL slug. Returns (nil, nil) when absent.
func (r *GroupRepository) FindBySlug(slug string) (*models.Group, error) {
	var group models.Group
	err := r.db.Where("slug = ?", slug).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// List returns all groups ordered by title, for post form group selection.
func (r *GroupRepository) List() ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Order("title ASC").Find(&groups).Error
	return groups, err
}

// Create persists a new group.
func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

// Delete removes a group and detaches its posts. Migration runs without
// foreign keys, so the SET NULL semantics are enforced here inside one
// transaction: posts survive with their group reference cleared.
func (r *GroupRepository) Delete(groupID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("group_id = ?", groupID).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, groupID).Error
	})
}
