package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sldmxm/yatube-final/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername resolves a user by username. Returns (nil, nil) when absent.
func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByID resolves a user by primary key. Returns (nil, nil) when absent.
func (r *UserRepository) FindByID(userID uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create persists a new user.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}
