package repository

import (
	"tender-backend/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для пользователей

func (r *Repository) GetUserByID(id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByUsername(username string) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UserExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// CreateUser создаёт пользователя без профиля (CITY, суперпользователи)
func (r *Repository) CreateUser(user *ds.User) error {
	return r.db.Create(user).Error
}

// CreateCompanyUser создаёт пользователя COMPANY вместе с профилем
// одной транзакцией: либо сохраняются оба, либо никто
func (r *Repository) CreateCompanyUser(user *ds.User, profile *ds.CompanyProfile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		return nil
	})
}

func (r *Repository) GetCompanyProfile(userID uint) (*ds.CompanyProfile, error) {
	var profile ds.CompanyProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *Repository) CompanyProfileCount() (int64, error) {
	var count int64
	err := r.db.Model(&ds.CompanyProfile{}).Count(&count).Error
	return count, err
}
