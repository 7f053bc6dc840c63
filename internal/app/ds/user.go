package ds

import "tender-backend/internal/app/role"

// Таблица пользователей.
// Роль (CITY/COMPANY) назначается при создании и дальше не меняется.
type User struct {
	ID               uint      `gorm:"primaryKey"`
	Username         string    `gorm:"type:varchar(50);unique;not null"`
	Password         string    `gorm:"type:varchar(255);not null"`
	UserType         role.Role `gorm:"type:varchar(10);not null;default:'COMPANY'"`
	OrganizationName string    `gorm:"type:varchar(100)"`
	Email            string    `gorm:"type:varchar(100)"`
	IsSuperuser      bool      `gorm:"type:boolean;default:false;not null"`
}
