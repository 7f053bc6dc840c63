package ds

// Профиль компании, один-к-одному с пользователем роли COMPANY.
// Создаётся только вместе с пользователем при регистрации.
type CompanyProfile struct {
	ID                 uint    `gorm:"primaryKey"`
	UserID             uint    `gorm:"not null;uniqueIndex"`
	CompanyName        string  `gorm:"type:varchar(255);not null"`
	ContactEmail       string  `gorm:"type:varchar(100);not null"`
	RegistrationNumber string  `gorm:"type:varchar(50);not null"`
	PhoneNumber        *string `gorm:"type:varchar(20);default:null"`
	Address            *string `gorm:"type:text;default:null"`

	User User `gorm:"foreignKey:UserID"`
}
