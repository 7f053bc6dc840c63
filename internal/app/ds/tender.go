package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

// Категории тендеров (закрытый перечень)
type TenderCategory string

const (
	CategoryConstruction   TenderCategory = "CONSTRUCTION"
	CategoryInfrastructure TenderCategory = "INFRASTRUCTURE"
	CategoryServices       TenderCategory = "SERVICES"
	CategoryTechnology     TenderCategory = "TECHNOLOGY"
	CategoryHealthcare     TenderCategory = "HEALTHCARE"
	CategoryEducation      TenderCategory = "EDUCATION"
	CategoryTransportation TenderCategory = "TRANSPORTATION"
	CategoryEnvironment    TenderCategory = "ENVIRONMENT"
)

func ValidTenderCategory(c TenderCategory) bool {
	switch c {
	case CategoryConstruction, CategoryInfrastructure, CategoryServices,
		CategoryTechnology, CategoryHealthcare, CategoryEducation,
		CategoryTransportation, CategoryEnvironment:
		return true
	default:
		return false
	}
}

// Статусы тендера. AWARDED выставляется только транзакцией выбора победителя.
type TenderStatus string

const (
	TenderOpen    TenderStatus = "OPEN"
	TenderClosed  TenderStatus = "CLOSED"
	TenderAwarded TenderStatus = "AWARDED"
)

func ValidTenderStatus(s TenderStatus) bool {
	switch s {
	case TenderOpen, TenderClosed, TenderAwarded:
		return true
	default:
		return false
	}
}

// Таблица тендеров. Создаётся пользователем роли CITY.
type Tender struct {
	ID                 uint            `gorm:"primaryKey"`
	Title              string          `gorm:"type:varchar(200);not null"`
	Description        string          `gorm:"type:text"`
	Budget             decimal.Decimal `gorm:"type:decimal(15,2)"`
	Category           TenderCategory  `gorm:"type:varchar(20);not null;default:'CONSTRUCTION'"`
	Requirements       string          `gorm:"type:text"`
	Status             TenderStatus    `gorm:"type:varchar(10);not null;default:'OPEN'"`
	NoticeDate         time.Time       `gorm:"not null"`
	SubmissionDeadline time.Time       `gorm:"not null"`
	WinnerDate         *time.Time      `gorm:"default:null"`
	ConstructionStart  *time.Time      `gorm:"default:null"`
	ConstructionEnd    *time.Time      `gorm:"default:null"`
	CreatedByID        uint            `gorm:"not null"`
	CreatedAt          time.Time

	CreatedBy User `gorm:"foreignKey:CreatedByID"`
}
