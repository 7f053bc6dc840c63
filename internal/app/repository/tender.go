package repository

import (
	"tender-backend/internal/app/ds"
)

// Методы для тендеров

func (r *Repository) CreateTender(tender *ds.Tender) error {
	return r.db.Create(tender).Error
}

func (r *Repository) GetTenderByID(id uint) (*ds.Tender, error) {
	var tender ds.Tender
	err := r.db.First(&tender, id).Error
	if err != nil {
		return nil, err
	}
	return &tender, nil
}

func (r *Repository) GetTenders() ([]ds.Tender, error) {
	var tenders []ds.Tender
	err := r.db.Order("created_at desc").Find(&tenders).Error
	return tenders, err
}

// UpdateTender применяет частичное обновление по списку колонок
func (r *Repository) UpdateTender(id uint, updates map[string]interface{}) error {
	return r.db.Model(&ds.Tender{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) DeleteTender(id uint) error {
	return r.db.Delete(&ds.Tender{}, id).Error
}
