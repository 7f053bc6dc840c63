package repository

import (
	"time"

	"tender-backend/internal/app/ds"
	"tender-backend/internal/app/role"

	"gorm.io/gorm"
)

// Методы для заявок (bids)

func (r *Repository) CreateBid(bid *ds.Bid) error {
	return r.db.Create(bid).Error
}

func (r *Repository) GetBidByID(id uint) (*ds.Bid, error) {
	var bid ds.Bid
	err := r.db.Preload("Tender").Preload("Company").First(&bid, id).Error
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

func (r *Repository) GetBidsByTender(tenderID uint) ([]ds.Bid, error) {
	var bids []ds.Bid
	err := r.db.Preload("Tender").Preload("Company").
		Where("tender_id = ?", tenderID).
		Order("submission_date asc").
		Find(&bids).Error
	return bids, err
}

func (r *Repository) getAllBids() ([]ds.Bid, error) {
	var bids []ds.Bid
	err := r.db.Preload("Tender").Preload("Company").
		Order("submission_date asc").Find(&bids).Error
	return bids, err
}

func (r *Repository) getBidsByCompany(companyID uint) ([]ds.Bid, error) {
	var bids []ds.Bid
	err := r.db.Preload("Tender").Preload("Company").
		Where("company_id = ?", companyID).
		Order("submission_date asc").
		Find(&bids).Error
	return bids, err
}

// BidsVisibleTo — видимость коллекции /bids:
// CITY и суперпользователь видят всё, COMPANY только свои, прочие — ничего
func (r *Repository) BidsVisibleTo(userID uint, userRole role.Role, superuser bool) ([]ds.Bid, error) {
	switch {
	case superuser || userRole == role.City:
		return r.getAllBids()
	case userRole == role.Company:
		return r.getBidsByCompany(userID)
	default:
		return []ds.Bid{}, nil
	}
}

// MyBids — видимость /bids/my_bids. Отличается от BidsVisibleTo:
// роли кроме COMPANY видят всё (наблюдаемое поведение исходной
// системы, сохранено сознательно — см. DESIGN.md)
func (r *Repository) MyBids(userID uint, userRole role.Role, superuser bool) ([]ds.Bid, error) {
	switch {
	case superuser:
		return r.getAllBids()
	case userRole == role.Company:
		return r.getBidsByCompany(userID)
	default:
		return r.getAllBids()
	}
}

// BidVisibleTo решает, доступна ли одиночная заявка пользователю
// (та же область видимости, что и у коллекции /bids)
func BidVisibleTo(bid ds.Bid, userID uint, userRole role.Role, superuser bool) bool {
	switch {
	case superuser || userRole == role.City:
		return true
	case userRole == role.Company:
		return bid.CompanyID == userID
	default:
		return false
	}
}

// TenderHasWinner — есть ли победившая заявка у тендера
func (r *Repository) TenderHasWinner(tenderID uint) (bool, error) {
	var count int64
	err := r.db.Model(&ds.Bid{}).
		Where("tender_id = ? AND is_winner = ?", tenderID, true).
		Count(&count).Error
	return count > 0, err
}

// WinnerTenderIDs возвращает множество тендеров с победителем
// одним запросом (для списковых выдач)
func (r *Repository) WinnerTenderIDs(tenderIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(tenderIDs) == 0 {
		return result, nil
	}

	var winners []ds.Bid
	err := r.db.Select("tender_id").
		Where("tender_id IN ? AND is_winner = ?", tenderIDs, true).
		Find(&winners).Error
	if err != nil {
		return nil, err
	}

	for _, w := range winners {
		result[w.TenderID] = true
	}
	return result, nil
}

func (r *Repository) UpdateBid(id uint, updates map[string]interface{}) error {
	return r.db.Model(&ds.Bid{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) DeleteBid(id uint) error {
	return r.db.Delete(&ds.Bid{}, id).Error
}

// SelectWinner выполняет выбор победителя одной транзакцией:
// 1) снять флаг победителя со всех заявок тендера;
// 2) выставить флаг на целевой заявке;
// 3) перевести тендер в AWARDED и записать дату.
// Предусловий по статусу тендера нет: повторный вызов просто
// переизбирает победителя. После коммита у тендера ровно одна
// победившая заявка.
func (r *Repository) SelectWinner(bidID uint) (*ds.Bid, error) {
	var bid ds.Bid

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bid, bidID).Error; err != nil {
			return err
		}

		if err := tx.Model(&ds.Bid{}).
			Where("tender_id = ?", bid.TenderID).
			Update("is_winner", false).Error; err != nil {
			return err
		}

		if err := tx.Model(&ds.Bid{}).
			Where("id = ?", bid.ID).
			Update("is_winner", true).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&ds.Tender{}).
			Where("id = ?", bid.TenderID).
			Updates(map[string]interface{}{
				"status":      ds.TenderAwarded,
				"winner_date": now,
			}).Error; err != nil {
			return err
		}

		bid.IsWinner = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &bid, nil
}
