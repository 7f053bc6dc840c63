package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

// Производный статус заявки. В БД не хранится,
// вычисляется из флага победителя (см. BidStatusOf).
type BidStatus string

const (
	BidAccepted BidStatus = "ACCEPTED"
	BidRejected BidStatus = "REJECTED"
	BidPending  BidStatus = "PENDING"
)

// Таблица заявок (bids). Подаётся компанией на конкретный тендер.
type Bid struct {
	ID              uint            `gorm:"primaryKey"`
	TenderID        uint            `gorm:"not null;index"`
	CompanyID       uint            `gorm:"not null;index"`
	BiddingPrice    decimal.Decimal `gorm:"type:decimal(12,2)"`
	Documents       string          `gorm:"type:varchar(255)"` // имя объекта в MinIO
	SubmissionDate  time.Time       `gorm:"not null"`
	IsWinner        bool            `gorm:"type:boolean;default:false;not null"`
	AdditionalNotes *string         `gorm:"type:text;default:null"`

	Tender  Tender `gorm:"foreignKey:TenderID"`
	Company User   `gorm:"foreignKey:CompanyID"`
}

// BidStatusOf — единственное место, где вычисляется статус заявки.
// tenderHasWinner — есть ли победитель среди всех заявок этого тендера.
func BidStatusOf(bid Bid, tenderHasWinner bool) BidStatus {
	switch {
	case bid.IsWinner:
		return BidAccepted
	case tenderHasWinner:
		return BidRejected
	default:
		return BidPending
	}
}

// BidStatusAmong вычисляет статус заявки по её соседям в рамках тендера
func BidStatusAmong(bid Bid, siblings []Bid) BidStatus {
	hasWinner := false
	for _, s := range siblings {
		if s.TenderID == bid.TenderID && s.IsWinner {
			hasWinner = true
			break
		}
	}
	return BidStatusOf(bid, hasWinner)
}
