package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============ Общие структуры ============

type ErrorResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Аутентификация ============

type CompanyProfilePayload struct {
	CompanyName        string  `json:"company_name"`
	ContactEmail       string  `json:"contact_email"`
	RegistrationNumber string  `json:"registration_number"`
	PhoneNumber        *string `json:"phone_number,omitempty"`
	Address            *string `json:"address,omitempty"`
}

type RegisterRequest struct {
	Username         string                 `json:"username"`
	Password         string                 `json:"password"`
	UserType         string                 `json:"user_type"`
	OrganizationName string                 `json:"organization_name"`
	CompanyProfile   *CompanyProfilePayload `json:"company_profile"`
}

type RegisterResponse struct {
	Message  string `json:"message"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	UserType string `json:"user_type"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"user_type"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Refresh  string `json:"refresh"`
	UserType string `json:"user_type"`
	Username string `json:"username"`
}

// ============ Тендеры ============

type CreateTenderRequest struct {
	Title              string          `json:"title" binding:"required"`
	Description        string          `json:"description"`
	Budget             decimal.Decimal `json:"budget" binding:"required"`
	Category           string          `json:"category"`
	Requirements       string          `json:"requirements"`
	NoticeDate         time.Time       `json:"notice_date" binding:"required"`
	SubmissionDeadline time.Time       `json:"submission_deadline" binding:"required"`
	ConstructionStart  *time.Time      `json:"construction_start"`
	ConstructionEnd    *time.Time      `json:"construction_end"`
}

type UpdateTenderRequest struct {
	Title              *string          `json:"title"`
	Description        *string          `json:"description"`
	Budget             *decimal.Decimal `json:"budget"`
	Category           *string          `json:"category"`
	Requirements       *string          `json:"requirements"`
	Status             *string          `json:"status"`
	NoticeDate         *time.Time       `json:"notice_date"`
	SubmissionDeadline *time.Time       `json:"submission_deadline"`
	ConstructionStart  *time.Time       `json:"construction_start"`
	ConstructionEnd    *time.Time       `json:"construction_end"`
}

type TenderResponse struct {
	ID                 uint            `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Budget             decimal.Decimal `json:"budget"`
	Category           string          `json:"category"`
	Requirements       string          `json:"requirements"`
	Status             string          `json:"status"`
	NoticeDate         time.Time       `json:"notice_date"`
	SubmissionDeadline time.Time       `json:"submission_deadline"`
	WinnerDate         *time.Time      `json:"winner_date,omitempty"`
	ConstructionStart  *time.Time      `json:"construction_start,omitempty"`
	ConstructionEnd    *time.Time      `json:"construction_end,omitempty"`
	CreatedBy          uint            `json:"created_by"`
	CreatedAt          time.Time       `json:"created_at"`
}

type TenderListResponse struct {
	Tenders []TenderResponse `json:"tenders"`
	Total   int              `json:"total"`
}

// ============ Заявки (bids) ============

type CreateBidRequest struct {
	TenderID        uint            `json:"tender" binding:"required"`
	BiddingPrice    decimal.Decimal `json:"bidding_price" binding:"required"`
	AdditionalNotes *string         `json:"additional_notes"`
}

type UpdateBidRequest struct {
	BiddingPrice    *decimal.Decimal `json:"bidding_price"`
	AdditionalNotes *string          `json:"additional_notes"`
}

type BidResponse struct {
	ID              uint            `json:"id"`
	TenderID        uint            `json:"tender_id"`
	TenderTitle     string          `json:"tender_title"`
	Company         uint            `json:"company"`
	CompanyName     string          `json:"company_name"`
	BiddingPrice    decimal.Decimal `json:"bidding_price"`
	Documents       string          `json:"documents,omitempty"`
	SubmissionDate  time.Time       `json:"submission_date"`
	IsWinner        bool            `json:"is_winner"`
	AdditionalNotes *string         `json:"additional_notes,omitempty"`
	Status          string          `json:"status"`
}

type BidListResponse struct {
	Bids  []BidResponse `json:"bids"`
	Total int           `json:"total"`
}
