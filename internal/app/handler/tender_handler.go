package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tender-backend/internal/app/ds"
	"tender-backend/internal/app/dto"
	"tender-backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func tenderToResponse(t ds.Tender) dto.TenderResponse {
	return dto.TenderResponse{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		Budget:             t.Budget,
		Category:           string(t.Category),
		Requirements:       t.Requirements,
		Status:             string(t.Status),
		NoticeDate:         t.NoticeDate,
		SubmissionDeadline: t.SubmissionDeadline,
		WinnerDate:         t.WinnerDate,
		ConstructionStart:  t.ConstructionStart,
		ConstructionEnd:    t.ConstructionEnd,
		CreatedBy:          t.CreatedByID,
		CreatedAt:          t.CreatedAt,
	}
}

// GetTenders список тендеров
// @Summary Список тендеров
// @Description Доступен любому аутентифицированному пользователю
// @Tags Tenders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TenderListResponse
// @Router /api/tenders [get]
func (h *APIHandler) GetTenders(c *gin.Context) {
	tenders, err := h.Repository.GetTenders()
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]dto.TenderResponse, len(tenders))
	for i, t := range tenders {
		responses[i] = tenderToResponse(t)
	}

	c.JSON(http.StatusOK, dto.TenderListResponse{
		Tenders: responses,
		Total:   len(responses),
	})
}

// GetTender одна запись тендера
// @Summary Получение тендера
// @Tags Tenders
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тендера"
// @Success 200 {object} dto.TenderResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/tenders/{id} [get]
func (h *APIHandler) GetTender(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid tender ID")
		return
	}

	tender, err := h.Repository.GetTenderByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "tender not found")
		return
	}

	c.JSON(http.StatusOK, tenderToResponse(*tender))
}

// CreateTender создание тендера
// @Summary Создание тендера
// @Description Только для роли CITY. Создатель берётся из токена.
// @Tags Tenders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTenderRequest true "Данные тендера"
// @Success 201 {object} dto.TenderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/tenders [post]
func (h *APIHandler) CreateTender(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	if !role.Allowed(claims.Role, claims.IsSuperuser, role.ActionTenderCreate) {
		h.errorResponse(c, http.StatusForbidden, "Only city users can create tenders")
		return
	}

	var request dto.CreateTenderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	category := ds.TenderCategory(request.Category)
	if request.Category == "" {
		category = ds.CategoryConstruction
	}
	if !ds.ValidTenderCategory(category) {
		h.errorResponse(c, http.StatusBadRequest, "invalid tender category")
		return
	}

	// Создатель всегда берётся из claims, поле из запроса игнорируется
	tender := ds.Tender{
		Title:              request.Title,
		Description:        request.Description,
		Budget:             request.Budget,
		Category:           category,
		Requirements:       request.Requirements,
		Status:             ds.TenderOpen,
		NoticeDate:         request.NoticeDate,
		SubmissionDeadline: request.SubmissionDeadline,
		ConstructionStart:  request.ConstructionStart,
		ConstructionEnd:    request.ConstructionEnd,
		CreatedByID:        claims.UserID,
		CreatedAt:          time.Now(),
	}

	if err := h.Repository.CreateTender(&tender); err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusCreated, tenderToResponse(tender))
}

// UpdateTender частичное обновление тендера
// @Summary Изменение тендера
// @Description Только для роли CITY
// @Tags Tenders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тендера"
// @Param request body dto.UpdateTenderRequest true "Изменяемые поля"
// @Success 200 {object} dto.TenderResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/tenders/{id} [put]
func (h *APIHandler) UpdateTender(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	if !role.Allowed(claims.Role, claims.IsSuperuser, role.ActionTenderUpdate) {
		h.errorResponse(c, http.StatusForbidden, "Only city users can update tenders")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid tender ID")
		return
	}

	if _, err := h.Repository.GetTenderByID(uint(id)); err != nil {
		h.errorResponse(c, http.StatusNotFound, "tender not found")
		return
	}

	var request dto.UpdateTenderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if request.Title != nil {
		updates["title"] = *request.Title
	}
	if request.Description != nil {
		updates["description"] = *request.Description
	}
	if request.Budget != nil {
		updates["budget"] = *request.Budget
	}
	if request.Category != nil {
		if !ds.ValidTenderCategory(ds.TenderCategory(*request.Category)) {
			h.errorResponse(c, http.StatusBadRequest, "invalid tender category")
			return
		}
		updates["category"] = *request.Category
	}
	if request.Requirements != nil {
		updates["requirements"] = *request.Requirements
	}
	if request.Status != nil {
		if !ds.ValidTenderStatus(ds.TenderStatus(*request.Status)) {
			h.errorResponse(c, http.StatusBadRequest, "invalid tender status")
			return
		}
		updates["status"] = *request.Status
	}
	if request.NoticeDate != nil {
		updates["notice_date"] = *request.NoticeDate
	}
	if request.SubmissionDeadline != nil {
		updates["submission_deadline"] = *request.SubmissionDeadline
	}
	if request.ConstructionStart != nil {
		updates["construction_start"] = *request.ConstructionStart
	}
	if request.ConstructionEnd != nil {
		updates["construction_end"] = *request.ConstructionEnd
	}

	if len(updates) > 0 {
		if err := h.Repository.UpdateTender(uint(id), updates); err != nil {
			h.errorResponse(c, http.StatusInternalServerError, err.Error())
			return
		}
	}

	tender, err := h.Repository.GetTenderByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, tenderToResponse(*tender))
}

// DeleteTender удаление тендера
// @Summary Удаление тендера
// @Description Только для роли CITY
// @Tags Tenders
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тендера"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/tenders/{id} [delete]
func (h *APIHandler) DeleteTender(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	if !role.Allowed(claims.Role, claims.IsSuperuser, role.ActionTenderDelete) {
		h.errorResponse(c, http.StatusForbidden, "Only city users can delete tenders")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid tender ID")
		return
	}

	if _, err := h.Repository.GetTenderByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusNotFound, "tender not found")
			return
		}
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.Repository.DeleteTender(uint(id)); err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "tender deleted", nil)
}

// GetTenderBids все заявки конкретного тендера
// @Summary Заявки тендера
// @Description Видны любому аутентифицированному пользователю,
// @Description независимо от владения заявками
// @Tags Tenders
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тендера"
// @Success 200 {object} dto.BidListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/tenders/{id}/bids [get]
func (h *APIHandler) GetTenderBids(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid tender ID")
		return
	}

	if _, err := h.Repository.GetTenderByID(uint(id)); err != nil {
		h.errorResponse(c, http.StatusNotFound, "tender not found")
		return
	}

	bids, err := h.Repository.GetBidsByTender(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	hasWinner, err := h.Repository.TenderHasWinner(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]dto.BidResponse, len(bids))
	for i, b := range bids {
		responses[i] = h.bidToResponse(b, hasWinner)
	}

	c.JSON(http.StatusOK, dto.BidListResponse{
		Bids:  responses,
		Total: len(responses),
	})
}
