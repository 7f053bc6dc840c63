package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"tender-backend/internal/app/ds"
	"tender-backend/internal/app/dto"
	"tender-backend/internal/app/repository"
	"tender-backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *APIHandler) bidToResponse(b ds.Bid, tenderHasWinner bool) dto.BidResponse {
	return dto.BidResponse{
		ID:              b.ID,
		TenderID:        b.TenderID,
		TenderTitle:     b.Tender.Title,
		Company:         b.CompanyID,
		CompanyName:     b.Company.Username,
		BiddingPrice:    b.BiddingPrice,
		Documents:       h.documentURL(b.Documents),
		SubmissionDate:  b.SubmissionDate,
		IsWinner:        b.IsWinner,
		AdditionalNotes: b.AdditionalNotes,
		Status:          string(ds.BidStatusOf(b, tenderHasWinner)),
	}
}

// bidListToResponse вычисляет производные статусы для списка заявок
// одним запросом по множеству тендеров
func (h *APIHandler) bidListToResponse(bids []ds.Bid) ([]dto.BidResponse, error) {
	tenderIDs := make([]uint, 0, len(bids))
	seen := make(map[uint]bool)
	for _, b := range bids {
		if !seen[b.TenderID] {
			seen[b.TenderID] = true
			tenderIDs = append(tenderIDs, b.TenderID)
		}
	}

	winners, err := h.Repository.WinnerTenderIDs(tenderIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BidResponse, len(bids))
	for i, b := range bids {
		responses[i] = h.bidToResponse(b, winners[b.TenderID])
	}
	return responses, nil
}

// GetBids список заявок с ролевой областью видимости
// @Summary Список заявок
// @Description CITY и суперпользователь видят все заявки,
// @Description COMPANY — только свои
// @Tags Bids
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BidListResponse
// @Router /api/bids [get]
func (h *APIHandler) GetBids(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	bids, err := h.Repository.BidsVisibleTo(claims.UserID, claims.Role, claims.IsSuperuser)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses, err := h.bidListToResponse(bids)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.BidListResponse{
		Bids:  responses,
		Total: len(responses),
	})
}

// GetBid одна заявка (в пределах области видимости роли)
// @Summary Получение заявки
// @Tags Bids
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.BidResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/bids/{id} [get]
func (h *APIHandler) GetBid(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	bid, ok := h.loadVisibleBid(c, claims)
	if !ok {
		return
	}

	hasWinner, err := h.Repository.TenderHasWinner(bid.TenderID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, h.bidToResponse(*bid, hasWinner))
}

// loadVisibleBid загружает заявку и проверяет область видимости.
// Недоступная заявка неотличима от несуществующей (404).
func (h *APIHandler) loadVisibleBid(c *gin.Context, claims *ds.JWTClaims) (*ds.Bid, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid bid ID")
		return nil, false
	}

	bid, err := h.Repository.GetBidByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "bid not found")
		return nil, false
	}

	if !repository.BidVisibleTo(*bid, claims.UserID, claims.Role, claims.IsSuperuser) {
		h.errorResponse(c, http.StatusNotFound, "bid not found")
		return nil, false
	}

	return bid, true
}

// CreateBid подача заявки на тендер
// @Summary Подача заявки
// @Description Заявитель всегда берётся из токена. Статус тендера и
// @Description дедлайн подачи при создании не проверяются.
// @Tags Bids
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBidRequest true "Данные заявки"
// @Success 201 {object} dto.BidResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/bids [post]
func (h *APIHandler) CreateBid(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	var request dto.CreateBidRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.Repository.GetTenderByID(request.TenderID); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "tender does not exist")
		return
	}

	// Заявитель принудительно из claims, клиентское поле игнорируется
	bid := ds.Bid{
		TenderID:        request.TenderID,
		CompanyID:       claims.UserID,
		BiddingPrice:    request.BiddingPrice,
		SubmissionDate:  time.Now(),
		AdditionalNotes: request.AdditionalNotes,
	}

	if err := h.Repository.CreateBid(&bid); err != nil {
		logrus.Error("Error creating bid: ", err)
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.Repository.GetBidByID(bid.ID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	hasWinner, err := h.Repository.TenderHasWinner(created.TenderID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusCreated, h.bidToResponse(*created, hasWinner))
}

// UpdateBid изменение заявки
// @Summary Изменение заявки
// @Description Изменяемы только цена и примечания. Поля company,
// @Description submission_date и is_winner только для чтения.
// @Tags Bids
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.UpdateBidRequest true "Изменяемые поля"
// @Success 200 {object} dto.BidResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/bids/{id} [put]
func (h *APIHandler) UpdateBid(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	bid, ok := h.loadVisibleBid(c, claims)
	if !ok {
		return
	}

	var request dto.UpdateBidRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if request.BiddingPrice != nil {
		updates["bidding_price"] = *request.BiddingPrice
	}
	if request.AdditionalNotes != nil {
		updates["additional_notes"] = *request.AdditionalNotes
	}

	if len(updates) > 0 {
		if err := h.Repository.UpdateBid(bid.ID, updates); err != nil {
			h.errorResponse(c, http.StatusInternalServerError, err.Error())
			return
		}
	}

	updated, err := h.Repository.GetBidByID(bid.ID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	hasWinner, err := h.Repository.TenderHasWinner(updated.TenderID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, h.bidToResponse(*updated, hasWinner))
}

// DeleteBid удаление заявки
// @Summary Удаление заявки
// @Tags Bids
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/bids/{id} [delete]
func (h *APIHandler) DeleteBid(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	bid, ok := h.loadVisibleBid(c, claims)
	if !ok {
		return
	}

	// Осиротевший документ в MinIO зачищаем сразу
	if bid.Documents != "" && h.MinIOClient != nil {
		if err := h.MinIOClient.DeleteDocument(bid.Documents); err != nil {
			logrus.Error("failed to delete bid document: ", err)
		}
	}

	if err := h.Repository.DeleteBid(bid.ID); err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "bid deleted", nil)
}

// GetMyBids заявки текущего пользователя
// @Summary Мои заявки
// @Description COMPANY видит только свои заявки, суперпользователь и
// @Description остальные роли — все
// @Tags Bids
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BidListResponse
// @Router /api/bids/my_bids [get]
func (h *APIHandler) GetMyBids(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	bids, err := h.Repository.MyBids(claims.UserID, claims.Role, claims.IsSuperuser)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses, err := h.bidListToResponse(bids)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.BidListResponse{
		Bids:  responses,
		Total: len(responses),
	})
}

// SelectWinner выбор победившей заявки
// @Summary Выбор победителя
// @Description Атомарно: сброс флага у всех заявок тендера, отметка
// @Description победителя, перевод тендера в AWARDED. Повторный вызов
// @Description переизбирает победителя.
// @Tags Bids
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/bids/{id}/select_winner [post]
func (h *APIHandler) SelectWinner(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	// Явный 403, не тихая фильтрация
	if !role.Allowed(claims.Role, claims.IsSuperuser, role.ActionSelectWinner) {
		h.errorResponse(c, http.StatusForbidden, "Only city users can select winners")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid bid ID")
		return
	}

	bid, err := h.Repository.SelectWinner(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusNotFound, "bid not found")
			return
		}
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "Winner selected successfully", gin.H{
		"bid_id":        bid.ID,
		"tender_id":     bid.TenderID,
		"tender_status": ds.TenderAwarded,
		"bid_status":    ds.BidAccepted,
	})
}

// UploadBidDocuments загрузка документа заявки
// @Summary Загрузка документа заявки
// @Description Файл хранится в MinIO как непрозрачный блоб без
// @Description проверки размера и типа
// @Tags Bids
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param documents formData file true "Документ"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/bids/{id}/documents [post]
func (h *APIHandler) UploadBidDocuments(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	bid, ok := h.loadVisibleBid(c, claims)
	if !ok {
		return
	}

	if h.MinIOClient == nil {
		h.errorResponse(c, http.StatusServiceUnavailable, "document storage is not configured")
		return
	}

	fileHeader, err := c.FormFile("documents")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "documents file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	objectName, err := h.MinIOClient.UploadDocument(data, fileHeader.Filename)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	// Старый документ заменяем
	if bid.Documents != "" {
		if err := h.MinIOClient.DeleteDocument(bid.Documents); err != nil {
			logrus.Error("failed to delete old bid document: ", err)
		}
	}

	if err := h.Repository.UpdateBid(bid.ID, map[string]interface{}{"documents": objectName}); err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "document uploaded", gin.H{
		"documents": h.documentURL(objectName),
	})
}
