package handler

import (
	"fmt"
	"net/http"

	"tender-backend/internal/app/ds"
	"tender-backend/internal/app/dto"
	"tender-backend/internal/app/middleware"
	"tender-backend/internal/app/repository"
	"tender-backend/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIHandler содержит обработчики для REST API
type APIHandler struct {
	Repository  *repository.Repository
	MinIOClient *storage.MinIOClient
	AuthHandler *AuthHandler
}

func NewAPIHandler(r *repository.Repository, minioClient *storage.MinIOClient, authHandler *AuthHandler) *APIHandler {
	return &APIHandler{
		Repository:  r,
		MinIOClient: minioClient,
		AuthHandler: authHandler,
	}
}

// getClaims достаёт claims из контекста запроса.
// Дальше по коду claims передаются только явным аргументом.
func (h *APIHandler) getClaims(c *gin.Context) (*ds.JWTClaims, error) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		logrus.Warn("claims not found in context")
		return nil, fmt.Errorf("user not authenticated")
	}
	return claims, nil
}

// ============ Вспомогательные функции ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, detail string) {
	logrus.Error(detail)
	c.JSON(statusCode, dto.ErrorResponse{
		Status: "error",
		Detail: detail,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// documentURL отдаёт временную ссылку на документ заявки;
// без настроенного MinIO возвращает имя объекта как есть
func (h *APIHandler) documentURL(objectName string) string {
	if objectName == "" || h.MinIOClient == nil {
		return objectName
	}
	url, err := h.MinIOClient.GetDocumentURL(objectName)
	if err != nil {
		logrus.Error("failed to presign document URL: ", err)
		return objectName
	}
	return url
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}
