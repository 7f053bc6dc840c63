package handler

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"tender-backend/internal/app/config"
	"tender-backend/internal/app/ds"
	"tender-backend/internal/app/dto"
	"tender-backend/internal/app/middleware"
	"tender-backend/internal/app/redis"
	"tender-backend/internal/app/repository"
	"tender-backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	Repository  *repository.Repository
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAuthHandler(r *repository.Repository, redisClient *redis.Client, config *config.Config) *AuthHandler {
	return &AuthHandler{
		Repository:  r,
		RedisClient: redisClient,
		Config:      config,
	}
}

// generateHashString генерирует SHA-1 хеш из строки
func generateHashString(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// issueToken подписывает JWT с ролью, под которой пользователь вошёл
func (h *AuthHandler) issueToken(user *ds.User, presentedRole role.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(h.Config.JWT.SigningMethod, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    "tender-backend",
		},
		UserID:      user.ID,
		Role:        presentedRole,
		IsSuperuser: user.IsSuperuser,
	})
	return token.SignedString([]byte(h.Config.JWT.Token))
}

// RegisterUser регистрация нового пользователя
// @Summary Регистрация пользователя
// @Description Регистрация компании с профилем. Аккаунты CITY через
// @Description самостоятельную регистрацию не создаются.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные для регистрации"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) RegisterUser(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err.Error())
		return
	}

	if request.Username == "" || request.Password == "" {
		h.errorHandler(ctx, http.StatusBadRequest, "Username and password are required.")
		return
	}

	exists, err := h.Repository.UserExistsByUsername(request.Username)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, "registration failed")
		return
	}
	if exists {
		h.errorHandler(ctx, http.StatusBadRequest, "Username already exists.")
		return
	}

	// Тип по умолчанию — COMPANY
	userType := role.Role(request.UserType)
	if request.UserType == "" {
		userType = role.Company
	}

	switch userType {
	case role.City:
		// Городские аккаунты заводятся только администратором (cmd/seed)
		h.errorHandler(ctx, http.StatusForbidden, "Only superusers can create city accounts.")
		return
	case role.Company:
		missing := missingProfileFields(request.CompanyProfile)
		if len(missing) > 0 {
			h.errorHandler(ctx, http.StatusBadRequest,
				"Missing required fields: "+strings.Join(missing, ", "))
			return
		}

		user := &ds.User{
			Username:         request.Username,
			Password:         generateHashString(request.Password),
			UserType:         role.Company,
			OrganizationName: request.OrganizationName,
			Email:            request.CompanyProfile.ContactEmail,
		}
		profile := &ds.CompanyProfile{
			CompanyName:        request.CompanyProfile.CompanyName,
			ContactEmail:       request.CompanyProfile.ContactEmail,
			RegistrationNumber: request.CompanyProfile.RegistrationNumber,
			PhoneNumber:        request.CompanyProfile.PhoneNumber,
			Address:            request.CompanyProfile.Address,
		}

		// Пользователь и профиль сохраняются одной транзакцией
		if err := h.Repository.CreateCompanyUser(user, profile); err != nil {
			logrus.Error("Error creating company user: ", err)
			h.errorHandler(ctx, http.StatusBadRequest, "Registration failed: "+err.Error())
			return
		}

		ctx.JSON(http.StatusCreated, dto.RegisterResponse{
			Message:  "Company user registered successfully",
			UserID:   user.ID,
			Username: user.Username,
			UserType: string(user.UserType),
		})
	default:
		h.errorHandler(ctx, http.StatusBadRequest, "Invalid user type. Must be COMPANY or CITY.")
	}
}

// missingProfileFields возвращает имена незаполненных обязательных полей профиля
func missingProfileFields(p *dto.CompanyProfilePayload) []string {
	var missing []string
	if p == nil {
		return []string{"company_name", "contact_email", "registration_number"}
	}
	if p.CompanyName == "" {
		missing = append(missing, "company_name")
	}
	if p.ContactEmail == "" {
		missing = append(missing, "contact_email")
	}
	if p.RegistrationNumber == "" {
		missing = append(missing, "registration_number")
	}
	return missing
}

// LoginUser аутентификация пользователя
// @Summary Вход в систему
// @Description Обмен логина и пароля на пару JWT токенов. Суперпользователь
// @Description может войти под любой запрошенной ролью.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Данные для входа"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) LoginUser(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Repository.GetUserByUsername(request.Username)
	if err != nil || user.Password != generateHashString(request.Password) {
		h.errorHandler(ctx, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Обычный пользователь обязан совпасть с хранимой ролью,
	// суперпользователь входит под любой запрошенной
	requested := role.Role(request.UserType)
	if request.UserType != "" && requested != user.UserType && !user.IsSuperuser {
		h.errorHandler(ctx, http.StatusBadRequest,
			"Invalid user type. This account is not a "+request.UserType+" account.")
		return
	}

	presentedRole := user.UserType
	if user.IsSuperuser && request.UserType != "" {
		presentedRole = requested
	}

	accessToken, err := h.issueToken(user, presentedRole, h.Config.JWT.ExpiresIn)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err.Error())
		return
	}
	refreshToken, err := h.issueToken(user, presentedRole, h.Config.JWT.RefreshExpiresIn)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Token:    accessToken,
		Refresh:  refreshToken,
		UserType: string(presentedRole),
		Username: user.Username,
	})
}

// LogoutUser выход пользователя из системы
// @Summary Выход из системы
// @Description Завершение сеанса с добавлением токена в blacklist
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) LogoutUser(ctx *gin.Context) {
	tokenString := ctx.GetHeader("Authorization")
	if tokenString == "" {
		h.errorHandler(ctx, http.StatusUnauthorized, "authorization header missing")
		return
	}

	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}

	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.Config.JWT.Token), nil
	})
	if err != nil {
		h.errorHandler(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok {
		h.errorHandler(ctx, http.StatusUnauthorized, "invalid token claims")
		return
	}

	// TTL до истечения токена; истёкший блокировать уже незачем
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl > 0 && h.RedisClient != nil {
		err = h.RedisClient.WriteJWTToBlacklist(ctx.Request.Context(), tokenString, ttl)
		if err != nil {
			h.errorHandler(ctx, http.StatusInternalServerError, err.Error())
			return
		}
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Status:  "success",
		Message: "logged out",
	})
}

// GetUserProfile получение профиля текущего пользователя
// @Summary Профиль пользователя
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetUserProfile(ctx *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		h.errorHandler(ctx, http.StatusUnauthorized, "user not authenticated")
		return
	}

	user, err := h.Repository.GetUserByID(claims.UserID)
	if err != nil {
		h.errorHandler(ctx, http.StatusNotFound, "user not found")
		return
	}

	profile := gin.H{
		"id":                user.ID,
		"username":          user.Username,
		"user_type":         claims.Role,
		"organization_name": user.OrganizationName,
	}

	// Для компаний добавляем данные профиля
	if user.UserType == role.Company {
		if cp, err := h.Repository.GetCompanyProfile(user.ID); err == nil {
			profile["company_profile"] = gin.H{
				"company_name":        cp.CompanyName,
				"contact_email":       cp.ContactEmail,
				"registration_number": cp.RegistrationNumber,
				"phone_number":        cp.PhoneNumber,
				"address":             cp.Address,
			}
		}
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Status: "success",
		Data:   profile,
	})
}

// errorHandler централизованная обработка ошибок
func (h *AuthHandler) errorHandler(ctx *gin.Context, errorStatusCode int, detail string) {
	logrus.Error(detail)
	ctx.JSON(errorStatusCode, dto.ErrorResponse{
		Status: "error",
		Detail: detail,
	})
}
