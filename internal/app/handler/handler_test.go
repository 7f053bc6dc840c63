package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tender-backend/internal/app/config"
	"tender-backend/internal/app/ds"
	"tender-backend/internal/app/dto"
	"tender-backend/internal/app/middleware"
	"tender-backend/internal/app/repository"
	"tender-backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		ServiceHost: "127.0.0.1",
		ServicePort: 8080,
		JWT: config.JWTConfig{
			Token:            "test-secret",
			ExpiresIn:        time.Hour,
			RefreshExpiresIn: 24 * time.Hour,
			SigningMethod:    jwt.SigningMethodHS256,
		},
	}
}

// setupTest поднимает роутер на sqlite in-memory, без Redis и MinIO
func setupTest(t *testing.T) (*gin.Engine, *repository.Repository) {
	t.Helper()

	repo, err := repository.NewWithDialector(sqlite.Open(":memory:"))
	require.NoError(t, err)

	cfg := testConfig()
	authHandler := NewAuthHandler(repo, nil, cfg)
	apiHandler := NewAPIHandler(repo, nil, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(nil, cfg)

	router := gin.New()
	apiHandler.RegisterAPIRoutes(router, authMiddleware)

	return router, repo
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func registerCompany(t *testing.T, router *gin.Engine, username string) dto.RegisterResponse {
	t.Helper()

	w := doRequest(t, router, "POST", "/api/auth/register", gin.H{
		"username":  username,
		"password":  "pw1",
		"user_type": "COMPANY",
		"company_profile": gin.H{
			"company_name":        "Acme Construction",
			"contact_email":       username + "@example.com",
			"registration_number": "R-" + username,
		},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.RegisterResponse
	decodeJSON(t, w, &resp)
	return resp
}

func login(t *testing.T, router *gin.Engine, username, password, userType string) dto.LoginResponse {
	t.Helper()

	body := gin.H{"username": username, "password": password}
	if userType != "" {
		body["user_type"] = userType
	}
	w := doRequest(t, router, "POST", "/api/auth/login", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.LoginResponse
	decodeJSON(t, w, &resp)
	return resp
}

// Городские аккаунты заводятся вне самостоятельной регистрации
func seedCityUser(t *testing.T, repo *repository.Repository, username string) *ds.User {
	t.Helper()

	user := &ds.User{
		Username:         username,
		Password:         generateHashString("pw1"),
		UserType:         role.City,
		OrganizationName: "City Hall",
	}
	require.NoError(t, repo.CreateUser(user))
	return user
}

func seedSuperuser(t *testing.T, repo *repository.Repository, username string) *ds.User {
	t.Helper()

	user := &ds.User{
		Username:    username,
		Password:    generateHashString("pw1"),
		UserType:    role.City,
		IsSuperuser: true,
	}
	require.NoError(t, repo.CreateUser(user))
	return user
}

func createTender(t *testing.T, router *gin.Engine, token, budget string) dto.TenderResponse {
	t.Helper()

	w := doRequest(t, router, "POST", "/api/tenders", gin.H{
		"title":               "Road repair",
		"description":         "Main street resurfacing",
		"budget":              budget,
		"category":            "INFRASTRUCTURE",
		"notice_date":         time.Now().UTC().Format(time.RFC3339),
		"submission_deadline": time.Now().UTC().Add(72 * time.Hour).Format(time.RFC3339),
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.TenderResponse
	decodeJSON(t, w, &resp)
	return resp
}

func createBid(t *testing.T, router *gin.Engine, token string, tenderID uint, price string) dto.BidResponse {
	t.Helper()

	w := doRequest(t, router, "POST", "/api/bids", gin.H{
		"tender":        tenderID,
		"bidding_price": price,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.BidResponse
	decodeJSON(t, w, &resp)
	return resp
}

func TestPing(t *testing.T) {
	router, _ := setupTest(t)

	w := doRequest(t, router, "GET", "/ping", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestAuthRequired(t *testing.T) {
	router, _ := setupTest(t)

	w := doRequest(t, router, "GET", "/api/tenders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, router, "GET", "/api/bids", nil, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister(t *testing.T) {
	router, _ := setupTest(t)

	t.Run("missing credentials", func(t *testing.T) {
		w := doRequest(t, router, "POST", "/api/auth/register", gin.H{
			"username": "nopass",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("city self-registration is forbidden", func(t *testing.T) {
		w := doRequest(t, router, "POST", "/api/auth/register", gin.H{
			"username":  "newcity",
			"password":  "pw1",
			"user_type": "CITY",
		}, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid user type", func(t *testing.T) {
		w := doRequest(t, router, "POST", "/api/auth/register", gin.H{
			"username":  "strange",
			"password":  "pw1",
			"user_type": "ALIEN",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing profile fields are listed", func(t *testing.T) {
		w := doRequest(t, router, "POST", "/api/auth/register", gin.H{
			"username":  "incomplete",
			"password":  "pw1",
			"user_type": "COMPANY",
			"company_profile": gin.H{
				"company_name": "No Reg Number LLC",
			},
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.ErrorResponse
		decodeJSON(t, w, &resp)
		assert.Contains(t, resp.Detail, "contact_email")
		assert.Contains(t, resp.Detail, "registration_number")
		assert.NotContains(t, resp.Detail, "company_name")
	})

	t.Run("company registers successfully", func(t *testing.T) {
		resp := registerCompany(t, router, "acme")
		assert.NotZero(t, resp.UserID)
		assert.Equal(t, "acme", resp.Username)
		assert.Equal(t, "COMPANY", resp.UserType)
	})

	t.Run("duplicate username", func(t *testing.T) {
		w := doRequest(t, router, "POST", "/api/auth/register", gin.H{
			"username":  "acme",
			"password":  "pw2",
			"user_type": "COMPANY",
			"company_profile": gin.H{
				"company_name":        "Other",
				"contact_email":       "o@example.com",
				"registration_number": "R2",
			},
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	router, repo := setupTest(t)
	registerCompany(t, router, "acme")
	seedSuperuser(t, repo, "root")

	t.Run("invalid credentials", func(t *testing.T) {
		w := doRequest(t, router, "POST", "/api/auth/login", gin.H{
			"username": "acme", "password": "wrong",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("type mismatch fails for regular user", func(t *testing.T) {
		w := doRequest(t, router, "POST", "/api/auth/login", gin.H{
			"username": "acme", "password": "pw1", "user_type": "CITY",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stored role is returned", func(t *testing.T) {
		resp := login(t, router, "acme", "pw1", "")
		assert.Equal(t, "COMPANY", resp.UserType)
		assert.Equal(t, "acme", resp.Username)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.Refresh)
	})

	t.Run("superuser may present any role", func(t *testing.T) {
		resp := login(t, router, "root", "pw1", "COMPANY")
		assert.Equal(t, "COMPANY", resp.UserType)
	})
}

func TestTenderCRUD(t *testing.T) {
	router, repo := setupTest(t)
	registerCompany(t, router, "acme")
	seedCityUser(t, repo, "cityhall")

	companyToken := login(t, router, "acme", "pw1", "").Token
	cityToken := login(t, router, "cityhall", "pw1", "").Token

	t.Run("company cannot create tender", func(t *testing.T) {
		w := doRequest(t, router, "POST", "/api/tenders", gin.H{
			"title":               "Nope",
			"budget":              "10.00",
			"notice_date":         time.Now().UTC().Format(time.RFC3339),
			"submission_deadline": time.Now().UTC().Format(time.RFC3339),
		}, companyToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	tender := createTender(t, router, cityToken, "1000.00")
	assert.Equal(t, "OPEN", tender.Status)
	assert.True(t, tender.Budget.Equal(decimal.RequireFromString("1000.00")))

	t.Run("any authenticated caller can list and retrieve", func(t *testing.T) {
		w := doRequest(t, router, "GET", "/api/tenders", nil, companyToken)
		assert.Equal(t, http.StatusOK, w.Code)

		var list dto.TenderListResponse
		decodeJSON(t, w, &list)
		assert.Equal(t, 1, list.Total)

		w = doRequest(t, router, "GET", fmt.Sprintf("/api/tenders/%d", tender.ID), nil, companyToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("creator is forced from token", func(t *testing.T) {
		city, err := repo.GetUserByUsername("cityhall")
		require.NoError(t, err)
		assert.Equal(t, city.ID, tender.CreatedBy)
	})

	t.Run("company cannot update or delete", func(t *testing.T) {
		w := doRequest(t, router, "PUT", fmt.Sprintf("/api/tenders/%d", tender.ID), gin.H{
			"title": "Hacked",
		}, companyToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doRequest(t, router, "DELETE", fmt.Sprintf("/api/tenders/%d", tender.ID), nil, companyToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("city updates tender", func(t *testing.T) {
		w := doRequest(t, router, "PUT", fmt.Sprintf("/api/tenders/%d", tender.ID), gin.H{
			"title":  "Road repair phase 2",
			"budget": "1500.00",
		}, cityToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated dto.TenderResponse
		decodeJSON(t, w, &updated)
		assert.Equal(t, "Road repair phase 2", updated.Title)
		assert.True(t, updated.Budget.Equal(decimal.RequireFromString("1500.00")))
	})

	t.Run("city deletes tender", func(t *testing.T) {
		w := doRequest(t, router, "DELETE", fmt.Sprintf("/api/tenders/%d", tender.ID), nil, cityToken)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doRequest(t, router, "GET", fmt.Sprintf("/api/tenders/%d", tender.ID), nil, cityToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBidCreation(t *testing.T) {
	router, repo := setupTest(t)
	acme := registerCompany(t, router, "acme")
	seedCityUser(t, repo, "cityhall")

	companyToken := login(t, router, "acme", "pw1", "").Token
	cityToken := login(t, router, "cityhall", "pw1", "").Token
	tender := createTender(t, router, cityToken, "1000.00")

	t.Run("bid against unknown tender", func(t *testing.T) {
		w := doRequest(t, router, "POST", "/api/bids", gin.H{
			"tender":        99999,
			"bidding_price": "950.00",
		}, companyToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bidder is forced from token", func(t *testing.T) {
		// Клиентское поле company игнорируется
		w := doRequest(t, router, "POST", "/api/bids", gin.H{
			"tender":        tender.ID,
			"bidding_price": "950.00",
			"company":       99999,
		}, companyToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var bid dto.BidResponse
		decodeJSON(t, w, &bid)
		assert.Equal(t, acme.UserID, bid.Company)
		assert.Equal(t, "PENDING", bid.Status)
		assert.True(t, bid.BiddingPrice.Equal(decimal.RequireFromString("950.00")))
	})
}

func TestBidVisibility(t *testing.T) {
	router, repo := setupTest(t)
	registerCompany(t, router, "acme")
	registerCompany(t, router, "globex")
	seedCityUser(t, repo, "cityhall")

	acmeToken := login(t, router, "acme", "pw1", "").Token
	globexToken := login(t, router, "globex", "pw1", "").Token
	cityToken := login(t, router, "cityhall", "pw1", "").Token

	tender := createTender(t, router, cityToken, "1000.00")
	acmeBid := createBid(t, router, acmeToken, tender.ID, "950.00")
	createBid(t, router, globexToken, tender.ID, "980.00")

	t.Run("collection scope", func(t *testing.T) {
		var list dto.BidListResponse

		w := doRequest(t, router, "GET", "/api/bids", nil, cityToken)
		require.Equal(t, http.StatusOK, w.Code)
		decodeJSON(t, w, &list)
		assert.Equal(t, 2, list.Total)

		w = doRequest(t, router, "GET", "/api/bids", nil, acmeToken)
		require.Equal(t, http.StatusOK, w.Code)
		decodeJSON(t, w, &list)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, acmeBid.ID, list.Bids[0].ID)
	})

	t.Run("foreign bid retrieval is 404", func(t *testing.T) {
		w := doRequest(t, router, "GET", fmt.Sprintf("/api/bids/%d", acmeBid.ID), nil, globexToken)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doRequest(t, router, "GET", fmt.Sprintf("/api/bids/%d", acmeBid.ID), nil, cityToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("tender bids are open to any authenticated caller", func(t *testing.T) {
		w := doRequest(t, router, "GET", fmt.Sprintf("/api/tenders/%d/bids", tender.ID), nil, globexToken)
		require.Equal(t, http.StatusOK, w.Code)

		var list dto.BidListResponse
		decodeJSON(t, w, &list)
		assert.Equal(t, 2, list.Total)
	})

	t.Run("my_bids never leaks foreign bids to a company", func(t *testing.T) {
		w := doRequest(t, router, "GET", "/api/bids/my_bids", nil, acmeToken)
		require.Equal(t, http.StatusOK, w.Code)

		var list dto.BidListResponse
		decodeJSON(t, w, &list)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, acmeBid.ID, list.Bids[0].ID)
	})

	t.Run("my_bids shows everything to city users", func(t *testing.T) {
		w := doRequest(t, router, "GET", "/api/bids/my_bids", nil, cityToken)
		require.Equal(t, http.StatusOK, w.Code)

		var list dto.BidListResponse
		decodeJSON(t, w, &list)
		assert.Equal(t, 2, list.Total)
	})
}

func TestWinnerSelection(t *testing.T) {
	router, repo := setupTest(t)
	registerCompany(t, router, "acme")
	registerCompany(t, router, "globex")
	seedCityUser(t, repo, "cityhall")

	acmeToken := login(t, router, "acme", "pw1", "").Token
	globexToken := login(t, router, "globex", "pw1", "").Token
	cityToken := login(t, router, "cityhall", "pw1", "").Token

	tender := createTender(t, router, cityToken, "1000.00")
	acmeBid := createBid(t, router, acmeToken, tender.ID, "950.00")
	globexBid := createBid(t, router, globexToken, tender.ID, "980.00")

	t.Run("company cannot select winner", func(t *testing.T) {
		w := doRequest(t, router, "POST", fmt.Sprintf("/api/bids/%d/select_winner", acmeBid.ID), nil, acmeToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown bid is 404", func(t *testing.T) {
		w := doRequest(t, router, "POST", "/api/bids/99999/select_winner", nil, cityToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("city selects winner", func(t *testing.T) {
		w := doRequest(t, router, "POST", fmt.Sprintf("/api/bids/%d/select_winner", acmeBid.ID), nil, cityToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// Тендер переходит в AWARDED
		var tenderResp dto.TenderResponse
		w = doRequest(t, router, "GET", fmt.Sprintf("/api/tenders/%d", tender.ID), nil, cityToken)
		require.Equal(t, http.StatusOK, w.Code)
		decodeJSON(t, w, &tenderResp)
		assert.Equal(t, "AWARDED", tenderResp.Status)
		assert.NotNil(t, tenderResp.WinnerDate)

		// Победившая заявка ACCEPTED, остальные REJECTED
		var list dto.BidListResponse
		w = doRequest(t, router, "GET", fmt.Sprintf("/api/tenders/%d/bids", tender.ID), nil, cityToken)
		require.Equal(t, http.StatusOK, w.Code)
		decodeJSON(t, w, &list)
		require.Equal(t, 2, list.Total)
		for _, b := range list.Bids {
			if b.ID == acmeBid.ID {
				assert.Equal(t, "ACCEPTED", b.Status)
				assert.True(t, b.IsWinner)
			} else {
				assert.Equal(t, "REJECTED", b.Status)
				assert.False(t, b.IsWinner)
			}
		}
	})

	t.Run("re-election moves the winner", func(t *testing.T) {
		w := doRequest(t, router, "POST", fmt.Sprintf("/api/bids/%d/select_winner", globexBid.ID), nil, cityToken)
		require.Equal(t, http.StatusOK, w.Code)

		var list dto.BidListResponse
		w = doRequest(t, router, "GET", fmt.Sprintf("/api/tenders/%d/bids", tender.ID), nil, cityToken)
		require.Equal(t, http.StatusOK, w.Code)
		decodeJSON(t, w, &list)

		winners := 0
		for _, b := range list.Bids {
			if b.IsWinner {
				winners++
				assert.Equal(t, globexBid.ID, b.ID)
			}
		}
		assert.Equal(t, 1, winners)
	})
}

func TestBidUpdate(t *testing.T) {
	router, repo := setupTest(t)
	registerCompany(t, router, "acme")
	seedCityUser(t, repo, "cityhall")

	acmeToken := login(t, router, "acme", "pw1", "").Token
	cityToken := login(t, router, "cityhall", "pw1", "").Token
	tender := createTender(t, router, cityToken, "1000.00")
	bid := createBid(t, router, acmeToken, tender.ID, "950.00")

	t.Run("price and notes are updatable", func(t *testing.T) {
		w := doRequest(t, router, "PUT", fmt.Sprintf("/api/bids/%d", bid.ID), gin.H{
			"bidding_price":    "900.00",
			"additional_notes": "revised offer",
		}, acmeToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated dto.BidResponse
		decodeJSON(t, w, &updated)
		assert.True(t, updated.BiddingPrice.Equal(decimal.RequireFromString("900.00")))
		require.NotNil(t, updated.AdditionalNotes)
		assert.Equal(t, "revised offer", *updated.AdditionalNotes)
		// Флаг победителя через обновление не меняется
		assert.False(t, updated.IsWinner)
	})

	t.Run("owner deletes own bid", func(t *testing.T) {
		w := doRequest(t, router, "DELETE", fmt.Sprintf("/api/bids/%d", bid.ID), nil, acmeToken)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doRequest(t, router, "GET", fmt.Sprintf("/api/bids/%d", bid.ID), nil, acmeToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProfile(t *testing.T) {
	router, _ := setupTest(t)
	registerCompany(t, router, "acme")

	token := login(t, router, "acme", "pw1", "").Token
	w := doRequest(t, router, "GET", "/api/auth/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "acme")
	assert.Contains(t, w.Body.String(), "registration_number")
}
