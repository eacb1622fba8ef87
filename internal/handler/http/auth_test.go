package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixelcraft/booking-service/internal/domain"
	"github.com/pixelcraft/booking-service/internal/service"
	apperrors "github.com/pixelcraft/booking-service/pkg/errors"
	"github.com/pixelcraft/booking-service/pkg/health"
)

func setupAuthRouter(admins *mockAdminRepository) http.Handler {
	orders := new(mockOrderRepository)
	sessions := new(mockSessionStore)
	offers := new(mockOfferRepository)
	return NewRouter(
		testCheckoutService(orders, sessions),
		testOfferService(offers),
		testAuthService(admins),
		testWebhookSecret,
		health.NewHandler(),
		testLogger(),
	)
}

func adminAccount(t *testing.T, password string) *domain.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.AdminUser{
		ID:           "admin-1",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
}

func TestLogin_Success(t *testing.T) {
	admins := new(mockAdminRepository)
	router := setupAuthRouter(admins)

	admins.On("GetByEmail", mock.Anything, "admin@example.com").
		Return(adminAccount(t, "s3cret-pass"), nil)

	body := []byte(`{"email":"admin@example.com","password":"s3cret-pass"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/login", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.Nil(t, resp.Error)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result service.LoginResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, domain.RoleAdmin, result.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	admins := new(mockAdminRepository)
	router := setupAuthRouter(admins)

	admins.On("GetByEmail", mock.Anything, "admin@example.com").
		Return(adminAccount(t, "s3cret-pass"), nil)

	body := []byte(`{"email":"admin@example.com","password":"wrong"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/login", body))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestLogin_UnknownEmail_SameError(t *testing.T) {
	admins := new(mockAdminRepository)
	router := setupAuthRouter(admins)

	admins.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(nil, apperrors.NotFound("admin", "nobody@example.com"))

	body := []byte(`{"email":"nobody@example.com","password":"whatever"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/login", body))

	// Indistinguishable from a wrong password.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	admins := new(mockAdminRepository)
	router := setupAuthRouter(admins)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/login", []byte(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	admins.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}
