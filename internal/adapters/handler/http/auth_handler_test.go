package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/services"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func setupHandler(t *testing.T, users domain.UserRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := repository.NewInMemoryCatalogRepository()
	require.NoError(t, catalog.UpsertSurahs(context.Background(), handlerCatalog()))
	progress := repository.NewInMemoryProgressRepository(catalog)

	tokens := services.NewTokenService("test-secret", "khatma-test", time.Hour, users)
	authHandler := NewAuthHandler(services.NewAuthService(users, progress, tokens))

	router := gin.New()
	authHandler.RegisterRoutes(router.Group(""))

	return router
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Success: Should return 201 and created user (No Password)", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		router := setupHandler(t, mockRepo)

		payload := map[string]string{
			"email":    "api_test@khatma.app",
			"password": "PasswordSuperSegreta1!",
		}

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		w := postJSON(router, "/auth/register", payload)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response userResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, payload["email"], response.Email)
		assert.NotEmpty(t, response.ID)

		assert.NotContains(t, w.Body.String(), "password")

		mockRepo.AssertExpectations(t)
	})

	t.Run("Fail: Should return 400 for Bad JSON (Invalid Email)", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		router := setupHandler(t, mockRepo)

		w := postJSON(router, "/auth/register", map[string]string{
			"email":    "not-an-email",
			"password": "Password123!",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should return 400 for Bad JSON (Password too short)", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		router := setupHandler(t, mockRepo)

		w := postJSON(router, "/auth/register", map[string]string{
			"email":    "valid@email.com",
			"password": "short",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should return 409 Conflict if email exists", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		router := setupHandler(t, mockRepo)

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrEmailAlreadyExists)

		w := postJSON(router, "/auth/register", map[string]string{
			"email":    "duplicate@khatma.app",
			"password": "PasswordValidissima!",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "email already exists")
	})

	t.Run("Fail: Should return 500 Internal Server Error on DB failure", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		router := setupHandler(t, mockRepo)

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db connection lost"))

		w := postJSON(router, "/auth/register", map[string]string{
			"email":    "crash@khatma.app",
			"password": "PasswordValidissima!",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "internal server error")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	users := repository.NewInMemoryUserRepository()
	router := setupHandler(t, users)

	creds := map[string]string{"email": "reader@khatma.app", "password": "PasswordValidissima!"}
	require.Equal(t, http.StatusCreated, postJSON(router, "/auth/register", creds).Code)

	t.Run("Success: Should return a token", func(t *testing.T) {
		w := postJSON(router, "/auth/login", map[string]string{
			"email":    "Reader@Khatma.app",
			"password": creds["password"],
		})

		require.Equal(t, http.StatusOK, w.Code)

		var response tokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.NotEmpty(t, response.Token)
	})

	t.Run("Fail: Wrong password is 401", func(t *testing.T) {
		w := postJSON(router, "/auth/login", map[string]string{"email": creds["email"], "password": "WrongPassword!"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Fail: Unknown email looks like a wrong password", func(t *testing.T) {
		w := postJSON(router, "/auth/login", map[string]string{"email": "ghost@khatma.app", "password": "Whatever123!"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), domain.ErrInvalidCredentials.Error())
	})

	t.Run("Fail: Missing fields are 400", func(t *testing.T) {
		w := postJSON(router, "/auth/login", map[string]string{"email": creds["email"]})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
