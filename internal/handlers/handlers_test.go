package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartattend_backend/internal/appErrors"
	"smartattend_backend/internal/auth"
	"smartattend_backend/internal/config"
	"smartattend_backend/internal/models"
	"smartattend_backend/internal/repositories"
	"smartattend_backend/internal/services/dto"
	"smartattend_backend/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthService records calls and returns scripted results.
type fakeAuthService struct {
	loginResp   *dto.LoginResponse
	loginErr    error
	requestErr  error
	resetErr    error
	changeErr   error
	resetCalls  []dto.ResetPasswordRequest
	requestedAt []string
}

func (s *fakeAuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *fakeAuthService) RequestPasswordReset(email string) error {
	s.requestedAt = append(s.requestedAt, email)
	return s.requestErr
}

func (s *fakeAuthService) ResetPassword(req *dto.ResetPasswordRequest) error {
	s.resetCalls = append(s.resetCalls, *req)
	return s.resetErr
}

func (s *fakeAuthService) ChangePassword(userID, currentPassword, newPassword string) error {
	return s.changeErr
}

type fakeUserService struct {
	getResp    *dto.UserResponse
	getErr     error
	updateResp *dto.UserResponse
	updateErr  error
	deleteErr  error
	listResp   *dto.UserListResponse
	listErr    error

	lastUpdateRole   models.UserRole
	lastUpdateReq    *dto.UpdateUserRequest
	lastUpdateAvatar *dto.AvatarFile
}

func (s *fakeUserService) GetUser(id string) (*dto.UserResponse, error) {
	return s.getResp, s.getErr
}

func (s *fakeUserService) UpdateUser(callerRole models.UserRole, id string, req *dto.UpdateUserRequest, avatar *dto.AvatarFile) (*dto.UserResponse, error) {
	s.lastUpdateRole = callerRole
	s.lastUpdateReq = req
	s.lastUpdateAvatar = avatar
	return s.updateResp, s.updateErr
}

func (s *fakeUserService) DeleteUser(id string) error { return s.deleteErr }

func (s *fakeUserService) ListUsers(filter repositories.UserFilter) (*dto.UserListResponse, error) {
	return s.listResp, s.listErr
}

type fakeAttendanceService struct {
	count int64
	err   error
}

func (s *fakeAttendanceService) GetTotalEventsCount() (int64, error) {
	return s.count, s.err
}

type handlerFixture struct {
	router     *gin.Engine
	auth       *fakeAuthService
	users      *fakeUserService
	attendance *fakeAttendanceService
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.Storage.BaseURL = "/uploads"
	prev := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = prev })

	f := &handlerFixture{
		auth:       &fakeAuthService{},
		users:      &fakeUserService{},
		attendance: &fakeAttendanceService{},
	}

	base := NewBaseHandler(validator.New())

	router := gin.New()
	api := router.Group("/api")
	NewAuthHandler(base, f.auth).RegisterRoutes(api)
	NewUserHandler(base, f.users).RegisterRoutes(api)
	NewAttendanceHandler(base, f.attendance).RegisterRoutes(api)

	f.router = router
	return f
}

func bearerToken(t *testing.T, userID, role string) string {
	t.Helper()

	token, err := auth.GenerateToken(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "expected error object in body: %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

func TestForgotPasswordEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	w := doJSON(t, f.router, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "student@klu.ac.in"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"student@klu.ac.in"}, f.auth.requestedAt)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newHandlerFixture(t)
	f.auth.requestErr = appErrors.ErrEmailNotFound

	w := doJSON(t, f.router, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "nobody@klu.ac.in"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "EMAIL_NOT_FOUND", errorCode(t, w))
}

func TestForgotPasswordRejectsBadBody(t *testing.T) {
	f := newHandlerFixture(t)

	w := doJSON(t, f.router, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.auth.requestedAt)
}

func TestResetPasswordEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	w := doJSON(t, f.router, http.MethodPost, "/api/auth/reset-password", "", gin.H{
		"email":       "student@klu.ac.in",
		"code":        "123456",
		"newPassword": "freshpass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.auth.resetCalls, 1)
	assert.Equal(t, "123456", f.auth.resetCalls[0].Code)
}

func TestResetPasswordValidatesCodeShape(t *testing.T) {
	f := newHandlerFixture(t)

	for _, code := range []string{"12345", "1234567", "12a456", ""} {
		w := doJSON(t, f.router, http.MethodPost, "/api/auth/reset-password", "", gin.H{
			"email":       "student@klu.ac.in",
			"code":        code,
			"newPassword": "freshpass",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "code %q should be rejected", code)
	}
	assert.Empty(t, f.auth.resetCalls)
}

func TestResetPasswordExpiredCode(t *testing.T) {
	f := newHandlerFixture(t)
	f.auth.resetErr = appErrors.ErrResetCodeExpired

	w := doJSON(t, f.router, http.MethodPost, "/api/auth/reset-password", "", gin.H{
		"email":       "student@klu.ac.in",
		"code":        "123456",
		"newPassword": "freshpass",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "RESET_CODE_EXPIRED", errorCode(t, w))
}

func TestGetUserRequiresAuth(t *testing.T) {
	f := newHandlerFixture(t)

	w := doJSON(t, f.router, http.MethodGet, "/api/users/u1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserSelf(t *testing.T) {
	f := newHandlerFixture(t)
	f.users.getResp = &dto.UserResponse{ID: "u1", FullName: "Test User"}

	w := doJSON(t, f.router, http.MethodGet, "/api/users/u1", bearerToken(t, "u1", "user"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "u1", user["id"])
}

func TestGetUserForbiddenForOtherUser(t *testing.T) {
	f := newHandlerFixture(t)
	f.users.getResp = &dto.UserResponse{ID: "u1"}

	w := doJSON(t, f.router, http.MethodGet, "/api/users/u1", bearerToken(t, "u2", "user"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetUserAdminMayReadAnyone(t *testing.T) {
	f := newHandlerFixture(t)
	f.users.getResp = &dto.UserResponse{ID: "u1"}

	w := doJSON(t, f.router, http.MethodGet, "/api/users/u1", bearerToken(t, "a1", "admin"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateUserForwardsCallerRole(t *testing.T) {
	f := newHandlerFixture(t)
	f.users.updateResp = &dto.UserResponse{ID: "u1"}

	w := doJSON(t, f.router, http.MethodPatch, "/api/users/u1", bearerToken(t, "u1", "user"), gin.H{
		"fullName": "New Name",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.UserRoleUser, f.users.lastUpdateRole)
	require.NotNil(t, f.users.lastUpdateReq.FullName)
	assert.Equal(t, "New Name", *f.users.lastUpdateReq.FullName)
	assert.Nil(t, f.users.lastUpdateAvatar)
}

func TestUpdateUserMultipartAvatar(t *testing.T) {
	f := newHandlerFixture(t)
	f.users.updateResp = &dto.UserResponse{ID: "u1"}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("fullName", "New Name"))
	part, err := mw.CreateFormFile("profileImage", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/api/users/u1", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", bearerToken(t, "u1", "user"))

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.users.lastUpdateAvatar)
	assert.Equal(t, "photo.png", f.users.lastUpdateAvatar.Filename)
	assert.Equal(t, []byte("fake image bytes"), f.users.lastUpdateAvatar.Data)
	require.NotNil(t, f.users.lastUpdateReq.FullName)
	assert.Equal(t, "New Name", *f.users.lastUpdateReq.FullName)
}

func TestDeleteUserRequiresAdmin(t *testing.T) {
	f := newHandlerFixture(t)

	w := doJSON(t, f.router, http.MethodDelete, "/api/users/u1", bearerToken(t, "u1", "user"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, f.router, http.MethodDelete, "/api/users/u1", bearerToken(t, "a1", "admin"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListUsersRequiresAdmin(t *testing.T) {
	f := newHandlerFixture(t)
	f.users.listResp = &dto.UserListResponse{Success: true}

	w := doJSON(t, f.router, http.MethodGet, "/api/users", bearerToken(t, "u1", "user"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, f.router, http.MethodGet, "/api/users", bearerToken(t, "a1", "admin"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEventsCountEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	f.attendance.count = 17

	w := doJSON(t, f.router, http.MethodGet, "/api/attendance/events-count", bearerToken(t, "a1", "admin"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(17), body["count"])
}

func TestEventsCountForbiddenForUsers(t *testing.T) {
	f := newHandlerFixture(t)

	w := doJSON(t, f.router, http.MethodGet, "/api/attendance/events-count", bearerToken(t, "u1", "user"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, f.router, http.MethodGet, "/api/attendance/events-count", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
