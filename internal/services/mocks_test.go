package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"smartattend_backend/internal/appErrors"
	"smartattend_backend/internal/config"
	"smartattend_backend/internal/email"
	"smartattend_backend/internal/models"
	"smartattend_backend/internal/repositories"
)

// fakeUserRepository is an in-memory UserRepository for service tests.
type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User

	updateFieldsErr error
	passwordErr     error
}

func newFakeUserRepository(users ...*models.User) *fakeUserRepository {
	repo := &fakeUserRepository{users: map[string]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepository) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepository) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) UpdateFields(id string, updates map[string]interface{}) error {
	if r.updateFieldsErr != nil {
		return r.updateFieldsErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}

	for column, value := range updates {
		switch column {
		case "full_name":
			u.FullName = value.(string)
		case "email":
			u.Email = value.(string)
		case "phone":
			u.Phone = value.(string)
		case "address":
			u.Address = value.(string)
		case "department":
			u.Department = value.(string)
		case "student_id":
			u.StudentID = value.(string)
		case "registration_number":
			u.RegistrationNumber = value.(string)
		case "acm_role":
			u.ACMRole = value.(string)
		case "year":
			u.Year = value.(string)
		case "section":
			u.Section = value.(string)
		case "profile_image":
			u.ProfileImage = value.(string)
		case "password_hash":
			u.PasswordHash = value.(string)
		case "role":
			u.Role = value.(models.UserRole)
		case "is_active":
			u.IsActive = value.(bool)
		case "acm_member":
			u.ACMMember = value.(bool)
		case "date_of_birth":
			if value == nil {
				u.DateOfBirth = nil
			} else {
				t := value.(time.Time)
				u.DateOfBirth = &t
			}
		}
	}
	return nil
}

func (r *fakeUserRepository) UpdatePassword(email, passwordHash string) error {
	if r.passwordErr != nil {
		return r.passwordErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

func (r *fakeUserRepository) UpdateLastLogin(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

func (r *fakeUserRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepository) FindWithFilter(filter repositories.UserFilter) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

// captureEmailProvider records sent reset codes instead of dialing SMTP.
type captureEmailProvider struct {
	mu      sync.Mutex
	codes   []string
	sendErr error
}

func (p *captureEmailProvider) Send(_ *email.Message) error { return nil }

func (p *captureEmailProvider) SendPasswordResetCode(_, code string, _ time.Duration) error {
	if p.sendErr != nil {
		return p.sendErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.codes = append(p.codes, code)
	return nil
}

func (p *captureEmailProvider) lastCode() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.codes) == 0 {
		return ""
	}
	return p.codes[len(p.codes)-1]
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.Accounts.AllowedEmailDomains = []string{"klu.ac.in", "gmail.com"}
	cfg.Accounts.AdminEmails = []string{"admin@smartattend.com"}
	cfg.Storage.BaseURL = "/uploads"

	prev := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = prev })

	return cfg
}

func requireAppCode(t *testing.T, err error, code appErrors.ErrorCode) {
	t.Helper()

	require.Error(t, err)
	var appErr *appErrors.AppError
	require.True(t, appErrors.As(err, &appErr), "expected *appErrors.AppError, got %T", err)
	require.Equal(t, code, appErr.Code)
}
