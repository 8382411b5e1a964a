package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"smartattend_backend/internal/appErrors"
	"smartattend_backend/internal/config"
	"smartattend_backend/internal/imageprocessor"
	"smartattend_backend/internal/logger"
	"smartattend_backend/internal/models"
	"smartattend_backend/internal/repositories"
	"smartattend_backend/internal/services/dto"
	"smartattend_backend/internal/storage"
)

const avatarDir = "avatars"

type UserService interface {
	GetUser(id string) (*dto.UserResponse, error)
	// UpdateUser applies a partial update. Non-admin callers cannot change
	// role or isActive; those fields are silently dropped, not rejected.
	UpdateUser(callerRole models.UserRole, id string, req *dto.UpdateUserRequest, avatar *dto.AvatarFile) (*dto.UserResponse, error)
	DeleteUser(id string) error
	ListUsers(filter repositories.UserFilter) (*dto.UserListResponse, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
	storage  storage.Storage
	images   *imageprocessor.Processor
	baseURL  string
}

func NewUserService(
	userRepo repositories.UserRepository,
	store storage.Storage,
	images *imageprocessor.Processor,
	cfg *config.Config,
) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		storage:  store,
		images:   images,
		baseURL:  cfg.Storage.BaseURL,
	}
}

func (s *UserServiceImpl) GetUser(id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.DatabaseError(err)
	}
	return dto.NewUserResponse(user), nil
}

// UpdateUser treats the whole update as a single unit: a failed avatar
// write or decode aborts the update, and a failed database update removes
// the freshly written file again. The old file is deleted first, matching
// the replace-on-write policy, so after a successful replace exactly one
// avatar file exists for the user.
func (s *UserServiceImpl) UpdateUser(callerRole models.UserRole, id string, req *dto.UpdateUserRequest, avatar *dto.AvatarFile) (*dto.UserResponse, error) {
	ctx := context.Background()

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.DatabaseError(err)
	}

	// Sensitive fields are admin-only and silently dropped otherwise.
	if callerRole != models.UserRoleAdmin {
		req.Role = nil
		req.IsActive = nil
	}

	updates, err := s.buildUpdates(req)
	if err != nil {
		return nil, err
	}

	// Avatar, in priority order: binary upload, then data-URI string,
	// then explicit removal. Absent means no change.
	newAvatarPath := ""
	switch {
	case avatar != nil && len(avatar.Data) > 0:
		newAvatarPath, err = s.replaceAvatar(ctx, user, avatar.Data)
	case req.ProfileImage != nil && strings.HasPrefix(*req.ProfileImage, "data:image"):
		var data []byte
		data, err = decodeDataURI(*req.ProfileImage)
		if err == nil {
			newAvatarPath, err = s.replaceAvatar(ctx, user, data)
		}
	case req.ProfileImage != nil && *req.ProfileImage == "":
		err = s.deleteAvatarFile(ctx, user.ProfileImage)
		if err == nil {
			updates["profile_image"] = ""
		}
	}
	if err != nil {
		return nil, err
	}

	if newAvatarPath != "" {
		ref, urlErr := s.storage.GetURL(ctx, newAvatarPath)
		if urlErr != nil {
			return nil, appErrors.FileError(urlErr)
		}
		updates["profile_image"] = ref
	}

	if err := s.userRepo.UpdateFields(id, updates); err != nil {
		// Roll the file write back so no orphan is left behind.
		if newAvatarPath != "" {
			if delErr := s.storage.Delete(ctx, newAvatarPath); delErr != nil {
				logger.Warn("failed to remove avatar after aborted update", "path", newAvatarPath, "error", delErr)
			}
		}
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.DatabaseError(err)
	}

	updated, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, appErrors.DatabaseError(err)
	}

	return dto.NewUserResponse(updated), nil
}

func (s *UserServiceImpl) DeleteUser(id string) error {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.DatabaseError(err)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return appErrors.DatabaseError(err)
	}

	// Best effort: the row is gone either way.
	if err := s.deleteAvatarFile(context.Background(), user.ProfileImage); err != nil {
		logger.Warn("failed to delete avatar of removed user", "user_id", id, "error", err)
	}

	return nil
}

func (s *UserServiceImpl) ListUsers(filter repositories.UserFilter) (*dto.UserListResponse, error) {
	users, total, err := s.userRepo.FindWithFilter(filter)
	if err != nil {
		return nil, appErrors.DatabaseError(err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.NewUserResponse(&users[i]))
	}

	var pages int64
	if filter.PageSize > 0 {
		pages = (total + int64(filter.PageSize) - 1) / int64(filter.PageSize)
	}

	return &dto.UserListResponse{
		Success: true,
		Users:   responses,
		Total:   total,
		Page:    filter.Page,
		Pages:   pages,
	}, nil
}

// buildUpdates maps the request onto database columns.
func (s *UserServiceImpl) buildUpdates(req *dto.UpdateUserRequest) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	setString := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}

	setString("full_name", req.FullName)
	setString("phone", req.Phone)
	setString("address", req.Address)
	setString("department", req.Department)
	setString("student_id", req.StudentID)
	setString("registration_number", req.RegistrationNumber)
	setString("acm_role", req.ACMRole)
	setString("year", req.Year)
	setString("section", req.Section)

	if req.Email != nil {
		updates["email"] = normalizeEmail(*req.Email)
	}
	if req.Role != nil {
		updates["role"] = models.UserRole(*req.Role)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.ACMMember != nil {
		updates["acm_member"] = *req.ACMMember
	}

	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			updates["date_of_birth"] = nil
		} else {
			t, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil {
				return nil, appErrors.ValidationError(map[string]string{
					"dateOfBirth": "Must be a date in YYYY-MM-DD format",
				})
			}
			updates["date_of_birth"] = t
		}
	}

	return updates, nil
}

// replaceAvatar deletes the previous file and writes the new image under
// a fresh name. Returns the storage path of the new file.
func (s *UserServiceImpl) replaceAvatar(ctx context.Context, user *models.User, data []byte) (string, error) {
	processed, format, err := s.images.Process(bytes.NewReader(data), imageprocessor.SizeAvatar)
	if err != nil {
		return "", appErrors.FileError(err)
	}

	if err := s.deleteAvatarFile(ctx, user.ProfileImage); err != nil {
		return "", err
	}

	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	path := fmt.Sprintf("%s/%s-%d.%s", avatarDir, user.ID, time.Now().UnixMilli(), ext)

	if err := s.storage.Save(ctx, path, bytes.NewReader(processed), "image/"+format); err != nil {
		return "", appErrors.FileError(err)
	}

	return path, nil
}

// deleteAvatarFile removes a managed avatar file. References outside the
// upload URL space are left alone; a missing file is not an error.
func (s *UserServiceImpl) deleteAvatarFile(ctx context.Context, ref string) error {
	prefix := s.baseURL + "/"
	if ref == "" || !strings.HasPrefix(ref, prefix) {
		return nil
	}

	path := strings.TrimPrefix(ref, prefix)
	if err := s.storage.Delete(ctx, path); err != nil {
		return appErrors.FileError(err)
	}
	return nil
}

// decodeDataURI extracts the raw bytes of a data:image/...;base64 string.
func decodeDataURI(uri string) ([]byte, error) {
	idx := strings.Index(uri, ",")
	if idx < 0 || !strings.Contains(uri[:idx], ";base64") {
		return nil, appErrors.NewBadRequestError("Invalid image data URI")
	}

	data, err := base64.StdEncoding.DecodeString(uri[idx+1:])
	if err != nil {
		return nil, appErrors.NewBadRequestError("Invalid base64 image data")
	}
	return data, nil
}
