package user

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "rest-user-service/internal/domain/user"
	apperrors "rest-user-service/pkg/errors"
	"rest-user-service/pkg/logger"
	"rest-user-service/pkg/security"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	List(ctx context.Context, f domain.Filter) ([]domain.User, error)
	IndexOf(ctx context.Context, id int64) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Replace(ctx context.Context, u *domain.User) (*domain.User, error)
	Patch(ctx context.Context, id int64, p domain.Patch) (*domain.User, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
}

// Service implements the business logic for user management operations.
type Service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

var _ Usecase = (*Service)(nil)

// New creates a new Service backed by r.
func New(r Repository, log *zap.Logger) *Service {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(RequestFieldName)

	return &Service{
		repo:     r,
		log:      log,
		validate: validate,
	}
}

// RequestFieldName names a struct field the way clients see it: its json tag,
// then its form tag, then the Go name. Used by every validator in the service
// so error details share one spelling.
func RequestFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// formatValidationError converts validator.ValidationErrors into a ValidationError with per-field details.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, apperrors.FieldError{
			Field:   e.Field(),
			Message: FieldMessage(e),
		})
	}
	return apperrors.NewFieldsValidationError(fmt.Sprintf("%d invalid field(s)", len(fields)), fields)
}

// FieldMessage renders a single validator failure as text.
func FieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

func toDTO(u *domain.User) *User {
	return &User{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
	}
}

// ListUsers returns every user, or only those whose filter field contains the value.
func (s *Service) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("list users validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	log.Debug("listing users", zap.String("filter", in.Filter), zap.String("value", in.Value))

	domainUsers, err := s.repo.List(ctx, domain.Filter{Field: in.Filter, Value: in.Value})
	if err != nil {
		log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = *toDTO(&domainUsers[i])
	}
	return &ListUsersResponse{Users: users}, nil
}

// CreateUser stores a new user after sanitizing and validating the input.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)

	in.Username = security.SanitizeText(in.Username)
	in.DisplayName = security.SanitizeText(in.DisplayName)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("create user validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:    in.Username,
		DisplayName: in.DisplayName,
	})
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	log.Info("user created", zap.Int64("id", created.ID), zap.String("username", created.Username))
	return toDTO(created), nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		log := logger.WithContext(ctx, s.log)
		if apperrors.IsNotFound(err) {
			log.Debug("user not found", zap.Int64("id", in.ID))
		} else {
			log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		}
		return nil, err
	}
	return toDTO(u), nil
}

// ReplaceUser overwrites an existing user, keeping its id.
func (s *Service) ReplaceUser(ctx context.Context, in ReplaceUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)

	in.Username = security.SanitizeText(in.Username)
	in.DisplayName = security.SanitizeText(in.DisplayName)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("replace user validation failed", zap.Int64("id", in.ID), zap.Error(err))
		return nil, formatValidationError(err)
	}

	replaced, err := s.repo.Replace(ctx, &domain.User{
		ID:          in.ID,
		Username:    in.Username,
		DisplayName: in.DisplayName,
	})
	if err != nil {
		log.Warn("failed to replace user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	log.Info("user replaced", zap.Int64("id", replaced.ID))
	return toDTO(replaced), nil
}

// PatchUser merges the fields present in the request into an existing user.
func (s *Service) PatchUser(ctx context.Context, in PatchUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)

	in.Username = security.SanitizeTextPtr(in.Username)
	in.DisplayName = security.SanitizeTextPtr(in.DisplayName)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("patch user validation failed", zap.Int64("id", in.ID), zap.Error(err))
		return nil, formatValidationError(err)
	}

	patched, err := s.repo.Patch(ctx, in.ID, domain.Patch{
		Username:    in.Username,
		DisplayName: in.DisplayName,
	})
	if err != nil {
		log.Warn("failed to patch user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	log.Info("user patched", zap.Int64("id", patched.ID))
	return toDTO(patched), nil
}

// DeleteUser removes a user by ID.
func (s *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, s.log)

	removed, err := s.repo.Delete(ctx, in.ID)
	if err != nil {
		log.Warn("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	log.Info("user deleted", zap.Int64("id", removed.ID))
	return &DeleteUserResponse{ID: removed.ID}, nil
}

// ResolveUserIndex returns the position of the user with id in the collection.
func (s *Service) ResolveUserIndex(ctx context.Context, id int64) (int, error) {
	return s.repo.IndexOf(ctx, id)
}
