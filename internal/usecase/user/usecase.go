package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "user-service/internal/domain/user"
	pkgerrors "user-service/pkg/errors"
	"user-service/pkg/logger"
)

// notFoundMessage is the client-facing message for a missing user
const notFoundMessage = "User not found"

// Repository defines the interface for user data access operations.
// Implementations keep records in insertion order and report a missing
// record with domain.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, u *domain.User) error             // Append a new user
	GetByID(ctx context.Context, id string) (*domain.User, error) // Retrieve user by ID
	Update(ctx context.Context, u *domain.User) error             // Replace name and email of an existing user
	Delete(ctx context.Context, id string) error                  // Remove user by ID
	List(ctx context.Context) ([]domain.User, error)              // All users in insertion order
}

// UserUsecase implements the business logic for user management operations.
// Request shape is validated by the transport layer before reaching it.
type UserUsecase struct {
	repo  Repository    // Repository for data access
	log   *zap.Logger   // Logger for structured logging
	newID func() string // ID generator, UUIDv4 by default
}

// New creates a new instance of UserUsecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *UserUsecase {
	return &UserUsecase{repo: r, log: log, newID: uuid.NewString}
}

// CreateUser assigns a fresh ID and appends the user to the store.
func (uc *UserUsecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	u := &domain.User{
		ID:    uc.newID(),
		Name:  in.Name,
		Email: in.Email,
	}

	if err := uc.repo.Create(ctx, u); err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to create user", err)
	}

	log.Info("user created", zap.String("id", u.ID))
	return &CreateUserResponse{User: toDTO(u)}, nil
}

// UpdateUser applies a shallow merge: non-empty fields overwrite, the rest are kept.
func (uc *UserUsecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	current, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, uc.mapRepoError(log, "update", in.ID, err)
	}

	merged := *current
	if in.Name != "" {
		merged.Name = in.Name
	}
	if in.Email != "" {
		merged.Email = in.Email
	}

	if err := uc.repo.Update(ctx, &merged); err != nil {
		return nil, uc.mapRepoError(log, "update", in.ID, err)
	}

	log.Info("user updated", zap.String("id", merged.ID))
	return &UpdateUserResponse{User: toDTO(&merged)}, nil
}

// DeleteUser removes a user by ID.
func (uc *UserUsecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		return nil, uc.mapRepoError(log, "delete", in.ID, err)
	}

	log.Info("user deleted", zap.String("id", in.ID))
	return &DeleteUserResponse{ID: in.ID}, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUsecase) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, uc.mapRepoError(log, "get", in.ID, err)
	}

	return &GetUserResponse{User: toDTO(u)}, nil
}

// ListUsers returns every user in insertion order.
func (uc *UserUsecase) ListUsers(ctx context.Context, _ ListUsersRequest) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		log.Error("failed to list users", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to list users", err)
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = toDTO(&domainUsers[i])
	}

	log.Debug("listed users", zap.Int("count", len(users)))
	return &ListUsersResponse{Users: users}, nil
}

// mapRepoError turns repository errors into application errors.
func (uc *UserUsecase) mapRepoError(log *zap.Logger, op, id string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		log.Debug("user not found", zap.String("op", op), zap.String("id", id))
		return pkgerrors.NewNotFoundError("user", notFoundMessage)
	}
	log.Error("user repository failure", zap.String("op", op), zap.String("id", id), zap.Error(err))
	return pkgerrors.NewInternalError("failed to "+op+" user", err)
}

func toDTO(u *domain.User) User {
	return User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
