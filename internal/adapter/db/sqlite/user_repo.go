package sqlite

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-service/internal/domain/user"
)

// UserRepoSQLite implements the Repository interface on a SQLite database through GORM.
type UserRepoSQLite struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoSQLite creates a new instance of UserRepoSQLite.
func NewUserRepoSQLite(db *gorm.DB, log *zap.Logger) *UserRepoSQLite {
	return &UserRepoSQLite{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
// Seq is an internal insertion counter that gives listings their order.
type UserSchema struct {
	Seq    int64  `gorm:"primaryKey;autoIncrement"`   // Insertion order
	UserID string `gorm:"size:36;not null;uniqueIndex"` // Public UUID of the user
	Name   string `gorm:"not null"`                     // User's name
	Email  string `gorm:"not null"`                     // User's email (not unique)
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserSchema{})
}

// Create inserts a new user into the database.
func (r *UserRepoSQLite) Create(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	model := UserSchema{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("id", u.ID))
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Debug("user created in db", zap.String("id", u.ID), zap.Int64("seq", model.Seq))
	return nil
}

// Update overwrites name and email of an existing user.
func (r *UserRepoSQLite) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	result := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("user_id = ?", u.ID).
		Updates(map[string]any{"name": u.Name, "email": u.Email})
	if result.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(result.Error), zap.String("id", u.ID))
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}

	r.log.Debug("user updated in db", zap.String("id", u.ID))
	return nil
}

// Delete removes a user from the database by ID.
func (r *UserRepoSQLite) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("user_id = ?", id).Delete(&UserSchema{})
	if result.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(result.Error), zap.String("id", id))
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}

	r.log.Debug("user deleted in db", zap.String("id", id))
	return nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepoSQLite) GetByID(ctx context.Context, id string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toDomain(model), nil
}

// List retrieves all users ordered by insertion.
func (r *UserRepoSQLite) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = *toDomain(model)
	}

	return users, nil
}

func toDomain(model UserSchema) *user.User {
	return &user.User{
		ID:    model.UserID,
		Name:  model.Name,
		Email: model.Email,
	}
}
