package services

import (
	"context"
	"time"

	"github.com/aruana-vision/apiserver/types"
)

// UserRepository defines the persistence operations the user service needs.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByResetToken(ctx context.Context, token string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (types.User, error)
	SetLastLogin(ctx context.Context, id string, at time.Time) error
	SetPassword(ctx context.Context, id string, hash string) error
	SetResetToken(ctx context.Context, id string, token string, expiry time.Time) error
	SetRoleAndStatus(ctx context.Context, id string, role *string, isActive *bool) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// UserService exposes account operations to the handlers.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) GetByResetToken(ctx context.Context, token string) (types.User, error) {
	return s.repo.GetByResetToken(ctx, token)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (types.User, error) {
	return s.repo.UpdateProfile(ctx, id, update)
}

func (s *UserService) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	return s.repo.SetLastLogin(ctx, id, at)
}

func (s *UserService) SetPassword(ctx context.Context, id string, hash string) error {
	return s.repo.SetPassword(ctx, id, hash)
}

func (s *UserService) SetResetToken(ctx context.Context, id string, token string, expiry time.Time) error {
	return s.repo.SetResetToken(ctx, id, token, expiry)
}

func (s *UserService) SetRoleAndStatus(ctx context.Context, id string, role *string, isActive *bool) (types.User, error) {
	return s.repo.SetRoleAndStatus(ctx, id, role, isActive)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
