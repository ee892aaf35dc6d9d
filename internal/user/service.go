package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// CreateRequest carries the self-registration payload.
type CreateRequest struct {
	Name  string
	Email string
}

// UpdateRequest carries a partial profile update. Nil or blank fields are left untouched.
type UpdateRequest struct {
	Name  *string
	Email *string
}

// Service defines business logic related to users.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, callerID, id int64, req UpdateRequest) (*User, error)
	Delete(ctx context.Context, callerID, id int64) error
}

type service struct {
	repo Repository
}

// NewService creates a new user Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	u := &User{
		Name:  name,
		Email: email,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// Update changes the caller's own profile. Anyone else is told the user does not exist.
func (s *service) Update(ctx context.Context, callerID, id int64, req UpdateRequest) (*User, error) {
	if callerID != id {
		return nil, ErrNotFound
	}

	return s.repo.Update(ctx, id, func(u *User) error {
		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			u.Name = strings.TrimSpace(*req.Name)
		}

		if req.Email != nil {
			if email := normalizeEmail(*req.Email); email != "" && email != u.Email {
				if err := s.ensureEmailFree(ctx, email, u.ID); err != nil {
					return err
				}
				u.Email = email
			}
		}
		return nil
	})
}

func (s *service) Delete(ctx context.Context, callerID, id int64) error {
	if callerID != id {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// ensureEmailFree fails with ErrEmailAlreadyUsed when another user holds email.
func (s *service) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		if existing.ID != selfID {
			return ErrEmailAlreadyUsed
		}
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check existing email: %w", err)
	}
	return nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
