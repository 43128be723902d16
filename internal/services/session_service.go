package services

import (
	"context"
	"errors"
	"fmt"

	"yield-service/internal/models"
	"yield-service/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SessionService owns user registration, login and per-request identity
// resolution, including anonymous cart identities.
type SessionService struct {
	userRepo    *repository.UserRepository
	sessionRepo repository.SessionRepository
}

func NewSessionService(userRepo *repository.UserRepository, sessionRepo repository.SessionRepository) *SessionService {
	return &SessionService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// Register creates a new plain user account.
func (s *SessionService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required: %w", models.ErrValidation)
	}

	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username already exists: %w", models.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a bearer session token.
func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if errors.Is(err, models.ErrNotFound) {
		return "", fmt.Errorf("invalid credentials: %w", models.ErrValidation)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", models.ErrValidation)
	}

	return s.issueSession(ctx, user)
}

// Logout drops the session behind the token. Unknown tokens are a no-op.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteSession(ctx, token)
}

// ResolveActor turns a bearer token into the request's actor. An empty,
// unknown or expired token resolves to the anonymous actor.
func (s *SessionService) ResolveActor(ctx context.Context, token string) models.Actor {
	if token == "" {
		return models.Actor{}
	}

	session, err := s.sessionRepo.GetSession(ctx, token)
	if err != nil {
		return models.Actor{}
	}

	return models.Actor{
		UserID:    session.UserID,
		Username:  session.Username,
		IsManager: session.IsManager,
		IsAdmin:   session.IsAdmin,
		IsGuest:   session.IsGuest,
	}
}

// CreateGuest mints a fresh anonymous identity with its own session, so
// anonymous carts never collide across sessions.
func (s *SessionService) CreateGuest(ctx context.Context) (models.Actor, string, error) {
	user, err := s.userRepo.CreateGuest(ctx)
	if err != nil {
		return models.Actor{}, "", err
	}

	token, err := s.issueSession(ctx, user)
	if err != nil {
		return models.Actor{}, "", err
	}

	actor := models.Actor{
		UserID:   user.ID,
		Username: user.Username,
		IsGuest:  true,
	}
	return actor, token, nil
}

// Me returns the actor's profile.
func (s *SessionService) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	if actor.Anonymous() {
		return nil, fmt.Errorf("authentication required: %w", models.ErrForbidden)
	}
	return s.userRepo.GetByID(ctx, actor.UserID)
}

// UpdateMe applies the non-nil profile fields.
func (s *SessionService) UpdateMe(ctx context.Context, actor models.Actor, req models.ProfileUpdateRequest) (*models.User, error) {
	user, err := s.Me(ctx, actor)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *SessionService) issueSession(ctx context.Context, user *models.User) (string, error) {
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		IsManager: user.IsManager,
		IsAdmin:   user.IsAdmin,
		IsGuest:   user.IsGuest,
	}

	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return session.Token, nil
}
