package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sendit/internal/apperr"
	"sendit/internal/auth"
	"sendit/internal/domain"
	"sendit/internal/logx"
)

// Service handles signup, login and the administrator bootstrap.
type Service struct {
	repo             userRepository
	hasher           passwordHasher
	tokens           tokenIssuer
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates a user Service.
func NewService(repo userRepository, hasher passwordHasher, tokens tokenIssuer, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             repo,
		hasher:           hasher,
		tokens:           tokens,
		operationTimeout: timeout,
		logger:           logger,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func normalize(n *domain.NewUser) error {
	n.FirstName = strings.TrimSpace(n.FirstName)
	n.LastName = strings.TrimSpace(n.LastName)
	n.OtherNames = strings.TrimSpace(n.OtherNames)
	n.Email = strings.ToLower(strings.TrimSpace(n.Email))
	n.Username = strings.TrimSpace(n.Username)

	switch {
	case n.FirstName == "":
		return fmt.Errorf("%w: firstname is required", apperr.Invalid)
	case n.LastName == "":
		return fmt.Errorf("%w: lastname is required", apperr.Invalid)
	case n.Email == "":
		return fmt.Errorf("%w: email is required", apperr.Invalid)
	case n.Username == "":
		return fmt.Errorf("%w: username is required", apperr.Invalid)
	case n.Password == "":
		return fmt.Errorf("%w: password is required", apperr.Invalid)
	}
	return nil
}

// Signup registers a new user and returns a session for it.
func (s *Service) Signup(ctx context.Context, n domain.NewUser) (domain.Session, error) {
	if err := normalize(&n); err != nil {
		return domain.Session{}, err
	}
	// signup never grants the admin role
	n.IsAdmin = false

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.create(ctx, n)
	if err != nil {
		return domain.Session{}, err
	}

	s.logger.Info("user signed up",
		logx.String("event", "user_signed_up"),
		logx.Int64("user_id", u.ID),
	)
	return s.session(u)
}

func (s *Service) create(ctx context.Context, n domain.NewUser) (*domain.User, error) {
	taken, err := s.repo.ExistsByEmailOrUsername(ctx, n.Email, n.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: user already exists", apperr.Conflict)
	}

	hash, err := s.hasher.Hash(n.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		FirstName:    n.FirstName,
		LastName:     n.LastName,
		OtherNames:   n.OtherNames,
		Email:        n.Email,
		Username:     n.Username,
		PasswordHash: hash,
		IsAdmin:      n.IsAdmin,
	}
	// the unique constraints still catch a concurrent signup
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, apperr.Conflict) {
			return nil, fmt.Errorf("%w: user already exists", apperr.Conflict)
		}
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and returns a session.
func (s *Service) Login(ctx context.Context, c domain.Credentials) (domain.Session, error) {
	username := strings.TrimSpace(c.Username)
	if username == "" || c.Password == "" {
		return domain.Session{}, fmt.Errorf("%w: username and password are required", apperr.Invalid)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return domain.Session{}, err
	}
	if u == nil {
		return domain.Session{}, fmt.Errorf("%w: user not found", apperr.NotFound)
	}

	if err := s.hasher.Compare(u.PasswordHash, c.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return domain.Session{}, fmt.Errorf("%w: wrong password", apperr.Unauthenticated)
		}
		return domain.Session{}, err
	}
	return s.session(u)
}

// EnsureAdmin creates the administrator account unless a user with that username already exists.
func (s *Service) EnsureAdmin(ctx context.Context, n domain.NewUser) error {
	if err := normalize(&n); err != nil {
		return err
	}
	n.IsAdmin = true

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	existing, err := s.repo.GetByUsername(ctx, n.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		if !existing.IsAdmin {
			return fmt.Errorf("%w: username %q belongs to a regular user", apperr.Conflict, n.Username)
		}
		s.logger.Debug("admin account present", logx.Int64("user_id", existing.ID))
		return nil
	}

	u, err := s.create(ctx, n)
	if err != nil {
		return err
	}
	s.logger.Info("admin account created",
		logx.String("event", "admin_created"),
		logx.Int64("user_id", u.ID),
	)
	return nil
}

func (s *Service) session(u *domain.User) (domain.Session, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return domain.Session{}, err
	}
	pub := *u
	pub.PasswordHash = ""
	return domain.Session{Token: token, User: pub}, nil
}
