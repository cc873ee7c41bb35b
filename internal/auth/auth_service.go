package auth

import (
	"context"
	"errors"

	"go-staff/internal/audit"
	autherrors "go-staff/internal/auth/errors"
	"go-staff/internal/blacklist"
	"go-staff/internal/shared/apperror"
	"go-staff/internal/shared/contextutil"
	"go-staff/internal/token"
	"go-staff/internal/user"
	usererrors "go-staff/internal/user/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error)
}

type service struct {
	users     user.Repository
	tokens    *token.Manager
	blacklist blacklist.Store
	audit     audit.Logger
	hashCost  int
	logger    *zap.Logger
	dummyHash []byte
}

type Option func(*service)

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *service) { s.hashCost = cost }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("auth.service")
		}
	}
}

func NewService(
	users user.Repository,
	tokens *token.Manager,
	bl blacklist.Store,
	auditLogger audit.Logger,
	opts ...Option,
) Service {
	s := &service{
		users:     users,
		tokens:    tokens,
		blacklist: bl,
		audit:     auditLogger,
		hashCost:  bcrypt.DefaultCost,
		logger:    zap.L().Named("auth.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.audit == nil {
		s.audit = audit.Nop()
	}
	// compared against when the email is unknown so both failure paths cost
	// one bcrypt comparison
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.hashCost)
	return s
}

func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (AuthResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	email := user.NormalizeEmail(req.Email)
	log.Debug("create user requested", zap.String("email", email))

	details := apperror.FieldErrors{}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		log.Error("create user email lookup failed", zap.Error(err))
		return AuthResponse{}, err
	}
	if exists {
		details.Add("email", "User with this email already exists.")
	}
	for _, p := range passwordProblems(req.Password, email, req.FirstName, req.LastName) {
		details.Add("password", p)
	}
	if len(details) > 0 {
		log.Info("create user rejected", zap.Any("fields", details))
		return AuthResponse{}, apperror.ValidationFailed(details)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		log.Error("create user hash password failed", zap.Error(err))
		return AuthResponse{}, err
	}

	u := &user.User{
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		IsActive:  true,
	}
	// a concurrent signup can still win the unique index; the repository
	// maps that to the same email field error
	if err := s.users.Create(ctx, u); err != nil {
		log.Warn("create user persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	pair, err := s.tokens.IssuePair(u.ID, u.IsStaff)
	if err != nil {
		log.Error("create user issue tokens failed", zap.Error(err))
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.audit.Log(ctx, audit.Log{
		Action:  audit.ActionUserCreated,
		Message: "account created",
		Meta:    map[string]any{"user_id": u.ID},
	})
	log.Info("create user success", zap.Uint("user_id", u.ID))

	return AuthResponse{Tokens: pair, User: user.MapToResponse(*u)}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	email := user.NormalizeEmail(req.Email)

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, usererrors.ErrUserNotFound) {
			log.Error("login user lookup failed", zap.Error(err))
			return AuthResponse{}, err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		s.loginFailed(ctx, email)
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil || !u.IsActive {
		s.loginFailed(ctx, email)
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(u.ID, u.IsStaff)
	if err != nil {
		log.Error("login issue tokens failed", zap.Error(err))
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.audit.Log(ctx, audit.Log{
		Action:  audit.ActionLogin,
		Message: "user logged in",
		Meta:    map[string]any{"user_id": u.ID},
	})

	return AuthResponse{Tokens: pair, User: user.MapToResponse(*u)}, nil
}

func (s *service) loginFailed(ctx context.Context, email string) {
	s.audit.Log(ctx, audit.Log{
		Action:  audit.ActionLoginFailed,
		Message: "invalid credentials",
		Meta:    map[string]any{"email": email},
	})
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	if refreshToken == "" {
		return autherrors.ErrRefreshTokenRequired
	}

	claims, err := s.tokens.Parse(refreshToken, token.TypeRefresh)
	if err != nil {
		log.Info("logout rejected token", zap.Error(err))
		return autherrors.ErrInvalidToken
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		log.Error("logout blacklist lookup failed", zap.Error(err))
		return err
	}
	if blacklisted {
		return autherrors.ErrInvalidToken
	}

	if err := s.blacklist.Add(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time); err != nil {
		log.Error("logout blacklist write failed", zap.Error(err))
		return err
	}

	s.audit.Log(ctx, audit.Log{
		Action:  audit.ActionLogout,
		Message: "refresh token blacklisted",
		Meta:    map[string]any{"user_id": claims.UserID, "jti": claims.ID},
	})
	return nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if refreshToken == "" {
		return RefreshResponse{}, autherrors.ErrRefreshTokenRequired
	}

	claims, err := s.tokens.Parse(refreshToken, token.TypeRefresh)
	if err != nil {
		log.Info("refresh rejected token", zap.Error(err))
		return RefreshResponse{}, autherrors.ErrInvalidRefreshToken
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		log.Error("refresh blacklist lookup failed", zap.Error(err))
		return RefreshResponse{}, err
	}
	if blacklisted {
		return RefreshResponse{}, autherrors.ErrInvalidRefreshToken
	}

	access, err := s.tokens.AccessFor(claims)
	if err != nil {
		log.Error("refresh issue access failed", zap.Error(err))
		return RefreshResponse{}, autherrors.ErrTokenGenerationFailed
	}
	return RefreshResponse{Access: access}, nil
}
