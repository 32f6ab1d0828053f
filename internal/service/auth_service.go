package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Iamanointing/mvv/config"
	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/repository"
	pkgerrors "github.com/Iamanointing/mvv/pkg/errors"
	"github.com/Iamanointing/mvv/pkg/jwt"
)

var (
	ErrRegistrationClosed = errors.New("registration is closed")
	ErrNotEligible        = errors.New("registration number and name not on roster")
	ErrAlreadyRegistered  = errors.New("user already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminExists        = errors.New("admin already exists")
)

// AuthService handles voter registration and both login flows.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.LoginResponse, error)
	// Logout revokes the token identified by jti until expiresAt.
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	CreateAdmin(ctx context.Context, username, password string) (*model.Admin, error)
	// EnsureDefaultAdmin creates the configured admin when no admin exists.
	EnsureDefaultAdmin(ctx context.Context) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist may be nil.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	open, err := s.repo.Setting.Get(ctx, model.SettingRegistrationOpen)
	if err != nil && !pkgerrors.IsNotFound(err) {
		s.logger.Error("read registration flag failed", zap.Error(err))
		return err
	}
	if open != "1" {
		return ErrRegistrationClosed
	}

	if _, err := s.repo.Student.GetByRegNumberAndName(ctx, req.RegNumber, req.FullName); err != nil {
		if pkgerrors.IsNotFound(err) {
			return ErrNotEligible
		}
		s.logger.Error("roster lookup failed", zap.String("reg_number", req.RegNumber), zap.Error(err))
		return err
	}

	if _, err := s.repo.User.GetByRegNumber(ctx, req.RegNumber); err == nil {
		return ErrAlreadyRegistered
	} else if !pkgerrors.IsNotFound(err) {
		s.logger.Error("user lookup failed", zap.String("reg_number", req.RegNumber), zap.Error(err))
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return err
	}

	user := &model.User{
		RegNumber:  req.RegNumber,
		Password:   string(hash),
		FullName:   req.FullName,
		Level:      req.Level,
		Department: req.Department,
		Email:      optional(req.Email),
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if pkgerrors.IsDuplicateKey(err) {
			return ErrAlreadyRegistered
		}
		s.logger.Error("create user failed", zap.String("reg_number", req.RegNumber), zap.Error(err))
		return err
	}

	s.logger.Info("voter registered", zap.Uint("user_id", user.ID), zap.String("reg_number", user.RegNumber))
	return nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.User.GetByRegNumber(ctx, req.RegNumber)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("user lookup failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtMgr.GenerateToken(user.ID, user.RegNumber, jwt.RoleUser)
	if err != nil {
		s.logger.Error("sign token failed", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.LoginResponse, error) {
	admin, err := s.repo.Admin.GetByUsername(ctx, req.Username)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("admin lookup failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtMgr.GenerateToken(admin.ID, admin.Username, jwt.RoleAdmin)
	if err != nil {
		s.logger.Error("sign token failed", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		Admin: &dto.AdminResponse{ID: admin.ID, Username: admin.Username},
	}, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("blacklist token failed", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Admin accounts ──────────────────────

func (s *authService) CreateAdmin(ctx context.Context, username, password string) (*model.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{Username: username, Password: string(hash)}
	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrAdminExists
		}
		s.logger.Error("create admin failed", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return admin, nil
}

func (s *authService) EnsureDefaultAdmin(ctx context.Context) error {
	n, err := s.repo.Admin.Count(ctx)
	if err != nil {
		s.logger.Error("count admins failed", zap.Error(err))
		return err
	}
	if n > 0 {
		return nil
	}

	seed := s.cfg.Auth.DefaultAdmin
	if _, err := s.CreateAdmin(ctx, seed.Username, seed.Password); err != nil && !errors.Is(err, ErrAdminExists) {
		return err
	}
	s.logger.Warn("default admin created, change its password", zap.String("username", seed.Username))
	return nil
}

// optional maps "" to NULL.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
