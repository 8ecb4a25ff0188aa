package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkpress/core/internal/config"
	"github.com/inkpress/core/internal/database"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/apperr"
	sessionpkg "github.com/inkpress/core/internal/pkg/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	errInvalidCredentials = apperr.Unauthorized("invalid username or password")
	errAccountExists      = apperr.Conflict("username or email already registered")
	errUserNotFound       = apperr.Unauthorized("user no longer exists")
)

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	sessionTTL time.Duration
	bcryptCost int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, log: zap.NewNop(), sessionTTL: sessionpkg.DefaultTTL, bcryptCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account with the user role.
func (s *Service) Register(ctx context.Context, dto *RegisterDTO) (*models.UserModel, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := models.UserModel{
		Username: strings.TrimSpace(dto.Username),
		Email:    strings.ToLower(strings.TrimSpace(dto.Email)),
		Name:     strings.TrimSpace(dto.Name),
		Password: string(hash),
		Role:     models.RoleUser,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UserModel{}).
			Where("username = ? OR email = ?", u.Username, u.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errAccountExists
		}
		return tx.Create(&u).Error
	})
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, errAccountExists
		}
		return nil, apperr.Internal(err)
	}
	return &u, nil
}

// Login verifies credentials and issues a session-bound token.
func (s *Service) Login(ctx context.Context, identifier, password, ip, ua string) (string, *models.UserModel, error) {
	db := s.db.WithContext(ctx)
	identifier = strings.TrimSpace(identifier)

	var u models.UserModel
	err := db.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errInvalidCredentials
		}
		return "", nil, apperr.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, errInvalidCredentials
	}

	now := time.Now()
	if err := db.Model(&u).UpdateColumns(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	}).Error; err != nil {
		s.log.Warn("failed to record login", zap.String("user_id", u.ID), zap.Error(err))
	}
	u.LastLoginTime = &now
	u.LastLoginIP = ip

	token, _, err := sessionpkg.Issue(db, u.ID, ip, ua, s.sessionTTL)
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	return token, &u, nil
}

// Logout revokes one session.
func (s *Service) Logout(ctx context.Context, userID, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	err := sessionpkg.Revoke(s.db.WithContext(ctx), userID, sessionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal(err)
	}
	return nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		return nil, apperr.Internal(err)
	}
	return &u, nil
}

// EnsureAdmin seeds the configured admin account when no admin exists yet.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, seed config.BootstrapAdmin) (bool, error) {
	if !seed.Enabled() {
		return false, nil
	}

	var admins int64
	if err := s.db.WithContext(ctx).Model(&models.UserModel{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
		return false, apperr.Internal(err)
	}
	if admins > 0 {
		return false, nil
	}

	u, err := s.Register(ctx, &RegisterDTO{Username: seed.Username, Email: seed.Email, Password: seed.Password})
	if err != nil {
		return false, err
	}
	if err := s.db.WithContext(ctx).Model(u).UpdateColumn("role", models.RoleAdmin).Error; err != nil {
		return false, apperr.Internal(err)
	}
	s.log.Info("bootstrap admin created", zap.String("username", u.Username))
	return true, nil
}
