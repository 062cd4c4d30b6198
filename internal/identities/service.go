package identities

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Aidin1998/qrmenu/common/dbutil"
	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/Aidin1998/qrmenu/pkg/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	errInvalidCredentials = errors.Unauthorized.Explain("Invalid credentials")
	errInvalidToken       = errors.Unauthorized.Explain("Invalid token")
)

// IdentityService defines admin authentication operations.
type IdentityService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (*Claims, error)
	Logout(ctx context.Context, token string) error
	Session(ctx context.Context, adminID uuid.UUID) (*models.Admin, error)
	CreateAdmin(ctx context.Context, username, password string) (*models.Admin, error)
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
	ChangePassword(ctx context.Context, adminID uuid.UUID, req *models.ChangePasswordRequest) error
	ChangeUsername(ctx context.Context, adminID uuid.UUID, req *models.ChangeUsernameRequest) (*models.Admin, error)
}

// Claims are the claims carried by an admin token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AdminID returns the subject of the token as an admin id.
func (c *Claims) AdminID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Options configures token issuing.
type Options struct {
	Secret      string
	Expiration  time.Duration
	Revocations RevocationStore
}

// Service implements IdentityService
type Service struct {
	logger      *zap.Logger
	db          *gorm.DB
	validate    *validation.Validator
	jwtSecret   []byte
	expiration  time.Duration
	revocations RevocationStore
	dummyHash   []byte
}

// NewService creates a new IdentityService
func NewService(logger *zap.Logger, db *gorm.DB, validate *validation.Validator, opts Options) (IdentityService, error) {
	if opts.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if opts.Expiration <= 0 {
		opts.Expiration = 7 * 24 * time.Hour
	}
	if opts.Revocations == nil {
		opts.Revocations = NewMemoryRevocations()
	}

	// compared against when the username is unknown so both paths cost a bcrypt round
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &Service{
		logger:      logger,
		db:          db,
		validate:    validate,
		jwtSecret:   []byte(opts.Secret),
		expiration:  opts.Expiration,
		revocations: opts.Revocations,
		dummyHash:   dummyHash,
	}, nil
}

// Login checks the credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, errors.Invalid.Explain("Username and password are required")
	}

	admin, err := dbutil.FindOne[models.Admin](s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(req.Username)))
	if errors.Is(err, errors.NotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		return nil, errInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	token, expiresAt, err := s.generateToken(admin)
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin logged in", zap.String("admin_id", admin.ID.String()))
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt.Unix(), Admin: admin}, nil
}

func (s *Service) generateToken(admin *models.Admin) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   admin.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// ValidateToken parses and verifies a token. Expired, revoked or otherwise
// invalid tokens fail with errors.Unauthorized.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, errInvalidToken.Wrap(err)
	}
	if _, err := claims.AdminID(); err != nil || claims.ID == "" {
		return nil, errInvalidToken
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, errInvalidToken
	}
	return claims, nil
}

// Logout revokes the token until it would have expired.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return err
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Info("admin logged out", zap.String("admin_id", claims.Subject))
	return nil
}

// Session returns the admin a token was issued to.
func (s *Service) Session(ctx context.Context, adminID uuid.UUID) (*models.Admin, error) {
	admin, err := dbutil.FindOne[models.Admin](s.db.WithContext(ctx).Where("id = ?", adminID))
	if errors.Is(err, errors.NotFound) {
		return nil, errInvalidToken
	}
	return admin, err
}

// CreateAdmin stores a new admin account.
func (s *Service) CreateAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return nil, errors.Invalid.Explain("username must be at least 3 characters")
	}
	if len(password) < 6 {
		return nil, errors.Invalid.Explain("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{Username: username, PasswordHash: string(hash)}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		err = dbutil.WrapError(err)
		if errors.Is(err, errors.Conflict) {
			return nil, errors.Conflict.Explain("Username already exists")
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("admin created", zap.String("admin_id", admin.ID.String()), zap.String("username", admin.Username))
	return admin, nil
}

// EnsureAdmin creates the bootstrap admin when no admin exists yet. It
// reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	exists, err := dbutil.Exists(s.db.WithContext(ctx), &models.Admin{})
	if err != nil || exists {
		return false, err
	}
	if username == "" || password == "" {
		s.logger.Warn("no admin account exists and no bootstrap credentials are configured")
		return false, nil
	}
	if _, err := s.CreateAdmin(ctx, username, password); err != nil {
		return false, err
	}
	return true, nil
}

// ChangePassword replaces the admin's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, adminID uuid.UUID, req *models.ChangePasswordRequest) error {
	if err := s.validate.Validate(req); err != nil {
		return err
	}
	admin, err := s.verify(ctx, adminID, req.CurrentPassword)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(admin).Update("password_hash", string(hash)).Error; err != nil {
		return dbutil.WrapError(err)
	}

	s.logger.Info("admin password changed", zap.String("admin_id", adminID.String()))
	return nil
}

// ChangeUsername renames the admin after checking the current password.
func (s *Service) ChangeUsername(ctx context.Context, adminID uuid.UUID, req *models.ChangeUsernameRequest) (*models.Admin, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}
	admin, err := s.verify(ctx, adminID, req.CurrentPassword)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.NewUsername)
	err = s.db.WithContext(ctx).Model(admin).Update("username", username).Error
	if err = dbutil.WrapError(err); errors.Is(err, errors.Conflict) {
		return nil, errors.Conflict.Explain("Username already exists")
	} else if err != nil {
		return nil, err
	}

	s.logger.Info("admin username changed", zap.String("admin_id", adminID.String()))
	admin.Username = username
	return admin, nil
}

func (s *Service) verify(ctx context.Context, adminID uuid.UUID, password string) (*models.Admin, error) {
	admin, err := s.Session(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Unauthorized.Explain("Current password is incorrect")
	}
	return admin, nil
}
