package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleMechanic Role = "mechanic"
)

var (
	ErrMalformedHeader   = errors.New("authorization header must be 'Bearer <token>'")
	ErrExpired           = errors.New("token expired")
	ErrInvalidToken      = errors.New("invalid token")
	ErrRoleMismatch      = errors.New("role not allowed for this operation")
	ErrPrincipalNotFound = errors.New("principal not found")
)

// Config is injected at construction; the signing secret is never read from
// package-level state.
type Config struct {
	Secret   []byte
	TokenTTL time.Duration
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is an authenticated actor resolved from a token. Exactly one of
// Customer or Mechanic is non-nil, matching Role.
type Principal struct {
	Role     Role
	Customer *models.Customer
	Mechanic *models.Mechanic
}

func (p *Principal) ID() uint {
	if p.Customer != nil {
		return p.Customer.ID
	}
	if p.Mechanic != nil {
		return p.Mechanic.ID
	}
	return 0
}

// Service issues and verifies role-scoped access tokens and resolves them to
// principals stored in the database.
type Service struct {
	cfg Config
	db  *gorm.DB
}

func New(cfg Config, db *gorm.DB) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	return &Service{cfg: cfg, db: db}
}

func (s *Service) IssueToken(principalID uint, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(principalID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.Secret)
}

// Verify checks the raw Authorization header against the allowed role set and
// loads the principal it refers to. An empty allowed set admits both roles.
// A principal deleted after issuance fails with ErrPrincipalNotFound, which
// makes tokens soft-revocable by deleting the account.
func (s *Service) Verify(ctx context.Context, rawHeader string, allowed ...Role) (*Principal, error) {
	parts := strings.SplitN(rawHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, ErrMalformedHeader
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.cfg.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	role := Role(claims.Role)
	if role != RoleCustomer && role != RoleMechanic {
		return nil, ErrRoleMismatch
	}
	if len(allowed) > 0 && !roleAllowed(role, allowed) {
		return nil, ErrRoleMismatch
	}

	id64, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	id := uint(id64)

	switch role {
	case RoleCustomer:
		var customer models.Customer
		if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPrincipalNotFound
			}
			return nil, err
		}
		return &Principal{Role: RoleCustomer, Customer: &customer}, nil
	default:
		var mechanic models.Mechanic
		if err := s.db.WithContext(ctx).First(&mechanic, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPrincipalNotFound
			}
			return nil, err
		}
		return &Principal{Role: RoleMechanic, Mechanic: &mechanic}, nil
	}
}

func roleAllowed(role Role, allowed []Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
