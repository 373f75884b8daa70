package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/stockroomhq/stockroom-backend/internal/products"
	"github.com/stockroomhq/stockroom-backend/internal/users"
	pkgauth "github.com/stockroomhq/stockroom-backend/pkg/auth"
	"github.com/stockroomhq/stockroom-backend/pkg/auth/session"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/security"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ResolveUser(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	Logout(ctx context.Context, accessID string) error
	DemoLogin(ctx context.Context) (*DemoResponse, error)
}

type sessionManager interface {
	Register(ctx context.Context, accessID string, ttl time.Duration) error
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	users    *users.Repository
	products *product.Repository
	dbClient *db.Client
	session  sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	demoCfg  config.DemoConfig
}

// ServiceParams bundles the dependencies required to build the auth service.
type ServiceParams struct {
	UserRepo       *users.Repository
	ProductRepo    *product.Repository
	DBClient       *db.Client
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	DemoConfig     config.DemoConfig
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:    params.UserRepo,
		products: params.ProductRepo,
		dbClient: params.DBClient,
		session:  params.SessionManager,
		jwtCfg:   params.JWTConfig,
		pwCfg:    params.PasswordConfig,
		demoCfg:  params.DemoConfig,
	}, nil
}

// Register creates an account and signs the caller in. A taken email is a
// conflict, not a validation failure.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := users.CreateUserDTO{Email: email, PasswordHash: hash}.ToModel()
	if _, err := s.users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, err
	}

	return s.issueToken(ctx, user, s.jwtCfg.AccessTokenTTL())
}

// Login verifies credentials. An unknown email and a wrong password are
// reported distinctly, matching the historical API contract.
func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, err
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredential, "invalid credentials")
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	return s.issueToken(ctx, user, s.jwtCfg.AccessTokenTTL())
}

// ResolveUser maps a token subject back to a live account. A vanished
// subject invalidates the session.
func (s *service) ResolveUser(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, err
	}
	return users.FromModel(user), nil
}

// Logout revokes the session tied to the token's access id.
func (s *service) Logout(ctx context.Context, accessID string) error {
	return s.session.Revoke(ctx, accessID)
}

// DemoLogin clones the seed account's products into a throwaway demo user
// and signs it in with a short-lived token.
func (s *service) DemoLogin(ctx context.Context) (*DemoResponse, error) {
	if !s.demoCfg.Enabled {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "demo access is not enabled")
	}

	source, err := s.users.FindByEmail(ctx, normalizeEmail(s.demoCfg.SourceEmail))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "demo source account is missing")
		}
		return nil, err
	}

	seedProducts, err := s.products.ListByOwner(ctx, source.ID)
	if err != nil {
		return nil, err
	}

	// demo accounts can never be logged into directly; give them an
	// unguessable password
	hash, err := security.HashPassword(uuid.NewString(), s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	demoUser := &models.User{
		Email:        fmt.Sprintf("demo-%s@stockroom.local", uuid.NewString()),
		PasswordHash: hash,
		IsDemo:       true,
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.users.WithTx(tx).Create(ctx, demoUser); err != nil {
			return err
		}
		productRepo := s.products.WithTx(tx)
		for _, p := range seedProducts {
			clone := &models.Product{
				OwnerID:  demoUser.ID,
				Name:     p.Name,
				Price:    p.Price,
				Quantity: p.Quantity,
				ImageURL: p.ImageURL,
			}
			if _, err := productRepo.Create(ctx, clone); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.issueToken(ctx, demoUser, s.demoCfg.TokenTTL())
	if err != nil {
		return nil, err
	}
	return &DemoResponse{Token: resp.Token, Email: demoUser.Email}, nil
}

func (s *service) issueToken(ctx context.Context, user *models.User, ttl time.Duration) (*AuthResponse, error) {
	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), ttl, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Demo:   user.IsDemo,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	if err := s.session.Register(ctx, accessID, ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "registering session")
	}

	return &AuthResponse{Token: token, User: users.FromModel(user)}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
