package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/rosterctl/internal/common"
	"github.com/dmitrijs2005/rosterctl/internal/server/auth"
	"github.com/dmitrijs2005/rosterctl/internal/server/config"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrNoUsers       = errors.New("no user ids given")
)

// Store gives the service its repository and a way to run several
// repository calls atomically.
type Store interface {
	Users() Repository
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}

type Service struct {
	store                       Store
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int
	now                         func() time.Time
}

func NewService(store Store, cfg *config.Config) *Service {
	return &Service{
		store:                       store,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
		now:                         time.Now,
	}
}

// Register creates an UNVERIFIED account. Emails are matched case-insensitively.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Users().Create(ctx, &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       StatusUnverified,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login checks credentials, stamps the last login time and issues a token.
// Unknown emails and wrong passwords both yield common.ErrorUnauthorized;
// blocked accounts yield common.ErrorForbidden.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	repo := s.store.Users()

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !auth.ComparePassword(user.PasswordHash, password) {
		return "", nil, common.ErrorUnauthorized
	}
	if user.Status == StatusBlocked {
		return "", nil, common.ErrorForbidden
	}

	at := s.now().UTC()
	if err := repo.TouchLogin(ctx, user.ID, at); err != nil {
		return "", nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	user.LastLogin = &at

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return token, user, nil
}

// Verify activates an UNVERIFIED account.
func (s *Service) Verify(ctx context.Context, id int64) error {
	return s.store.Users().Verify(ctx, id)
}

// Authorize resolves a bearer token to an account that may use the
// protected endpoints: missing or invalid tokens and deleted accounts are
// common.ErrorUnauthorized, blocked accounts common.ErrorForbidden.
func (s *Service) Authorize(ctx context.Context, token string) (*User, error) {
	id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if user.Status == StatusBlocked {
		return nil, common.ErrorForbidden
	}

	return user, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.Users().List(ctx)
}

func (s *Service) Block(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoUsers
	}
	return s.store.Users().SetStatus(ctx, ids, StatusBlocked, StatusActive, StatusUnverified)
}

// Unblock reactivates blocked accounts only.
func (s *Service) Unblock(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoUsers
	}
	return s.store.Users().SetStatus(ctx, ids, StatusActive, StatusBlocked)
}

func (s *Service) Delete(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoUsers
	}
	return s.store.Users().Delete(ctx, ids)
}

func (s *Service) DeleteUnverified(ctx context.Context) (int, error) {
	return s.store.Users().DeleteUnverified(ctx)
}

// SeedAccount describes an account created by Seed.
type SeedAccount struct {
	Name     string
	Email    string
	Password string
	Status   Status
}

// DemoAccounts is the roster created when demo seeding is enabled.
var DemoAccounts = []SeedAccount{
	{Name: "Admin", Email: "admin@example.com", Password: "admin", Status: StatusActive},
	{Name: "Alice Johnson", Email: "alice@example.com", Password: "alice", Status: StatusActive},
	{Name: "Bob Smith", Email: "bob@example.com", Password: "bob", Status: StatusBlocked},
	{Name: "Carol White", Email: "carol@example.com", Password: "carol", Status: StatusUnverified},
}

// Seed creates the accounts whose emails are not taken yet, in one
// transaction, and returns how many were created.
func (s *Service) Seed(ctx context.Context, accounts []SeedAccount) (int, error) {
	created := 0
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo Repository) error {
		created = 0
		for _, a := range accounts {
			email := normalizeEmail(a.Email)
			_, err := repo.GetByEmail(ctx, email)
			if err == nil {
				continue
			}
			if !errors.Is(err, common.ErrorNotFound) {
				return err
			}

			hash, err := auth.HashPassword(a.Password, s.bcryptCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			if _, err := repo.Create(ctx, &User{Name: a.Name, Email: email, PasswordHash: hash, Status: a.Status}); err != nil {
				return fmt.Errorf("seed %s: %w", email, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
