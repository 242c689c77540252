package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/cryptox"
	"github.com/dmitrijs2005/bvchub/internal/logging"
	"github.com/dmitrijs2005/bvchub/internal/mailer"
	"github.com/dmitrijs2005/bvchub/internal/server/auth"
	"github.com/dmitrijs2005/bvchub/internal/server/config"
	"github.com/dmitrijs2005/bvchub/internal/server/metrics"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/dmitrijs2005/bvchub/internal/server/ratelimit"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bvchub/internal/timex"
)

const minPasswordLen = 6

// Session is the result of a successful user verification or login.
type Session struct {
	Token   string
	Account *models.Account
}

// AdminSession is the result of a successful admin login.
type AdminSession struct {
	Token string
	Admin *models.Admin
}

// AuthService drives signup, OTP verification, login and token resolution.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenIssuer
	otp         *auth.OTPIssuer
	mailer      mailer.Mailer
	attempts    *ratelimit.AttemptLimiter
	logger      logging.Logger

	emailDomain string
	bcryptCost  int
	otpTTL      time.Duration
	mailTimeout time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, ml mailer.Mailer,
	attempts *ratelimit.AttemptLimiter, logger logging.Logger, clock timex.Clock) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		tokens:      auth.NewTokenIssuer([]byte(cfg.SecretKey), cfg.SessionTokenTTL, clock),
		otp:         auth.NewOTPIssuer(cfg.OTPTTL, clock),
		mailer:      ml,
		attempts:    attempts,
		logger:      logger,
		emailDomain: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(cfg.EmailDomain), "@")),
		bcryptCost:  cfg.BcryptCost,
		otpTTL:      cfg.OTPTTL,
		mailTimeout: mailer.DefaultSendTimeout,
	}
}

func (s *AuthService) validateSignup(name, email, password string) error {
	if name == "" {
		return common.Invalid("name is required")
	}
	if !validEmail(email) {
		return common.Invalid("invalid email address")
	}
	if s.emailDomain != "" && !strings.HasSuffix(email, "@"+s.emailDomain) {
		return common.ErrInvalidEmailDomain
	}
	if len(password) < minPasswordLen {
		return common.Invalid("password must be at least 6 characters")
	}
	return nil
}

// Signup creates an unverified account with a pending OTP and mails the
// code. If the mail cannot be delivered the account is deleted again and
// common.ErrMailDelivery is returned.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if err := s.validateSignup(name, email, password); err != nil {
		metrics.Auth("signup", "invalid")
		return nil, err
	}

	repo := s.repomanager.Accounts(s.db)

	// fast path only; the unique index decides races
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		metrics.Auth("signup", "duplicate")
		return nil, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, internalErr("lookup account", err)
	}

	hash, err := cryptox.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, internalErr("hash password", err)
	}

	account := &models.Account{Name: name, Email: email, PasswordHash: hash}
	code, err := s.otp.Issue(account)
	if err != nil {
		return nil, internalErr("issue otp", err)
	}

	account, err = repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			metrics.Auth("signup", "duplicate")
			return nil, common.ErrDuplicateEmail
		}
		return nil, internalErr("create account", err)
	}

	if err := s.sendOTP(ctx, account, code); err != nil {
		metrics.MailFailed("otp")
		s.logger.Error(ctx, "otp delivery failed, rolling back signup", "email", email, "error", err)

		if delErr := repo.Delete(context.WithoutCancel(ctx), account.ID); delErr != nil {
			s.logger.Error(ctx, "signup rollback failed", "account_id", account.ID, "error", delErr)
		}
		metrics.Auth("signup", "mail_failed")
		return nil, common.ErrMailDelivery
	}

	metrics.Auth("signup", "ok")
	s.logger.Info(ctx, "account created", "account_id", account.ID)
	return account, nil
}

func (s *AuthService) sendOTP(ctx context.Context, a *models.Account, code string) error {
	subject, html, err := mailer.OTPEmail(a.Name, code, s.otpTTL)
	if err != nil {
		return err
	}

	// the rollback depends on this call returning
	ctx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()
	return s.mailer.Send(ctx, []string{a.Email}, subject, html)
}

// VerifyOTP confirms email ownership and returns a session for the account.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*Session, error) {
	email = NormalizeEmail(email)

	if err := s.attempts.Allow(ctx, email); err != nil {
		if errors.Is(err, common.ErrRateLimited) {
			metrics.Auth("verify", "rate_limited")
			return nil, err
		}
		s.logger.Warn(ctx, "attempt limiter unavailable", "error", err)
	}

	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, internalErr("lookup account", err)
	}

	if err := s.otp.Verify(account, strings.TrimSpace(code)); err != nil {
		metrics.Auth("verify", "rejected")
		return nil, err
	}

	if err := repo.Save(ctx, account); err != nil {
		return nil, internalErr("save account", err)
	}

	if err := s.attempts.Reset(ctx, email); err != nil {
		s.logger.Warn(ctx, "attempt limiter reset failed", "error", err)
	}

	token, err := s.tokens.Issue(account.ID, models.KindUser)
	if err != nil {
		return nil, internalErr("issue token", err)
	}

	metrics.Auth("verify", "ok")
	return &Session{Token: token, Account: account}, nil
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable; unverified accounts are refused before the password
// is looked at.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)

	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.BurnPasswordCheck(password)
			metrics.Auth("login", "rejected")
			return nil, common.ErrInvalidCredentials
		}
		return nil, internalErr("lookup account", err)
	}

	if !account.Verified {
		metrics.Auth("login", "unverified")
		return nil, common.ErrUnverified
	}

	if !cryptox.CheckPassword(account.PasswordHash, password) {
		metrics.Auth("login", "rejected")
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID, models.KindUser)
	if err != nil {
		return nil, internalErr("issue token", err)
	}

	metrics.Auth("login", "ok")
	return &Session{Token: token, Account: account}, nil
}

func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*AdminSession, error) {
	email = NormalizeEmail(email)

	admin, err := s.repomanager.Admins(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.BurnPasswordCheck(password)
			metrics.Auth("admin_login", "rejected")
			return nil, common.ErrInvalidCredentials
		}
		return nil, internalErr("lookup admin", err)
	}

	if !cryptox.CheckPassword(admin.PasswordHash, password) {
		metrics.Auth("admin_login", "rejected")
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin.ID, models.KindAdmin)
	if err != nil {
		return nil, internalErr("issue token", err)
	}

	metrics.Auth("admin_login", "ok")
	return &AdminSession{Token: token, Admin: admin}, nil
}

// Authenticate resolves a bearer token to an identity with one lookup in
// the store named by the token. Invalid, expired and dangling tokens all
// yield common.ErrorUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return models.Identity{}, common.ErrorUnauthorized
	}

	switch claims.Kind {
	case models.KindAdmin:
		admin, err := s.repomanager.Admins(s.db).GetByID(ctx, claims.UserID)
		if err != nil {
			return models.Identity{}, resolveErr(err)
		}
		return models.AdminIdentity(admin), nil
	default:
		account, err := s.repomanager.Accounts(s.db).GetByID(ctx, claims.UserID)
		if err != nil {
			return models.Identity{}, resolveErr(err)
		}
		return models.UserIdentity(account), nil
	}
}

func resolveErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUnauthorized
	}
	return internalErr("resolve identity", err)
}

// RegisterAdmin provisions an admin account. Used by the hubadmin tool.
func (s *AuthService) RegisterAdmin(ctx context.Context, name, email, password string) (*models.Admin, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" {
		return nil, common.Invalid("name is required")
	}
	if !validEmail(email) {
		return nil, common.Invalid("invalid email address")
	}
	if len(password) < minPasswordLen {
		return nil, common.Invalid("password must be at least 6 characters")
	}

	hash, err := cryptox.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, internalErr("hash password", err)
	}

	admin, err := s.repomanager.Admins(s.db).Create(ctx, &models.Admin{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, internalErr("create admin", err)
	}
	return admin, nil
}
