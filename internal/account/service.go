// Package account signs users up and in against the account store.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Goofygiraffe06/prepwise/internal/auth"
	"github.com/Goofygiraffe06/prepwise/internal/logging"
	"github.com/Goofygiraffe06/prepwise/internal/manager"
	"github.com/Goofygiraffe06/prepwise/internal/models"
	"github.com/Goofygiraffe06/prepwise/internal/utils"
	"github.com/Goofygiraffe06/prepwise/store"
)

// publicError messages are safe to show to the person filling in the form.
type publicError string

func (e publicError) Error() string { return string(e) }

func (e publicError) UserMessage() string { return string(e) }

var (
	ErrAccountExists      error = publicError("an account with this email already exists")
	ErrInvalidCredentials error = publicError("invalid email or password")
)

// Store persists accounts.
type Store interface {
	AddAccount(ctx context.Context, account models.Account) error
	GetAccount(ctx context.Context, email string) (models.Account, bool, error)
}

// Welcomer sends the post sign-up mail.
type Welcomer interface {
	SendWelcome(ctx context.Context, account models.Account) error
}

type Service struct {
	store   Store
	mgr     *manager.WorkManager
	welcome Welcomer
}

// NewService wires the service. welcome may be nil to skip welcome mail.
func NewService(s Store, mgr *manager.WorkManager, welcome Welcomer) *Service {
	return &Service{store: s, mgr: mgr, welcome: welcome}
}

func (s *Service) SignUp(ctx context.Context, req models.SignUpRequest) (models.Account, error) {
	start := time.Now()
	emailHash := utils.HashEmail(req.Email)

	existing, err := s.lookup(ctx, req.Email)
	if err != nil {
		return models.Account{}, err
	}
	if existing != nil {
		logging.WarnLog("Sign-up rejected: account exists [%s]", emailHash)
		return models.Account{}, ErrAccountExists
	}

	var hash string
	err = s.mgr.RunHash(ctx, func(ctx context.Context) error {
		var herr error
		hash, herr = auth.HashPassword(req.Password)
		return herr
	})
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account := models.Account{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	err = s.mgr.RunStore(ctx, func(ctx context.Context) error {
		return s.store.AddAccount(ctx, account)
	})
	if errors.Is(err, store.ErrAccountExists) {
		// lost a race with a concurrent sign-up
		return models.Account{}, ErrAccountExists
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("save account: %w", err)
	}

	s.queueWelcome(account)
	logging.InfoLog("Sign-up completed [%s] %v", emailHash, time.Since(start))
	return account, nil
}

func (s *Service) SignIn(ctx context.Context, req models.SignInRequest) (models.Account, error) {
	emailHash := utils.HashEmail(req.Email)

	account, err := s.lookup(ctx, req.Email)
	if err != nil {
		return models.Account{}, err
	}
	if account == nil {
		logging.WarnLog("Sign-in failed: unknown account [%s]", emailHash)
		return models.Account{}, ErrInvalidCredentials
	}

	var ok bool
	err = s.mgr.RunHash(ctx, func(ctx context.Context) error {
		var cerr error
		ok, cerr = auth.CheckPassword(account.PasswordHash, req.Password)
		return cerr
	})
	if err != nil {
		return models.Account{}, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		logging.WarnLog("Sign-in failed: wrong password [%s]", emailHash)
		return models.Account{}, ErrInvalidCredentials
	}

	logging.InfoLog("Sign-in completed [%s]", emailHash)
	return *account, nil
}

func (s *Service) lookup(ctx context.Context, email string) (*models.Account, error) {
	var (
		account models.Account
		found   bool
	)
	err := s.mgr.RunStore(ctx, func(ctx context.Context) error {
		var gerr error
		account, found, gerr = s.store.GetAccount(ctx, email)
		return gerr
	})
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &account, nil
}

func (s *Service) queueWelcome(account models.Account) {
	if s.welcome == nil {
		return
	}
	emailHash := utils.HashEmail(account.Email)
	err := s.mgr.SubmitMail(func(ctx context.Context) {
		if err := s.welcome.SendWelcome(ctx, account); err != nil {
			logging.ErrorLog("Welcome mail failed [%s]: %v", emailHash, err)
			return
		}
		logging.InfoLog("Welcome mail sent [%s]", emailHash)
	})
	if err != nil {
		logging.WarnLog("Welcome mail not queued [%s]: %v", emailHash, err)
	}
}
