package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"swag-shop/internal/core/logger"
	"swag-shop/internal/domain"
	"swag-shop/internal/metrics"
	"swag-shop/internal/notify"
)

type SignUpInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (in SignUpInput) validate() error {
	var missing []string
	if in.Username == "" {
		missing = append(missing, "username")
	}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Lookups return an index into users and an explicit found flag.

func findUserByID(users []domain.User, id int) (int, bool) {
	for i := range users {
		if users[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func findUserByUsername(users []domain.User, username string) (int, bool) {
	for i := range users {
		if users[i].Username == username {
			return i, true
		}
	}
	return -1, false
}

func findUserByEmail(users []domain.User, email string) (int, bool) {
	for i := range users {
		if users[i].Email == email {
			return i, true
		}
	}
	return -1, false
}

func nextUserID(users []domain.User) int {
	next := 1
	for _, u := range users {
		if u.ID >= next {
			next = u.ID + 1
		}
	}
	return next
}

// SignUp builds a new user. Email is checked before username, both by exact
// (case-sensitive) match.
func SignUp(users []domain.User, in SignUpInput, h domain.PasswordHasher) (domain.User, error) {
	if err := in.validate(); err != nil {
		return domain.User{}, err
	}
	if _, ok := findUserByEmail(users, in.Email); ok {
		return domain.User{}, ErrDuplicateEmail
	}
	if _, ok := findUserByUsername(users, in.Username); ok {
		return domain.User{}, ErrDuplicateUsername
	}
	hash, err := h.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	return domain.User{
		ID:           nextUserID(users),
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Orders:       []domain.OrderRecord{},
	}, nil
}

// Login never distinguishes an unknown username from a wrong password.
func Login(users []domain.User, username, password string, h domain.PasswordHasher) (domain.User, error) {
	i, ok := findUserByUsername(users, username)
	if !ok || !h.Verify(password, users[i].PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return users[i], nil
}

func ChangePassword(u *domain.User, current, next string, h domain.PasswordHasher) error {
	if next == "" {
		return fmt.Errorf("%w: missing newPassword", ErrValidation)
	}
	if !h.Verify(current, u.PasswordHash) {
		return ErrWrongPassword
	}
	hash, err := h.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	return nil
}

// IssueTemporaryPassword moves u to PendingReset. Only the hash of temp is kept.
func IssueTemporaryPassword(u *domain.User, temp string, expires time.Time, h domain.PasswordHasher) error {
	hash, err := h.Hash(temp)
	if err != nil {
		return fmt.Errorf("hash temporary password: %w", err)
	}
	u.TemporaryPasswordHash = hash
	u.TemporaryPasswordExpiry = &expires
	return nil
}

// ResetPassword succeeds only if supplied matches the pending temporary
// password and now is not after its expiry. On success u returns to Active.
func ResetPassword(u *domain.User, supplied, next string, now time.Time, h domain.PasswordHasher) error {
	if next == "" {
		return fmt.Errorf("%w: missing newPassword", ErrValidation)
	}
	if !u.PendingReset() || !h.Verify(supplied, u.TemporaryPasswordHash) {
		return ErrWrongTemporaryPassword
	}
	if now.After(*u.TemporaryPasswordExpiry) {
		return ErrExpired
	}
	hash, err := h.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	u.ClearReset()
	return nil
}

type TempPasswordGenerator interface {
	Generate() (string, error)
}

type AccountConfig struct {
	TempTTL time.Duration
	Now     func() time.Time
}

type AccountService struct {
	tx      SnapshotTx
	hasher  domain.PasswordHasher
	mailer  domain.Mailer
	temp    TempPasswordGenerator
	tempTTL time.Duration
	now     func() time.Time
	log     *zap.Logger
}

// NewAccountService wires the account ledger. mailer may be nil.
func NewAccountService(tx SnapshotTx, h domain.PasswordHasher, mailer domain.Mailer, temp TempPasswordGenerator, cfg AccountConfig, l *zap.Logger) *AccountService {
	if cfg.TempTTL <= 0 {
		cfg.TempTTL = 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AccountService{
		tx:      tx,
		hasher:  h,
		mailer:  mailer,
		temp:    temp,
		tempTTL: cfg.TempTTL,
		now:     cfg.Now,
		log:     l,
	}
}

func (s *AccountService) SignUp(ctx context.Context, in SignUpInput) (domain.Profile, error) {
	var created domain.User
	err := s.tx.Update(ctx, func(snap *domain.Snapshot) error {
		u, err := SignUp(snap.Users, in, s.hasher)
		if err != nil {
			return err
		}
		snap.Users = append(snap.Users, u)
		created = u
		return nil
	})
	if err != nil {
		return domain.Profile{}, err
	}
	logger.Ctx(ctx, s.log).Info("user signed up", zap.Int("user_id", created.ID), zap.String("username", created.Username))
	return created.Profile(), nil
}

func (s *AccountService) Login(ctx context.Context, username, password string) (domain.Profile, error) {
	var p domain.Profile
	err := s.tx.View(ctx, func(snap *domain.Snapshot) error {
		u, err := Login(snap.Users, username, password, s.hasher)
		if err != nil {
			return err
		}
		p = u.Profile()
		return nil
	})
	return p, err
}

func (s *AccountService) ChangePassword(ctx context.Context, userID int, current, next string) error {
	return s.tx.Update(ctx, func(snap *domain.Snapshot) error {
		i, ok := findUserByID(snap.Users, userID)
		if !ok {
			return ErrUserNotFound
		}
		return ChangePassword(&snap.Users[i], current, next, s.hasher)
	})
}

// ForgetPassword issues a temporary password and mails it. An unknown email
// is not an error and sends nothing.
func (s *AccountService) ForgetPassword(ctx context.Context, email string) error {
	var (
		target  domain.Profile
		temp    string
		expires time.Time
		known   bool
	)
	err := s.tx.Update(ctx, func(snap *domain.Snapshot) error {
		i, ok := findUserByEmail(snap.Users, email)
		if !ok {
			return nil
		}
		t, err := s.temp.Generate()
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
		expires = s.now().Add(s.tempTTL)
		if err := IssueTemporaryPassword(&snap.Users[i], t, expires, s.hasher); err != nil {
			return err
		}
		target, temp, known = snap.Users[i].Profile(), t, true
		return nil
	})
	if err != nil {
		return err
	}
	if !known {
		logger.Ctx(ctx, s.log).Info("password reset requested for unknown email", zap.String("email", email))
		return nil
	}
	metrics.PasswordResets.WithLabelValues("issued").Inc()
	logger.Ctx(ctx, s.log).Info("temporary password issued", zap.Int("user_id", target.ID), zap.Time("expires", expires))
	if s.mailer == nil {
		return nil
	}
	if err := s.mailer.Send(ctx, notify.TemporaryPassword(target, temp, expires)); err != nil {
		metrics.MailFailures.WithLabelValues("temporary_password").Inc()
		return err
	}
	return nil
}

func (s *AccountService) ResetPassword(ctx context.Context, username, temp, next string) error {
	err := s.tx.Update(ctx, func(snap *domain.Snapshot) error {
		i, ok := findUserByUsername(snap.Users, username)
		if !ok {
			return ErrUserNotFound
		}
		return ResetPassword(&snap.Users[i], temp, next, s.now(), s.hasher)
	})
	if err != nil {
		metrics.PasswordResets.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.PasswordResets.WithLabelValues("completed").Inc()
	logger.Ctx(ctx, s.log).Info("password reset completed", zap.String("username", username))
	return nil
}

// Orders returns the user's order history, oldest first.
func (s *AccountService) Orders(ctx context.Context, userID int) ([]domain.OrderRecord, error) {
	var out []domain.OrderRecord
	err := s.tx.View(ctx, func(snap *domain.Snapshot) error {
		i, ok := findUserByID(snap.Users, userID)
		if !ok {
			return ErrUserNotFound
		}
		out = snap.Users[i].Orders
		if out == nil {
			out = []domain.OrderRecord{}
		}
		return nil
	})
	return out, err
}

func (s *AccountService) Users(ctx context.Context) ([]domain.Profile, error) {
	var out []domain.Profile
	err := s.tx.View(ctx, func(snap *domain.Snapshot) error {
		out = make([]domain.Profile, 0, len(snap.Users))
		for i := range snap.Users {
			out = append(out, snap.Users[i].Profile())
		}
		return nil
	})
	return out, err
}

// RoleOf returns the stored role of the user with the given id.
func (s *AccountService) RoleOf(ctx context.Context, userID int) (domain.Role, error) {
	var role domain.Role
	err := s.tx.View(ctx, func(snap *domain.Snapshot) error {
		i, ok := findUserByID(snap.Users, userID)
		if !ok {
			return ErrUserNotFound
		}
		role = snap.Users[i].Role
		return nil
	})
	return role, err
}

// SetRole changes a user's role. Used by the admin CLI.
func (s *AccountService) SetRole(ctx context.Context, username string, role domain.Role) (domain.Profile, error) {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return domain.Profile{}, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	var p domain.Profile
	err := s.tx.Update(ctx, func(snap *domain.Snapshot) error {
		i, ok := findUserByUsername(snap.Users, username)
		if !ok {
			return ErrUserNotFound
		}
		snap.Users[i].Role = role
		p = snap.Users[i].Profile()
		return nil
	})
	return p, err
}
