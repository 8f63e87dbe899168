package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/auth"
	"fitclub/internal/ledger"
	"fitclub/internal/logger"

	"github.com/google/uuid"
)

// Subscriptions reads the derived subscription shown on profiles.
type Subscriptions interface {
	Current(ctx context.Context, memberID uuid.UUID) (ledger.Current, error)
}

// BookingCleaner removes a member's bookings before the account goes.
type BookingCleaner interface {
	DeleteBookingsForMember(ctx context.Context, memberID uuid.UUID) (int64, error)
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	GetProfile(ctx context.Context, memberID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, memberID uuid.UUID, fullName string) (*Profile, error)
	ChangePassword(ctx context.Context, memberID uuid.UUID, current, next string) error
	// DeleteMember hard-deletes the member's bookings, then the member.
	DeleteMember(ctx context.Context, memberID uuid.UUID) (int64, error)
	ListMembers(ctx context.Context) ([]Profile, error)
	// AdminContact returns the contact details of the longest-standing admin.
	AdminContact(ctx context.Context) (*AdminContact, error)
}

type service struct {
	repo      Repository
	subs      Subscriptions
	bookings  BookingCleaner
	jwtSecret string
	now       func() time.Time
}

func NewService(repo Repository, subs Subscriptions, bookings BookingCleaner, jwtSecret string, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      repo,
		subs:      subs,
		bookings:  bookings,
		jwtSecret: jwtSecret,
		now:       now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperr.Internal("checking email", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal("hashing password", err)
	}

	now := s.now().UTC()
	m := &Member{
		ID:           uuid.New(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		PasswordHash: hash,
		Role:         auth.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		return nil, apperr.Internal("creating member", err)
	}

	logger.Info("member registered", "member_id", m.ID.String())
	// A new account has no history yet.
	return s.issue(m, ledger.DeriveCurrent(nil))
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	m, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, apperr.Internal("loading member", err)
	}
	if m == nil || !auth.CheckPassword(m.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if req.Role != "" && req.Role != m.Role {
		return nil, ErrInvalidCredentials
	}

	current, err := s.subs.Current(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return s.issue(m, current)
}

func (s *service) issue(m *Member, current ledger.Current) (*AuthResponse, error) {
	access, refresh, err := auth.GenerateTokens(m.ID, m.Email, m.Role, s.jwtSecret)
	if err != nil {
		return nil, apperr.Internal("generating tokens", err)
	}
	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Member:       Profile{Member: *m, Subscription: current},
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnauthorized, "invalid or expired refresh token", err)
	}

	// Reissue from the stored account so role changes take effect.
	m, err := s.repo.FindByID(ctx, claims.MemberID)
	if err != nil {
		return nil, apperr.Internal("loading member", err)
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}

	access, err := auth.GenerateAccessToken(m.ID, m.Email, m.Role, s.jwtSecret)
	if err != nil {
		return nil, apperr.Internal("generating access token", err)
	}
	current, err := s.subs.Current(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{AccessToken: access, Member: Profile{Member: *m, Subscription: current}}, nil
}

func (s *service) load(ctx context.Context, memberID uuid.UUID) (*Member, error) {
	m, err := s.repo.FindByID(ctx, memberID)
	if err != nil {
		return nil, apperr.Internal("loading member", err)
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

func (s *service) GetProfile(ctx context.Context, memberID uuid.UUID) (*Profile, error) {
	m, err := s.load(ctx, memberID)
	if err != nil {
		return nil, err
	}
	current, err := s.subs.Current(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return &Profile{Member: *m, Subscription: current}, nil
}

func (s *service) UpdateProfile(ctx context.Context, memberID uuid.UUID, fullName string) (*Profile, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, apperr.Validation("Full name is required.")
	}
	if err := s.repo.UpdateName(ctx, memberID, fullName, s.now().UTC()); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, err
		}
		return nil, apperr.Internal("updating member", err)
	}
	return s.GetProfile(ctx, memberID)
}

func (s *service) ChangePassword(ctx context.Context, memberID uuid.UUID, current, next string) error {
	m, err := s.load(ctx, memberID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(m.PasswordHash, current) {
		return ErrIncorrectPassword
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return apperr.Internal("hashing password", err)
	}
	if err := s.repo.UpdatePassword(ctx, memberID, hash, s.now().UTC()); err != nil {
		return apperr.Internal("updating password", err)
	}

	logger.Info("member password changed", "member_id", memberID.String())
	return nil
}

func (s *service) DeleteMember(ctx context.Context, memberID uuid.UUID) (int64, error) {
	if _, err := s.load(ctx, memberID); err != nil {
		return 0, err
	}

	n, err := s.bookings.DeleteBookingsForMember(ctx, memberID)
	if err != nil {
		return 0, fmt.Errorf("deleting member bookings: %w", err)
	}
	if err := s.repo.Delete(ctx, memberID); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return n, err
		}
		return n, apperr.Internal("deleting member", err)
	}

	logger.Info("member deleted", "member_id", memberID.String(), "deleted_bookings", n)
	return n, nil
}

func (s *service) ListMembers(ctx context.Context) ([]Profile, error) {
	members, err := s.repo.ListByRole(ctx, auth.RoleMember)
	if err != nil {
		return nil, apperr.Internal("listing members", err)
	}

	out := make([]Profile, 0, len(members))
	for _, m := range members {
		current, err := s.subs.Current(ctx, m.ID)
		if errors.Is(err, ledger.ErrMemberNotFound) {
			// deleted since the list query ran
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Profile{Member: m, Subscription: current})
	}
	return out, nil
}

func (s *service) AdminContact(ctx context.Context) (*AdminContact, error) {
	admins, err := s.repo.ListByRole(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, apperr.Internal("listing admins", err)
	}
	if len(admins) == 0 {
		return nil, ErrNoAdminContact
	}

	// newest first
	first := admins[len(admins)-1]
	contact := &AdminContact{Email: first.Email, PhoneNumber: first.PhoneNumber}
	if contact.Email == "" {
		contact.Email = contactUnavailable
	}
	if contact.PhoneNumber == "" {
		contact.PhoneNumber = contactUnavailable
	}
	return contact, nil
}
