package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"singularshift/internal/cache"
	"singularshift/internal/model"
	"singularshift/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserExists         = repository.ErrUserExists
)

// SessionDuration is the lifetime of the session cookie and its token
const SessionDuration = 7 * 24 * time.Hour

// SessionCookieName carries the session token in browsers
const SessionCookieName = "session"

const minPasswordLength = 3

var (
	emailPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
)

// ValidationError reports a rejected sign-up field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthService handles accounts and the session token
type AuthService struct {
	users     repository.UserRepo
	tokens    cache.TokenCache
	jwtSecret []byte
	admins    []string
	now       func() time.Time
}

// NewAuthService creates an auth service. tokens may be nil, in which case
// sign-out only clears the cookie.
func NewAuthService(users repository.UserRepo, tokens cache.TokenCache, jwtSecret string, adminEmails []string) *AuthService {
	admins := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		admins = append(admins, strings.ToLower(strings.TrimSpace(e)))
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		jwtSecret: []byte(jwtSecret),
		admins:    admins,
		now:       time.Now,
	}
}

// IsAdmin reports whether email belongs to an administrator
func (s *AuthService) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	return slices.Contains(s.admins, strings.ToLower(strings.TrimSpace(email)))
}

// ValidateSignUp checks the request against the account rules
func ValidateSignUp(req *model.SignUpRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		return &ValidationError{Field: "email", Message: "is not a valid email address"}
	}
	if len(req.Password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters long", minPasswordLength)}
	}
	if !letterPattern.MatchString(req.Password) || !digitPattern.MatchString(req.Password) {
		return &ValidationError{Field: "password", Message: "must mix letters and numbers"}
	}
	enums := []struct {
		field, value string
		allowed      []string
	}{
		{"seniority", req.Seniority, model.Seniorities},
		{"department", req.Department, model.Departments},
		{"location", req.Location, model.Locations},
	}
	for _, e := range enums {
		if e.value != "" && !slices.Contains(e.allowed, e.value) {
			return &ValidationError{Field: e.field, Message: fmt.Sprintf("must be one of %s", strings.Join(e.allowed, ", "))}
		}
	}
	return nil
}

// SignUp creates an account
func (s *AuthService) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.User, error) {
	if err := ValidateSignUp(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
		JobTitle:     strings.TrimSpace(req.JobTitle),
		Seniority:    req.Seniority,
		Department:   req.Department,
		Location:     req.Location,
		CreatedAt:    s.now().UTC(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn checks credentials and returns a signed session token
func (s *AuthService) SignIn(ctx context.Context, req *model.SignInRequest) (string, *model.User, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken signs a session token for user
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	now := s.now()
	claims := &model.SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses a session token and rejects revoked ones
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if s.tokens != nil && claims.ID != "" {
		revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// SignOut revokes the token until its natural expiry
func (s *AuthService) SignOut(ctx context.Context, claims *model.SessionClaims) error {
	if s.tokens == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(s.now()))
}

// CurrentUser loads the account behind claims; nil when it no longer exists
func (s *AuthService) CurrentUser(ctx context.Context, claims *model.SessionClaims) (*model.User, error) {
	return s.users.GetByID(ctx, claims.UserID)
}
