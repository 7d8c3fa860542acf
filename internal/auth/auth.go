package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ukydev/ototansan/internal/models"
	"github.com/ukydev/ototansan/internal/timer"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
)

// Message returns the text shown to the user for an authentication error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "Pengguna tidak ditemukan"
	case errors.Is(err, ErrWrongPassword):
		return "Kata sandi salah"
	case errors.Is(err, ErrExpiredToken):
		return "Sesi telah berakhir, silakan masuk kembali"
	default:
		return "Autentikasi gagal"
	}
}

// Options configures a Service.
type Options struct {
	JWTSecret  string
	TokenExp   time.Duration
	LoginDelay time.Duration
	BcryptCost int
}

// Service handles authentication operations
type Service struct {
	jwtSecret  []byte
	tokenExp   time.Duration
	loginDelay time.Duration
	users      []models.User
	roleHashes map[models.Role]string
}

// NewService creates a new authentication service. Role secrets are hashed
// once here so that logins only ever compare against bcrypt hashes.
func NewService(opts Options) (*Service, error) {
	if opts.JWTSecret == "" {
		opts.JWTSecret = "default-secret-key-change-in-production"
	}
	if opts.TokenExp <= 0 {
		opts.TokenExp = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	s := &Service{
		jwtSecret:  []byte(opts.JWTSecret),
		tokenExp:   opts.TokenExp,
		loginDelay: opts.LoginDelay,
		users:      Identities(),
		roleHashes: make(map[models.Role]string, len(roleSecrets)),
	}

	for role, secret := range roleSecrets {
		hash, err := s.hashPassword(secret, opts.BcryptCost)
		if err != nil {
			return nil, err
		}
		s.roleHashes[role] = hash
	}

	return s, nil
}

func (s *Service) hashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword checks if a password matches a hash
func (s *Service) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Authenticate resolves credentials to a user. The email must match exactly;
// the password is checked against the shared secret of the user's role.
func (s *Service) Authenticate(email, password string) (*models.User, error) {
	user, ok := s.findByEmail(email)
	if !ok {
		return nil, ErrUserNotFound
	}

	hash, ok := s.roleHashes[user.Role]
	if !ok || !s.CheckPassword(password, hash) {
		return nil, ErrWrongPassword
	}

	return &user, nil
}

// AuthenticateAsync runs Authenticate after the configured login delay.
func (s *Service) AuthenticateAsync(ctx context.Context, email, password string) *timer.Op[*models.User] {
	return timer.Start(ctx, s.loginDelay, func(context.Context) (*models.User, error) {
		return s.Authenticate(email, password)
	})
}

// FindUserByID looks a user up by id.
func (s *Service) FindUserByID(id string) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *Service) findByEmail(email string) (models.User, bool) {
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

// TokenExpiry returns the lifetime of issued tokens.
func (s *Service) TokenExpiry() time.Duration {
	return s.tokenExp
}

// GenerateToken generates a JWT token for a user bound to a page session
func (s *Service) GenerateToken(user *models.User, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"role":    string(user.Role),
		"sid":     sessionID,
		"exp":     time.Now().Add(s.tokenExp).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*models.Claims, error) {
	// Remove "Bearer " prefix if present
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	name, _ := claims["name"].(string)

	roleStr, ok := claims["role"].(string)
	if !ok || !models.IsValidRole(models.Role(roleStr)) {
		return nil, ErrInvalidToken
	}

	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return nil, ErrInvalidToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &models.Claims{
		UserID:    userID,
		Name:      name,
		Role:      models.Role(roleStr),
		SessionID: sessionID,
		Exp:       int64(exp),
	}, nil
}

// ExtractTokenFromHeader extracts token from Authorization header
func (s *Service) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}

// ValidateEmail validates email format
func (s *Service) ValidateEmail(email string) error {
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return errors.New("invalid email format")
	}
	return nil
}
