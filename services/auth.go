package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KTZN/ShoppingCartApi/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenTTL is the fixed validity window of issued bearer tokens.
const TokenTTL = 120 * time.Minute

type AuthService struct {
	db     *gorm.DB
	secret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, secret: []byte(jwtSecret)}
}

// Register stores a new customer with a bcrypt digest of the password. The
// plaintext is never persisted and the digest is never returned to callers.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, classify(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("username %q: %w", username, ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.Create(&user).Error; err != nil {
		// The unique index catches registrations racing past the pre-check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("username %q: %w", username, ErrConflict)
		}
		return nil, classify(err)
	}

	log.Printf("new user registered: %s", username)
	return &user, nil
}

// Authenticate verifies credentials and issues a signed bearer token. Unknown
// usernames and digest mismatches are indistinguishable to the caller: both
// come back as ErrUnauthenticated, not a server fault.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("authentication failed for user: %s", username)
			return "", ErrUnauthenticated
		}
		return "", classify(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		log.Printf("authentication failed for user: %s", username)
		return "", ErrUnauthenticated
	}

	return s.issueToken(&user)
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
