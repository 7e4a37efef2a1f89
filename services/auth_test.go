package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KTZN/ShoppingCartApi/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testSecret)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "s3cret-pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("registered user must have an id")
	}
	if user.Role != models.RoleCustomer {
		t.Fatalf("new users must be customers, got %s", user.Role)
	}

	// The stored digest is never the plaintext, but verifies against it.
	var stored models.User
	if err := db.Where("username = ?", "alice").First(&stored).Error; err != nil {
		t.Fatal(err)
	}
	if stored.PasswordHash == "s3cret-pw" {
		t.Fatal("password must not be stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pw")) != nil {
		t.Fatal("digest must verify against the original password")
	}

	token, err := svc.Authenticate(ctx, "alice", "s3cret-pw")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token must parse and validate: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if uint(claims["user_id"].(float64)) != user.ID {
		t.Fatalf("user_id claim mismatch: %v", claims["user_id"])
	}
	if claims["username"] != "alice" {
		t.Fatalf("username claim mismatch: %v", claims["username"])
	}
	if claims["role"] != string(models.RoleCustomer) {
		t.Fatalf("role claim mismatch: %v", claims["role"])
	}

	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	remaining := time.Until(exp)
	if remaining < TokenTTL-time.Minute || remaining > TokenTTL+time.Minute {
		t.Fatalf("expiry must be ~%s out, got %s", TokenTTL, remaining)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testSecret)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob", "first"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, "bob", "second"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testSecret)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "carol", "right-pw"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Authenticate(ctx, "carol", "wrong-pw"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("wrong password: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "whatever"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("unknown user: expected ErrUnauthenticated, got %v", err)
	}
}
