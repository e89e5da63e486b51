package services

import (
	"testing"

	"github.com/rdavila/packstore/internal/repositories"
	"github.com/rdavila/packstore/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister_Success(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(db), 750)

	profile, err := svc.Register("fresh_recruit", "Recruit@Test.Local", "hunter22!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if profile.Username != "fresh_recruit" {
		t.Errorf("username = %q, want fresh_recruit", profile.Username)
	}
	if profile.Email != "recruit@test.local" {
		t.Errorf("email = %q, want lowercased recruit@test.local", profile.Email)
	}
	if profile.Coins != 750 {
		t.Errorf("coins = %d, want starting balance 750", profile.Coins)
	}

	stored, err := repositories.NewUserRepository(db).GetUserByID(profile.UserID)
	if err != nil {
		t.Fatalf("failed to load stored user: %v", err)
	}
	if stored.PasswordHash == "hunter22!" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter22!")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(db), 100)

	if _, err := svc.Register("taken", "first@test.local", "hunter22!"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err := svc.Register("taken", "second@test.local", "hunter22!")
	if errors.Code(err) != errors.ErrCodeAlreadyExists {
		t.Errorf("error code = %q, want %q", errors.Code(err), errors.ErrCodeAlreadyExists)
	}
}

func TestRegister_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(db), 100)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"blank username", "", "a@test.local", "hunter22!"},
		{"blank email", "someone", "", "hunter22!"},
		{"short password", "someone", "a@test.local", "short"},
		{"markup-only username", "<script></script>", "a@test.local", "hunter22!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.username, tt.email, tt.password)
			if errors.Code(err) != errors.ErrCodeValidationFailed {
				t.Errorf("error code = %q, want %q", errors.Code(err), errors.ErrCodeValidationFailed)
			}
		})
	}
}
