package repository

import (
	"testing"

	"event-platform/models"
	"event-platform/testutil"
)

func seedUser(t *testing.T, repo UserRepository, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Password: "hashed",
		Name:     "Sam",
		IsActive: true,
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestUserCreateAndFind(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)

	user := seedUser(t, repo, "sam@example.com")
	if user.ID == 0 {
		t.Fatal("id not assigned on create")
	}

	byEmail, err := repo.FindByEmail("sam@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Fatalf("got %+v, want user %d", byEmail, user.ID)
	}

	missing, err := repo.FindByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("got %+v, want nil", missing)
	}

	exists, err := repo.EmailExists("sam@example.com")
	if err != nil {
		t.Fatalf("email exists: %v", err)
	}
	if !exists {
		t.Error("EmailExists = false for existing email")
	}
}

func TestMarkEmailVerified(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)

	user := seedUser(t, repo, "sam@example.com")
	if user.EmailVerified {
		t.Fatal("new user already verified")
	}

	if err := repo.MarkEmailVerified(user.Email); err != nil {
		t.Fatalf("mark verified: %v", err)
	}
	reloaded, err := repo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.EmailVerified {
		t.Error("email not verified after MarkEmailVerified")
	}
}

func TestTokenPairLookupAndRevoke(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := NewUserRepository(db)
	tokens := NewTokenRepository(db)

	user := seedUser(t, users, "sam@example.com")

	token := &models.AuthToken{
		UserID:      user.ID,
		AuthToken:   "auth-abc",
		DeviceToken: "device-xyz",
		Type:        models.TokenTypeWeb,
	}
	if err := tokens.Create(token); err != nil {
		t.Fatalf("create token: %v", err)
	}

	found, err := tokens.FindPair("auth-abc", "device-xyz")
	if err != nil {
		t.Fatalf("find pair: %v", err)
	}
	if found == nil || found.UserID != user.ID {
		t.Fatalf("got %+v, want token for user %d", found, user.ID)
	}

	// Both halves must match.
	if found, _ := tokens.FindPair("auth-abc", "other-device"); found != nil {
		t.Error("pair matched with wrong device token")
	}
	if found, _ := tokens.FindPair("other-auth", "device-xyz"); found != nil {
		t.Error("pair matched with wrong auth token")
	}

	if err := tokens.DeletePair("auth-abc", "device-xyz"); err != nil {
		t.Fatalf("delete pair: %v", err)
	}
	if found, _ := tokens.FindPair("auth-abc", "device-xyz"); found != nil {
		t.Error("pair still resolves after revocation")
	}
}

func TestLatestOTPWins(t *testing.T) {
	db := testutil.OpenTestDB(t)
	otps := NewOTPRepository(db)

	if err := otps.Create("sam@example.com", "111111"); err != nil {
		t.Fatalf("create otp: %v", err)
	}
	if err := otps.Create("sam@example.com", "222222"); err != nil {
		t.Fatalf("create otp: %v", err)
	}

	latest, err := otps.LatestByEmail("sam@example.com")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.OTP != "222222" {
		t.Fatalf("got %+v, want otp 222222", latest)
	}

	none, err := otps.LatestByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("latest for unknown email: %v", err)
	}
	if none != nil {
		t.Fatalf("got %+v, want nil", none)
	}
}
