package controllers

import (
	"net/http"
	"testing"

	"event-platform/middleware"
)

func TestRegisterIssuesTokens(t *testing.T) {
	c, mail := newTestController(t)

	status, payload := doJSON(t, c.Register(), http.MethodPost, map[string]interface{}{
		"email":    "sam@example.com",
		"password": "secret123",
		"name":     "Sam",
	}, nil, nil)
	if status != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%v)", status, payload)
	}

	tokens, ok := payload["tokens"].(map[string]interface{})
	if !ok {
		t.Fatalf("no tokens in payload: %v", payload)
	}
	if tokens["auth_token"] == "" || tokens["device_token"] == "" {
		t.Fatalf("empty token pair: %v", tokens)
	}
	if len(mail.Welcomes) != 1 || mail.Welcomes[0] != "sam@example.com" {
		t.Errorf("welcome mail = %v, want [sam@example.com]", mail.Welcomes)
	}

	// The minted pair must resolve back to the user.
	token, err := c.Repos.Tokens.FindPair(
		tokens["auth_token"].(string), tokens["device_token"].(string))
	if err != nil {
		t.Fatalf("find pair: %v", err)
	}
	if token == nil {
		t.Fatal("issued pair not stored")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	c, _ := newTestController(t)
	createTestUser(t, c, "sam@example.com")

	status, payload := doJSON(t, c.Register(), http.MethodPost, map[string]interface{}{
		"email":    "sam@example.com",
		"password": "another",
		"name":     "Sam Again",
	}, nil, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if payload["error"] != "Email already exists" || payload["field"] != "email" {
		t.Errorf("payload = %v", payload)
	}

	users, err := c.Repos.Users.List()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("user rows = %d after duplicate registration, want 1", len(users))
	}
}

func TestObtainAuthToken(t *testing.T) {
	c, _ := newTestController(t)
	createTestUser(t, c, "sam@example.com")

	status, payload := doJSON(t, c.ObtainAuthToken(), http.MethodPost, map[string]interface{}{
		"email":    "sam@example.com",
		"password": "wrong",
	}, nil, nil)
	if status != http.StatusBadRequest || payload["field"] != "password" {
		t.Fatalf("wrong password: status = %d, payload = %v", status, payload)
	}

	status, payload = doJSON(t, c.ObtainAuthToken(), http.MethodPost, map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "secret123",
	}, nil, nil)
	if status != http.StatusNotFound || payload["field"] != "email" {
		t.Fatalf("unknown email: status = %d, payload = %v", status, payload)
	}

	status, payload = doJSON(t, c.ObtainAuthToken(), http.MethodPost, map[string]interface{}{
		"email":    "sam@example.com",
		"password": "secret123",
	}, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("login: status = %d, payload = %v", status, payload)
	}
	if _, ok := payload["tokens"].(map[string]interface{}); !ok {
		t.Fatalf("no tokens in payload: %v", payload)
	}
}

func TestOTPVerification(t *testing.T) {
	c, mail := newTestController(t)
	user := createTestUser(t, c, "sam@example.com")

	status, _ := doJSON(t, c.SendVerificationOTP(), http.MethodPost, nil, user, nil)
	if status != http.StatusOK {
		t.Fatalf("send OTP: status = %d", status)
	}
	if len(mail.OTPs) != 1 {
		t.Fatalf("OTP mails = %d, want 1", len(mail.OTPs))
	}

	status, payload := doJSON(t, c.VerifyOTP(), http.MethodPost, map[string]interface{}{
		"otp": "000000",
	}, user, nil)
	if status != http.StatusBadRequest || payload["error"] != "Incorrect OTP" {
		t.Fatalf("wrong OTP: status = %d, payload = %v", status, payload)
	}

	status, _ = doJSON(t, c.VerifyOTP(), http.MethodPost, map[string]interface{}{
		"otp": mail.OTPs[0],
	}, user, nil)
	if status != http.StatusOK {
		t.Fatalf("verify: status = %d", status)
	}

	reloaded, err := c.Repos.Users.FindByID(user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !reloaded.EmailVerified {
		t.Error("email not verified after OTP check")
	}
}

func TestOTPEndpointsRejectUnauthenticated(t *testing.T) {
	c, _ := newTestController(t)

	handlers := map[string]http.HandlerFunc{
		"send":   middleware.RequireAuth(c.SendVerificationOTP()),
		"verify": middleware.RequireAuth(c.VerifyOTP()),
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			status, payload := doJSON(t, handler, http.MethodPost, map[string]interface{}{
				"otp": "123456",
			}, nil, nil)
			if status != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", status)
			}
			if payload["error"] != "Authentication required" {
				t.Errorf("payload = %v", payload)
			}
		})
	}
}

func TestVerifyOTPWithoutCode(t *testing.T) {
	c, _ := newTestController(t)
	user := createTestUser(t, c, "sam@example.com")

	status, payload := doJSON(t, c.VerifyOTP(), http.MethodPost, map[string]interface{}{
		"otp": "123456",
	}, user, nil)
	if status != http.StatusNotFound || payload["error"] != "OTP not found" {
		t.Fatalf("status = %d, payload = %v", status, payload)
	}
}
