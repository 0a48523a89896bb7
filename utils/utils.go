package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log"
	"math/big"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"event-platform/models"
)

// RespondWithError writes the JSON error envelope with the given
// status code.
func RespondWithError(w http.ResponseWriter, status int, apiErr models.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiErr); err != nil {
		log.Printf("failed to encode error response: %v", err)
	}
}

// ResponseJSON writes data as a JSON response body.
func ResponseJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func ComparePasswords(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// TokenPair is the opaque credential pair minted per login.
type TokenPair struct {
	AuthToken   string `json:"auth_token"`
	DeviceToken string `json:"device_token"`
}

// GenerateTokenPair mints a long random auth token and a device token.
func GenerateTokenPair() (TokenPair, error) {
	raw := make([]byte, 90)
	if _, err := rand.Read(raw); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AuthToken:   base64.RawURLEncoding.EncodeToString(raw),
		DeviceToken: uuid.NewString(),
	}, nil
}

// GenerateOTP returns a 6-digit verification code.
func GenerateOTP() (string, error) {
	num, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv6(num.Int64() + 100000), nil
}

// GenerateScanID returns the short numeric code encoded into an
// event's check-in QR.
func GenerateScanID() (string, error) {
	return GenerateOTP()
}

func strconv6(n int64) string {
	digits := []byte{
		byte('0' + n/100000%10), byte('0' + n/10000%10), byte('0' + n/1000%10),
		byte('0' + n/100%10), byte('0' + n/10%10), byte('0' + n%10),
	}
	return string(digits)
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func IsEmail(input string) bool {
	return emailRegex.MatchString(strings.TrimSpace(input))
}

func IsPhoneNumber(input string) bool {
	phoneRegex := regexp.MustCompile(`^\+?\d{7,15}$`)
	return phoneRegex.MatchString(strings.TrimSpace(input))
}

// Contains reports whether value is one of the allowed choices.
func Contains(choices []string, value string) bool {
	for _, choice := range choices {
		if choice == value {
			return true
		}
	}
	return false
}
