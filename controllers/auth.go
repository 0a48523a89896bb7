package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"event-platform/middleware"
	"event-platform/models"
	"event-platform/utils"
)

// ObtainAuthToken exchanges email + password for a fresh token pair
// plus the user's details.
func (c *Controller) ObtainAuthToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if !utils.IsEmail(input.Email) {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Email not in correct format", Field: "email"})
			return
		}

		user, err := c.Repos.Users.FindByEmail(input.Email)
		if err != nil {
			log.Printf("failed to look up user: %v", err)
			serverError(w)
			return
		}
		if user == nil {
			utils.RespondWithError(w, http.StatusNotFound,
				models.Error{Message: "user not found", Field: "email"})
			return
		}
		if !utils.ComparePasswords(user.Password, input.Password) {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "incorrect password", Field: "password"})
			return
		}

		payload, err := c.issueTokens(user)
		if err != nil {
			log.Printf("failed to issue tokens: %v", err)
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, payload)
	}
}

// Register creates the user and logs them straight in with the same
// token issuance as ObtainAuthToken.
func (c *Controller) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Email     string   `json:"email"`
			Password  string   `json:"password"`
			Name      string   `json:"name"`
			MobileNo  string   `json:"mobile_no"`
			Location  string   `json:"location"`
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if !utils.IsEmail(input.Email) {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Email not in correct format", Field: "email"})
			return
		}
		if input.Password == "" {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Password is required", Field: "password"})
			return
		}
		if input.Name == "" {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Name is required", Field: "name"})
			return
		}
		if input.MobileNo != "" && !utils.IsPhoneNumber(input.MobileNo) {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Mobile no not in correct format", Field: "mobile_no"})
			return
		}

		exists, err := c.Repos.Users.EmailExists(input.Email)
		if err != nil {
			log.Printf("failed to check email: %v", err)
			serverError(w)
			return
		}
		if exists {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Email already exists", Field: "email"})
			return
		}

		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			log.Printf("failed to hash password: %v", err)
			serverError(w)
			return
		}

		user := &models.User{
			Email:     input.Email,
			Password:  hash,
			Name:      input.Name,
			MobileNo:  input.MobileNo,
			Location:  input.Location,
			Latitude:  input.Latitude,
			Longitude: input.Longitude,
			IsActive:  true,
		}
		if err := c.Repos.Users.Create(user); err != nil {
			log.Printf("failed to create user: %v", err)
			serverError(w)
			return
		}

		if err := c.Mailer.SendWelcome(user.Email, user.Name); err != nil {
			log.Printf("failed to send welcome mail: %v", err)
		}

		payload, err := c.issueTokens(user)
		if err != nil {
			log.Printf("failed to issue tokens: %v", err)
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusCreated, payload)
	}
}

// RevokeAuthToken deletes the presented credential pair (logout).
func (c *Controller) RevokeAuthToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authToken := r.Header.Get(middleware.AuthTokenHeader)
		deviceToken := r.Header.Get(middleware.DeviceTokenHeader)
		if err := c.Repos.Tokens.DeletePair(authToken, deviceToken); err != nil {
			log.Printf("failed to revoke tokens: %v", err)
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"success": "Logged out"})
	}
}

// SendVerificationOTP persists a fresh 6-digit code for the caller's
// email and mails it.
func (c *Controller) SendVerificationOTP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		otp, err := utils.GenerateOTP()
		if err != nil {
			log.Printf("failed to generate OTP: %v", err)
			serverError(w)
			return
		}
		if err := c.Repos.OTPs.Create(user.Email, otp); err != nil {
			log.Printf("failed to store OTP: %v", err)
			serverError(w)
			return
		}
		if err := c.Mailer.SendVerificationOTP(user.Email, user.Name, otp); err != nil {
			log.Printf("failed to send OTP mail: %v", err)
		}

		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{
			"success": "OTP sent",
			"user":    user.Details(),
		})
	}
}

// VerifyOTP compares the submitted code with the most recent one on
// file and marks the caller's email verified on match.
func (c *Controller) VerifyOTP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		var input struct {
			OTP string `json:"otp"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		stored, err := c.Repos.OTPs.LatestByEmail(user.Email)
		if err != nil {
			log.Printf("failed to look up OTP: %v", err)
			serverError(w)
			return
		}
		if stored == nil {
			utils.RespondWithError(w, http.StatusNotFound,
				models.Error{Message: "OTP not found", Field: "otp"})
			return
		}
		if stored.OTP != input.OTP {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Incorrect OTP", Field: "otp"})
			return
		}

		if err := c.Repos.Users.MarkEmailVerified(user.Email); err != nil {
			log.Printf("failed to mark email verified: %v", err)
			serverError(w)
			return
		}
		user.EmailVerified = true

		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{
			"success": "OTP verified",
			"user":    user.Details(),
		})
	}
}
