package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"event-platform/middleware"
	"event-platform/models"
	"event-platform/utils"
)

// ListUsers serves the condensed details of every user.
func (c *Controller) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := c.Repos.Users.List()
		if err != nil {
			log.Printf("failed to list users: %v", err)
			serverError(w)
			return
		}

		list := make([]map[string]interface{}, 0, len(users))
		for i := range users {
			list = append(list, users[i].Condensed())
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"users": list})
	}
}

// GetPreferences serves the caller's preference row.
func (c *Controller) GetPreferences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		pref, err := c.Repos.Preferences.FindByUser(user.ID)
		if err != nil {
			log.Printf("failed to load preferences: %v", err)
			serverError(w)
			return
		}
		if pref == nil {
			utils.RespondWithError(w, http.StatusNotFound,
				models.Error{Message: "User preferences not found", Field: "user"})
			return
		}

		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{
			"preferences": pref.Details(user),
		})
	}
}

// UpdatePreferences upserts the caller's designation, preferred
// category and email opt-in flags.
func (c *Controller) UpdatePreferences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		var input struct {
			Designation              string `json:"designation"`
			PreferredCategory        string `json:"preferred_category"`
			AllowMarketingEmails     *bool  `json:"allow_marketing_emails"`
			AllowEventUpdates        *bool  `json:"allow_event_updates"`
			AllowSystemNotifications *bool  `json:"allow_system_notifications"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if input.PreferredCategory != "" && !utils.Contains(models.EventCategories, input.PreferredCategory) {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "preferred_category not in given choices", Field: "preferred_category"})
			return
		}

		// Opt-in flags default to true when the client omits them.
		boolOr := func(v *bool, fallback bool) bool {
			if v == nil {
				return fallback
			}
			return *v
		}

		pref := &models.UserPreference{
			UserID:                   user.ID,
			Designation:              input.Designation,
			PreferredCategory:        input.PreferredCategory,
			AllowMarketingEmails:     boolOr(input.AllowMarketingEmails, true),
			AllowEventUpdates:        boolOr(input.AllowEventUpdates, true),
			AllowSystemNotifications: boolOr(input.AllowSystemNotifications, true),
		}
		if err := c.Repos.Preferences.Upsert(pref); err != nil {
			log.Printf("failed to update preferences: %v", err)
			serverError(w)
			return
		}

		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{
			"success":     "User preferences updated",
			"preferences": pref.Details(user),
		})
	}
}
