package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"event-platform/middleware"
	"event-platform/models"
	"event-platform/utils"
)

// RSVP registers the caller as an attendee. Repeated calls are
// harmless.
func (c *Controller) RSVP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}

		if _, err := c.Repos.Attendees.GetOrCreate(event.ID, user.ID); err != nil {
			log.Printf("failed to create RSVP: %v", err)
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"success": "RSVP done"})
	}
}

// RemoveRSVP withdraws the caller's attendance. Removing a
// nonexistent RSVP is a no-op.
func (c *Controller) RemoveRSVP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}

		if err := c.Repos.Attendees.Delete(event.ID, user.ID); err != nil {
			log.Printf("failed to remove RSVP: %v", err)
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"success": "RSVP removed"})
	}
}

// Interact records a like, comment, share or view against an event.
// Comments always append; the other types record at most once per
// user.
func (c *Controller) Interact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}

		var input struct {
			Action  string `json:"action"`
			Comment string `json:"comment"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		interaction := &models.EventInteraction{
			EventID:         event.ID,
			UserID:          user.ID,
			InteractionType: input.Action,
		}

		var err error
		switch input.Action {
		case models.InteractionComment:
			if input.Comment == "" {
				utils.RespondWithError(w, http.StatusBadRequest,
					models.Error{Message: "Comment is required", Field: "comment"})
				return
			}
			interaction.InteractionData = map[string]interface{}{"comment": input.Comment}
			err = c.Repos.Interactions.Create(interaction)
		case models.InteractionLike, models.InteractionShare, models.InteractionView:
			err = c.Repos.Interactions.GetOrCreate(interaction)
		default:
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Invalid action", Field: "action"})
			return
		}
		if err != nil {
			log.Printf("failed to record interaction: %v", err)
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"success": "Interaction recorded"})
	}
}

// CheckUserInteractions serves the caller's flags for one event.
func (c *Controller) CheckUserInteractions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}

		hasLiked, err := c.Repos.Interactions.Exists(event.ID, user.ID, models.InteractionLike)
		if err != nil {
			log.Printf("failed to check interactions: %v", err)
			serverError(w)
			return
		}
		rsvped, err := c.Repos.Attendees.Exists(event.ID, user.ID)
		if err != nil {
			log.Printf("failed to check RSVP: %v", err)
			serverError(w)
			return
		}
		attended, err := c.Repos.Attendees.ExistsPresent(event.ID, user.ID)
		if err != nil {
			log.Printf("failed to check attendance: %v", err)
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{
			"has_liked": hasLiked,
			"rsvped":    rsvped,
			"attended":  attended,
		})
	}
}

// SubmitFeedback writes the caller's rating for an event, replacing
// any earlier one.
func (c *Controller) SubmitFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}

		var input struct {
			Rating   *float64 `json:"rating"`
			Feedback string   `json:"feedback"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if input.Rating == nil || *input.Rating < 1 || *input.Rating > 5 {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Rating must be between 1 and 5", Field: "rating"})
			return
		}

		feedback := &models.EventFeedback{
			EventID:  event.ID,
			UserID:   user.ID,
			Rating:   *input.Rating,
			Feedback: input.Feedback,
		}
		if err := c.Repos.Feedback.Upsert(feedback); err != nil {
			log.Printf("failed to save feedback: %v", err)
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"success": "Feedback submitted"})
	}
}

// ListFeedback serves an event's feedback to committee members.
func (c *Controller) ListFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}
		if !c.requireEventCommittee(w, user, event) {
			return
		}

		records, err := c.Repos.Feedback.ListByEvent(event.ID)
		if err != nil {
			log.Printf("failed to list feedback: %v", err)
			serverError(w)
			return
		}

		list := make([]map[string]interface{}, 0, len(records))
		for i := range records {
			list = append(list, map[string]interface{}{
				"user":       records[i].User.Condensed(),
				"rating":     records[i].Feedback.Rating,
				"feedback":   records[i].Feedback.Feedback,
				"created_at": records[i].Feedback.CreatedAt,
				"updated_at": records[i].Feedback.UpdatedAt,
			})
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"feedback": list})
	}
}
