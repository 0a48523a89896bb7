package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"event-platform/metrics"
	"event-platform/middleware"
	"event-platform/models"
	"event-platform/utils"
)

type eventInput struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	Category      string    `json:"category"`
	Tags          []string  `json:"tags"`
	Type          string    `json:"type"`
	Location      string    `json:"location"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
}

func (in *eventInput) validate() *models.Error {
	if in.Name == "" {
		return &models.Error{Message: "Name is required", Field: "name"}
	}
	if in.StartDatetime.IsZero() {
		return &models.Error{Message: "start_datetime not in correct format", Field: "start_datetime"}
	}
	if in.EndDatetime.IsZero() {
		return &models.Error{Message: "end_datetime not in correct format", Field: "end_datetime"}
	}
	if !utils.Contains(models.EventCategories, in.Category) {
		return &models.Error{Message: "category not in given choices", Field: "category"}
	}
	if !utils.Contains(models.EventTypes, in.Type) {
		return &models.Error{Message: "type not in given choices", Field: "type"}
	}
	return nil
}

func (in *eventInput) apply(event *models.Event) {
	event.Name = in.Name
	event.Description = in.Description
	event.StartDatetime = in.StartDatetime
	event.EndDatetime = in.EndDatetime
	event.Category = in.Category
	event.Tags = in.Tags
	event.Type = in.Type
	event.Location = in.Location
	event.Latitude = in.Latitude
	event.Longitude = in.Longitude
}

// eventDetails builds the event payload with the creator embedded.
func (c *Controller) eventDetails(event *models.Event) (map[string]interface{}, error) {
	creator, err := c.Repos.Users.FindByID(event.CreatedBy)
	if err != nil {
		return nil, err
	}
	return event.Details(creator), nil
}

// loadEvent resolves the event_id path variable; a nil event means the
// 404 was already written.
func (c *Controller) loadEvent(w http.ResponseWriter, r *http.Request) *models.Event {
	eventID, ok := pathID(r, "event_id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest,
			models.Error{Message: "Invalid event id", Field: "event_id"})
		return nil
	}
	event, err := c.Repos.Events.FindByID(eventID)
	if err != nil {
		log.Printf("failed to load event: %v", err)
		serverError(w)
		return nil
	}
	if event == nil {
		utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Event not found"})
		return nil
	}
	return event
}

// requireEventCommittee writes 403 unless the caller sits on the
// committee of the event's organisation.
func (c *Controller) requireEventCommittee(w http.ResponseWriter, user *models.User, event *models.Event) bool {
	member, err := c.committeeMember(user, event.OrganisationID)
	if err != nil {
		log.Printf("failed to check membership: %v", err)
		serverError(w)
		return false
	}
	if !member {
		utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Permission Denied"})
		return false
	}
	return true
}

// CreateEvent creates a draft event under an organisation the caller
// belongs to, generating its scan code and default notification
// config.
func (c *Controller) CreateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		organisationID, ok := pathID(r, "organisation_id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Invalid organisation id", Field: "organisation_id"})
			return
		}

		membership, err := c.Repos.Committees.Find(user.ID, organisationID)
		if err != nil {
			log.Printf("failed to check membership: %v", err)
			serverError(w)
			return
		}
		if membership == nil {
			utils.RespondWithError(w, http.StatusNotFound,
				models.Error{Message: "Organisation not found"})
			return
		}

		var input eventInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if apiErr := input.validate(); apiErr != nil {
			utils.RespondWithError(w, http.StatusBadRequest, *apiErr)
			return
		}

		scanID, err := utils.GenerateScanID()
		if err != nil {
			log.Printf("failed to generate scan id: %v", err)
			serverError(w)
			return
		}

		event := &models.Event{
			OrganisationID: organisationID,
			ScanID:         scanID,
			Status:         models.EventStatusDraft,
			CreatedBy:      user.ID,
		}
		input.apply(event)

		if err := c.Repos.Events.Create(event); err != nil {
			log.Printf("failed to create event: %v", err)
			serverError(w)
			return
		}
		if err := c.Repos.Notifications.CreateDefault(event.ID); err != nil {
			log.Printf("failed to create notification config: %v", err)
			serverError(w)
			return
		}

		details, err := c.eventDetails(event)
		if err != nil {
			log.Printf("failed to serialize event: %v", err)
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusCreated, map[string]interface{}{
			"success": "Event created",
			"details": details,
		})
	}
}

// EventDetails serves one event publicly.
func (c *Controller) EventDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event := c.loadEvent(w, r)
		if event == nil {
			return
		}
		details, err := c.eventDetails(event)
		if err != nil {
			log.Printf("failed to serialize event: %v", err)
			serverError(w)
			return
		}
		count, err := c.Repos.Attendees.CountByEvent(event.ID)
		if err != nil {
			log.Printf("failed to count attendees: %v", err)
			serverError(w)
			return
		}
		details["attendee_count"] = count
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"details": details})
	}
}

// EditEvent updates an event's fields in any lifecycle state.
// Committee members of the owning organisation only.
func (c *Controller) EditEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}
		if !c.requireEventCommittee(w, user, event) {
			return
		}

		var input eventInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if apiErr := input.validate(); apiErr != nil {
			utils.RespondWithError(w, http.StatusBadRequest, *apiErr)
			return
		}

		rescheduled := !input.StartDatetime.Equal(event.StartDatetime) ||
			!input.EndDatetime.Equal(event.EndDatetime)
		input.apply(event)

		if err := c.Repos.Events.Update(event); err != nil {
			log.Printf("failed to update event: %v", err)
			serverError(w)
			return
		}

		if rescheduled && event.Status == models.EventStatusPublished {
			c.notifyAttendees(event, c.Mailer.SendEventUpdate)
		}

		details, err := c.eventDetails(event)
		if err != nil {
			log.Printf("failed to serialize event: %v", err)
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{
			"success": "Event updated",
			"details": details,
		})
	}
}

// PublishEvent sets the status to published from any current state.
func (c *Controller) PublishEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}
		if !c.requireEventCommittee(w, user, event) {
			return
		}

		if err := c.Repos.Events.SetStatus(event.ID, models.EventStatusPublished); err != nil {
			log.Printf("failed to publish event: %v", err)
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"success": "Event published"})
	}
}

// CancelEvent sets the status to canceled and notifies attendees who
// allow event update mail.
func (c *Controller) CancelEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}
		if !c.requireEventCommittee(w, user, event) {
			return
		}

		if err := c.Repos.Events.SetStatus(event.ID, models.EventStatusCanceled); err != nil {
			log.Printf("failed to cancel event: %v", err)
			serverError(w)
			return
		}
		event.Status = models.EventStatusCanceled

		c.notifyAttendees(event, c.Mailer.SendEventCancellation)

		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"success": "Event canceled"})
	}
}

// notifyAttendees mails the event's attendees, skipping users who
// opted out of event updates.
func (c *Controller) notifyAttendees(event *models.Event, send func(*models.Event, []string) error) {
	attendees, err := c.Repos.Attendees.ListByEvent(event.ID)
	if err != nil {
		log.Printf("failed to list attendees: %v", err)
		return
	}

	var recipients []string
	for i := range attendees {
		pref, err := c.Repos.Preferences.FindByUser(attendees[i].User.ID)
		if err != nil {
			log.Printf("failed to load preferences: %v", err)
			continue
		}
		if pref != nil && !pref.AllowEventUpdates {
			continue
		}
		recipients = append(recipients, attendees[i].User.Email)
	}
	if len(recipients) == 0 {
		return
	}
	if err := send(event, recipients); err != nil {
		log.Printf("failed to notify attendees of event %d: %v", event.ID, err)
		return
	}
	metrics.EmailsSent.Add(float64(len(recipients)))
}

// ListEventsByOrganisation serves an organisation's upcoming events to
// its committee members.
func (c *Controller) ListEventsByOrganisation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		organisationID, ok := pathID(r, "organisation_id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Invalid organisation id", Field: "organisation_id"})
			return
		}

		member, err := c.committeeMember(user, organisationID)
		if err != nil {
			log.Printf("failed to check membership: %v", err)
			serverError(w)
			return
		}
		if !member {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Permission Denied"})
			return
		}

		events, err := c.Repos.Events.ListUpcomingByOrganisation(organisationID, time.Now().UTC())
		if err != nil {
			log.Printf("failed to list events: %v", err)
			serverError(w)
			return
		}

		list, err := c.eventList(events)
		if err != nil {
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"events": list})
	}
}

// ListEventsByUser serves the events the caller created.
func (c *Controller) ListEventsByUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		events, err := c.Repos.Events.ListByCreator(user.ID)
		if err != nil {
			log.Printf("failed to list events: %v", err)
			serverError(w)
			return
		}

		list, err := c.eventList(events)
		if err != nil {
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"events": list})
	}
}

func (c *Controller) eventList(events []models.Event) ([]map[string]interface{}, error) {
	list := make([]map[string]interface{}, 0, len(events))
	for i := range events {
		details, err := c.eventDetails(&events[i])
		if err != nil {
			log.Printf("failed to serialize event: %v", err)
			return nil, err
		}
		list = append(list, map[string]interface{}{"details": details})
	}
	return list, nil
}

// GetScanID serves the check-in code to committee members for QR
// generation.
func (c *Controller) GetScanID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}
		if !c.requireEventCommittee(w, user, event) {
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"scan_id": event.ScanID})
	}
}

// EventQR serves the event's check-in QR code as PNG.
func (c *Controller) EventQR() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event := c.loadEvent(w, r)
		if event == nil {
			return
		}

		content := fmt.Sprintf("%s/events/%d", c.Cfg.FrontendBaseURL, event.ID)
		png, err := utils.GenerateQR(content)
		if err != nil {
			log.Printf("failed to generate QR: %v", err)
			serverError(w)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(png); err != nil {
			log.Printf("failed to write QR response: %v", err)
		}
	}
}

// ListAttendees serves the attendee roster to committee members.
func (c *Controller) ListAttendees() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}
		if !c.requireEventCommittee(w, user, event) {
			return
		}

		attendees, err := c.Repos.Attendees.ListByEvent(event.ID)
		if err != nil {
			log.Printf("failed to list attendees: %v", err)
			serverError(w)
			return
		}

		list := make([]map[string]interface{}, 0, len(attendees))
		for i := range attendees {
			list = append(list, map[string]interface{}{
				"user":       attendees[i].User.Condensed(),
				"is_present": attendees[i].IsPresent,
			})
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"attendees": list})
	}
}

// MarkPresent checks an attendee in. The event is looked up by id and
// scan code together; the caller must already hold an RSVP.
func (c *Controller) MarkPresent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		var input struct {
			EventID int64  `json:"event_id"`
			ScanID  string `json:"scan_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		event, err := c.Repos.Events.FindByIDAndScanID(input.EventID, input.ScanID)
		if err != nil {
			log.Printf("failed to load event: %v", err)
			serverError(w)
			return
		}
		if event == nil {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Event not found"})
			return
		}

		attendee, err := c.Repos.Attendees.Find(event.ID, user.ID)
		if err != nil {
			log.Printf("failed to load attendee: %v", err)
			serverError(w)
			return
		}
		if attendee == nil {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Attendee not found"})
			return
		}

		if err := c.Repos.Attendees.MarkPresent(event.ID, user.ID); err != nil {
			log.Printf("failed to mark present: %v", err)
			serverError(w)
			return
		}

		// First check-in gets a thank-you mail.
		if !attendee.IsPresent {
			if err := c.Mailer.SendThankYou(event, user.Email); err != nil {
				log.Printf("failed to send thank-you mail: %v", err)
			} else {
				metrics.EmailsSent.Inc()
			}
		}

		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"success": "Attendee marked as present"})
	}
}

// ImportEventsCSV bulk-creates draft events from an uploaded CSV.
// Committee members of the organisation only.
func (c *Controller) ImportEventsCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		organisationID, ok := pathID(r, "organisation_id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Invalid organisation id", Field: "organisation_id"})
			return
		}

		member, err := c.committeeMember(user, organisationID)
		if err != nil {
			log.Printf("failed to check membership: %v", err)
			serverError(w)
			return
		}
		if !member {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Permission Denied"})
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "CSV file is required", Field: "file"})
			return
		}
		defer file.Close()

		rows, err := utils.CSVToMaps(file)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Invalid CSV file", Field: "file"})
			return
		}
		if len(rows) > 0 {
			for _, col := range utils.EventImportColumns {
				if _, ok := rows[0][col]; !ok {
					utils.RespondWithError(w, http.StatusBadRequest,
						models.Error{Message: "CSV is missing column " + col, Field: "file"})
					return
				}
			}
		}

		created := 0
		for _, row := range rows {
			input, apiErr := eventInputFromCSVRow(row)
			if apiErr != nil {
				utils.RespondWithError(w, http.StatusBadRequest, *apiErr)
				return
			}

			scanID, err := utils.GenerateScanID()
			if err != nil {
				log.Printf("failed to generate scan id: %v", err)
				serverError(w)
				return
			}
			event := &models.Event{
				OrganisationID: organisationID,
				ScanID:         scanID,
				Status:         models.EventStatusDraft,
				CreatedBy:      user.ID,
			}
			input.apply(event)

			if err := c.Repos.Events.Create(event); err != nil {
				log.Printf("failed to create event: %v", err)
				serverError(w)
				return
			}
			if err := c.Repos.Notifications.CreateDefault(event.ID); err != nil {
				log.Printf("failed to create notification config: %v", err)
				serverError(w)
				return
			}
			created++
		}

		utils.ResponseJSON(w, http.StatusCreated, map[string]interface{}{
			"success": "Events imported",
			"created": created,
		})
	}
}

func eventInputFromCSVRow(row map[string]string) (*eventInput, *models.Error) {
	start, err := time.Parse(time.RFC3339, row["start_datetime"])
	if err != nil {
		return nil, &models.Error{Message: "start_datetime not in correct format", Field: "start_datetime"}
	}
	end, err := time.Parse(time.RFC3339, row["end_datetime"])
	if err != nil {
		return nil, &models.Error{Message: "end_datetime not in correct format", Field: "end_datetime"}
	}

	var tags []string
	if raw := row["tags"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return nil, &models.Error{Message: "tags not in correct format", Field: "tags"}
		}
	}

	input := &eventInput{
		Name:          row["name"],
		Description:   row["description"],
		StartDatetime: start,
		EndDatetime:   end,
		Category:      row["category"],
		Tags:          tags,
		Type:          row["type"],
		Location:      row["location"],
	}
	if raw := row["latitude"]; raw != "" {
		lat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &models.Error{Message: "latitude not in correct format", Field: "latitude"}
		}
		input.Latitude = &lat
	}
	if raw := row["longitude"]; raw != "" {
		lng, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &models.Error{Message: "longitude not in correct format", Field: "longitude"}
		}
		input.Longitude = &lng
	}
	if apiErr := input.validate(); apiErr != nil {
		return nil, apiErr
	}
	return input, nil
}

// ExportAttendeesCSV serves the attendee roster as CSV to committee
// members.
func (c *Controller) ExportAttendeesCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}
		if !c.requireEventCommittee(w, user, event) {
			return
		}

		attendees, err := c.Repos.Attendees.ListByEvent(event.ID)
		if err != nil {
			log.Printf("failed to list attendees: %v", err)
			serverError(w)
			return
		}

		rows := make([]map[string]string, 0, len(attendees))
		for i := range attendees {
			rows = append(rows, map[string]string{
				"name":       attendees[i].User.Name,
				"email":      attendees[i].User.Email,
				"is_present": strconv.FormatBool(attendees[i].IsPresent),
			})
		}
		body, err := utils.MapsToCSV(rows, []string{"name", "email", "is_present"})
		if err != nil {
			log.Printf("failed to build CSV: %v", err)
			serverError(w)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=event-%d-attendees.csv", event.ID))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, body)
	}
}

// CalendarLinks serves the Google Calendar URL for an event.
func (c *Controller) CalendarLinks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event := c.loadEvent(w, r)
		if event == nil {
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{
			"google_calendar_link": utils.GoogleCalendarLink(event),
		})
	}
}

// EventICS serves the event as an iCalendar file.
func (c *Controller) EventICS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event := c.loadEvent(w, r)
		if event == nil {
			return
		}
		w.Header().Set("Content-Type", "text/calendar")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=event-%d.ics", event.ID))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, utils.ICSEvent(event, time.Now().UTC()))
	}
}

// GetNotificationConfig serves an event's notification settings to
// committee members.
func (c *Controller) GetNotificationConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}
		if !c.requireEventCommittee(w, user, event) {
			return
		}

		cfg, err := c.Repos.Notifications.FindByEvent(event.ID)
		if err != nil {
			log.Printf("failed to load notification config: %v", err)
			serverError(w)
			return
		}
		if cfg == nil {
			utils.RespondWithError(w, http.StatusNotFound,
				models.Error{Message: "Notification config not found"})
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"notification_config": cfg})
	}
}

// UpdateNotificationConfig replaces an event's notification settings.
func (c *Controller) UpdateNotificationConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		event := c.loadEvent(w, r)
		if event == nil {
			return
		}
		if !c.requireEventCommittee(w, user, event) {
			return
		}

		var input struct {
			NotificationConfig map[string]interface{} `json:"notification_config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		if err := c.Repos.Notifications.UpdateConfig(event.ID, input.NotificationConfig); err != nil {
			log.Printf("failed to update notification config: %v", err)
			serverError(w)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"success": "Notification config updated"})
	}
}
