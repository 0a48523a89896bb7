package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"event-platform/middleware"
	"event-platform/models"
	"event-platform/utils"
)

// CreateOrganisation registers an organisation and seats the creator
// on its committee as Founder.
func (c *Controller) CreateOrganisation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		var input struct {
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Email       string   `json:"email"`
			Tags        []string `json:"tags"`
			Location    string   `json:"location"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if input.Name == "" {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Name is required", Field: "name"})
			return
		}
		if !utils.IsEmail(input.Email) {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Email not in correct format", Field: "email"})
			return
		}

		exists, err := c.Repos.Organisations.NameExists(input.Name)
		if err != nil {
			log.Printf("failed to check organisation name: %v", err)
			serverError(w)
			return
		}
		if exists {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Organisation with the same name already exists", Field: "name"})
			return
		}

		org := &models.Organisation{
			Name:        input.Name,
			Description: input.Description,
			Email:       input.Email,
			Tags:        input.Tags,
			Location:    input.Location,
		}
		if err := c.Repos.Organisations.Create(org); err != nil {
			log.Printf("failed to create organisation: %v", err)
			serverError(w)
			return
		}

		founder := &models.OrganisationCommittee{
			UserID:         user.ID,
			OrganisationID: org.ID,
			Designation:    "Founder",
			IsFounder:      true,
		}
		if err := c.Repos.Committees.Add(founder); err != nil {
			log.Printf("failed to add founder to committee: %v", err)
			serverError(w)
			return
		}

		utils.ResponseJSON(w, http.StatusCreated, map[string]interface{}{
			"success":      "Organisation created",
			"organisation": org.Details(),
		})
	}
}

// ListUserOrganisations serves the organisations the caller sits on,
// with their designation in each.
func (c *Controller) ListUserOrganisations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		memberships, err := c.Repos.Committees.ListForUser(user.ID)
		if err != nil {
			log.Printf("failed to list organisations: %v", err)
			serverError(w)
			return
		}

		list := make([]map[string]interface{}, 0, len(memberships))
		for i := range memberships {
			list = append(list, map[string]interface{}{
				"details":     memberships[i].Organisation.Details(),
				"designation": memberships[i].Designation,
			})
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"organisations": list})
	}
}

// ListCommitteeMembers serves the committee of an organisation.
func (c *Controller) ListCommitteeMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		organisationID, ok := pathID(r, "organisation_id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Invalid organisation id", Field: "organisation_id"})
			return
		}

		org, err := c.Repos.Organisations.FindByID(organisationID)
		if err != nil {
			log.Printf("failed to load organisation: %v", err)
			serverError(w)
			return
		}
		if org == nil {
			utils.RespondWithError(w, http.StatusNotFound,
				models.Error{Message: "Organisation not found", Field: "organisation_id"})
			return
		}

		members, err := c.Repos.Committees.ListMembers(organisationID)
		if err != nil {
			log.Printf("failed to list committee members: %v", err)
			serverError(w)
			return
		}

		list := make([]map[string]interface{}, 0, len(members))
		for i := range members {
			list = append(list, map[string]interface{}{
				"user":        members[i].User.Condensed(),
				"designation": members[i].Designation,
				"is_founder":  members[i].IsFounder,
			})
		}
		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{"committee_members": list})
	}
}

// AddCommitteeMembers adds a batch of users to an organisation's
// committee. Users already on the committee are skipped silently.
func (c *Controller) AddCommitteeMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			OrganisationID   int64 `json:"organisation_id"`
			CommitteeMembers []struct {
				UserID      int64  `json:"user_id"`
				Designation string `json:"designation"`
			} `json:"committee_members"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		org, err := c.Repos.Organisations.FindByID(input.OrganisationID)
		if err != nil {
			log.Printf("failed to load organisation: %v", err)
			serverError(w)
			return
		}
		if org == nil {
			utils.RespondWithError(w, http.StatusNotFound,
				models.Error{Message: "Organisation not found", Field: "organisation_id"})
			return
		}

		var added []map[string]interface{}
		for _, candidate := range input.CommitteeMembers {
			user, err := c.Repos.Users.FindByID(candidate.UserID)
			if err != nil {
				log.Printf("failed to load user: %v", err)
				serverError(w)
				return
			}
			if user == nil {
				utils.RespondWithError(w, http.StatusNotFound,
					models.Error{Message: "User not found", Field: "user_id"})
				return
			}

			existing, err := c.Repos.Committees.Find(user.ID, org.ID)
			if err != nil {
				log.Printf("failed to check membership: %v", err)
				serverError(w)
				return
			}
			if existing != nil {
				continue
			}

			member := &models.OrganisationCommittee{
				UserID:         user.ID,
				OrganisationID: org.ID,
				Designation:    candidate.Designation,
			}
			if err := c.Repos.Committees.Add(member); err != nil {
				log.Printf("failed to add committee member: %v", err)
				serverError(w)
				return
			}
			added = append(added, user.Condensed())
		}

		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{
			"success":      "Committee member added",
			"organisation": org.Name,
			"committee":    added,
		})
	}
}

// RemoveCommitteeMember deletes a user's committee membership.
func (c *Controller) RemoveCommitteeMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			OrganisationID int64 `json:"organisation_id"`
			UserID         int64 `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		user, err := c.Repos.Users.FindByID(input.UserID)
		if err != nil {
			log.Printf("failed to load user: %v", err)
			serverError(w)
			return
		}
		if user == nil {
			utils.RespondWithError(w, http.StatusNotFound,
				models.Error{Message: "User not found", Field: "user_id"})
			return
		}

		org, err := c.Repos.Organisations.FindByID(input.OrganisationID)
		if err != nil {
			log.Printf("failed to load organisation: %v", err)
			serverError(w)
			return
		}
		if org == nil {
			utils.RespondWithError(w, http.StatusNotFound,
				models.Error{Message: "Organisation not found", Field: "organisation_id"})
			return
		}

		if err := c.Repos.Committees.Remove(user.ID, org.ID); err != nil {
			log.Printf("failed to remove committee member: %v", err)
			serverError(w)
			return
		}

		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{
			"success":      "Committee member removed",
			"organisation": org.Name,
			"removed_user": user.Condensed(),
		})
	}
}

// UploadOrganisationLogo stores a logo image in S3 and records its
// public URL. Committee members only.
func (c *Controller) UploadOrganisationLogo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r)

		organisationID, ok := pathID(r, "organisation_id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Invalid organisation id", Field: "organisation_id"})
			return
		}

		org, err := c.Repos.Organisations.FindByID(organisationID)
		if err != nil {
			log.Printf("failed to load organisation: %v", err)
			serverError(w)
			return
		}
		if org == nil {
			utils.RespondWithError(w, http.StatusNotFound,
				models.Error{Message: "Organisation not found", Field: "organisation_id"})
			return
		}

		member, err := c.committeeMember(user, org.ID)
		if err != nil {
			log.Printf("failed to check membership: %v", err)
			serverError(w)
			return
		}
		if !member {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Permission Denied"})
			return
		}

		file, header, err := r.FormFile("logo")
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest,
				models.Error{Message: "Logo file is required", Field: "logo"})
			return
		}
		defer file.Close()

		fileName := fmt.Sprintf("organisations/logo-%d-%d%s",
			org.ID, time.Now().Unix(), filepath.Ext(header.Filename))
		logoURL, err := c.Uploader.UploadFile(file, fileName)
		if err != nil {
			log.Printf("failed to upload logo: %v", err)
			serverError(w)
			return
		}

		// Replace the old logo object if there was one.
		if org.LogoURL != "" {
			if err := c.Uploader.DeleteFile(org.LogoURL); err != nil {
				log.Printf("failed to delete old logo: %v", err)
			}
		}

		if err := c.Repos.Organisations.UpdateLogoURL(org.ID, logoURL); err != nil {
			log.Printf("failed to store logo URL: %v", err)
			serverError(w)
			return
		}

		utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{
			"success":  "Logo uploaded",
			"logo_url": logoURL,
		})
	}
}
