package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"event-platform/middleware"
	"event-platform/models"
	"event-platform/repository"
	"event-platform/utils"
)

func feedQueryFromRequest(r *http.Request) repository.FeedQuery {
	params := r.URL.Query()

	page := 1
	if raw := params.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	var tags []string
	if raw := params.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	return repository.FeedQuery{
		Now:      time.Now().UTC(),
		Search:   params.Get("search"),
		Category: params.Get("category"),
		Type:     params.Get("type"),
		Tags:     tags,
		SortBy:   params.Get("sort_by"),
		Order:    params.Get("order"),
		Page:     page,
	}
}

// feedPage runs the feed query and serializes one page. When user is
// non-nil each event carries its interaction flags for that user.
func (c *Controller) feedPage(w http.ResponseWriter, r *http.Request, user *models.User) {
	query := feedQueryFromRequest(r)

	events, total, err := c.Repos.Events.Feed(query)
	if err != nil {
		log.Printf("failed to query feed: %v", err)
		serverError(w)
		return
	}

	// Creators repeat across a page; cache the lookups.
	creators := map[int64]*models.User{}
	list := make([]map[string]interface{}, 0, len(events))
	for i := range events {
		event := &events[i]

		creator, ok := creators[event.CreatedBy]
		if !ok {
			creator, err = c.Repos.Users.FindByID(event.CreatedBy)
			if err != nil {
				log.Printf("failed to load creator: %v", err)
				serverError(w)
				return
			}
			creators[event.CreatedBy] = creator
		}

		entry := map[string]interface{}{"details": event.Details(creator)}
		if user != nil {
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
			entry["has_liked"] = hasLiked
			entry["rsvped"] = rsvped
			entry["attended"] = attended
		}
		list = append(list, entry)
	}

	totalPages := (total + repository.FeedPageSize - 1) / repository.FeedPageSize

	utils.ResponseJSON(w, http.StatusOK, map[string]interface{}{
		"count":       total,
		"total_pages": totalPages,
		"page":        query.Page,
		"events":      list,
	})
}

// PublicFeed serves the published-upcoming feed without per-user
// flags.
func (c *Controller) PublicFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.feedPage(w, r, nil)
	}
}

// PersonalisedFeed serves the same feed with the caller's interaction
// flags on each event.
func (c *Controller) PersonalisedFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.feedPage(w, r, middleware.UserFrom(r))
	}
}
