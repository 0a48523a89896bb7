package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"event-platform/config"
	"event-platform/controllers"
	"event-platform/driver"
	"event-platform/mailer"
	"event-platform/metrics"
	"event-platform/middleware"
	"event-platform/repository"
	"event-platform/utils"
	"event-platform/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := driver.ConnectDB(cfg.DatabaseDSN)
	defer db.Close()
	if err := driver.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	metrics.Register()

	repos := repository.New(db)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
		cfg.MailFrom, cfg.FrontendBaseURL)
	uploader := utils.NewS3Uploader(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey,
		cfg.AWSRegion, cfg.S3LogoBucket)
	controller := controllers.New(cfg, repos, smtpMailer, uploader)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	// Auth
	api.HandleFunc("/auth/register", controller.Register()).Methods("POST")
	api.HandleFunc("/auth/token", controller.ObtainAuthToken()).Methods("POST")
	api.HandleFunc("/auth/token/revoke", middleware.RequireAuth(controller.RevokeAuthToken())).Methods("POST")
	api.HandleFunc("/auth/otp/send", middleware.RequireAuth(controller.SendVerificationOTP())).Methods("POST")
	api.HandleFunc("/auth/otp/verify", middleware.RequireAuth(controller.VerifyOTP())).Methods("POST")

	// Users
	api.HandleFunc("/users", middleware.RequireAuth(controller.ListUsers())).Methods("GET")
	api.HandleFunc("/users/preferences", middleware.RequireAuth(controller.GetPreferences())).Methods("GET")
	api.HandleFunc("/users/preferences", middleware.RequireAuth(controller.UpdatePreferences())).Methods("PUT")

	// Organisations
	api.HandleFunc("/organisations", middleware.RequireAuth(controller.CreateOrganisation())).Methods("POST")
	api.HandleFunc("/organisations/mine", middleware.RequireAuth(controller.ListUserOrganisations())).Methods("GET")
	api.HandleFunc("/organisations/committee", middleware.RequireAuth(controller.AddCommitteeMembers())).Methods("POST")
	api.HandleFunc("/organisations/committee", middleware.RequireAuth(controller.RemoveCommitteeMember())).Methods("DELETE")
	api.HandleFunc("/organisations/{organisation_id}/committee", middleware.RequireAuth(controller.ListCommitteeMembers())).Methods("GET")
	api.HandleFunc("/organisations/{organisation_id}/logo", middleware.RequireAuth(controller.UploadOrganisationLogo())).Methods("POST")
	api.HandleFunc("/organisations/{organisation_id}/events", middleware.RequireAuth(controller.ListEventsByOrganisation())).Methods("GET")
	api.HandleFunc("/organisations/{organisation_id}/events", middleware.RequireAuth(controller.CreateEvent())).Methods("POST")
	api.HandleFunc("/organisations/{organisation_id}/events/import", middleware.RequireAuth(controller.ImportEventsCSV())).Methods("POST")

	// Events
	api.HandleFunc("/events/feed", controller.PublicFeed()).Methods("GET")
	api.HandleFunc("/events/feed/personalised", middleware.RequireAuth(controller.PersonalisedFeed())).Methods("GET")
	api.HandleFunc("/events/mine", middleware.RequireAuth(controller.ListEventsByUser())).Methods("GET")
	api.HandleFunc("/events/checkin", middleware.RequireAuth(controller.MarkPresent())).Methods("POST")
	api.HandleFunc("/events/{event_id}", controller.EventDetails()).Methods("GET")
	api.HandleFunc("/events/{event_id}", middleware.RequireAuth(controller.EditEvent())).Methods("PUT")
	api.HandleFunc("/events/{event_id}/publish", middleware.RequireAuth(controller.PublishEvent())).Methods("POST")
	api.HandleFunc("/events/{event_id}/cancel", middleware.RequireAuth(controller.CancelEvent())).Methods("POST")
	api.HandleFunc("/events/{event_id}/scan-id", middleware.RequireAuth(controller.GetScanID())).Methods("GET")
	api.HandleFunc("/events/{event_id}/qr", controller.EventQR()).Methods("GET")
	api.HandleFunc("/events/{event_id}/attendees", middleware.RequireAuth(controller.ListAttendees())).Methods("GET")
	api.HandleFunc("/events/{event_id}/attendees/export", middleware.RequireAuth(controller.ExportAttendeesCSV())).Methods("GET")
	api.HandleFunc("/events/{event_id}/calendar", controller.CalendarLinks()).Methods("GET")
	api.HandleFunc("/events/{event_id}/calendar.ics", controller.EventICS()).Methods("GET")
	api.HandleFunc("/events/{event_id}/notifications", middleware.RequireAuth(controller.GetNotificationConfig())).Methods("GET")
	api.HandleFunc("/events/{event_id}/notifications", middleware.RequireAuth(controller.UpdateNotificationConfig())).Methods("PUT")

	// Interactions
	api.HandleFunc("/events/{event_id}/rsvp", middleware.RequireAuth(controller.RSVP())).Methods("POST")
	api.HandleFunc("/events/{event_id}/rsvp", middleware.RequireAuth(controller.RemoveRSVP())).Methods("DELETE")
	api.HandleFunc("/events/{event_id}/interact", middleware.RequireAuth(controller.Interact())).Methods("POST")
	api.HandleFunc("/events/{event_id}/interactions", middleware.RequireAuth(controller.CheckUserInteractions())).Methods("GET")
	api.HandleFunc("/events/{event_id}/feedback", middleware.RequireAuth(controller.SubmitFeedback())).Methods("POST")
	api.HandleFunc("/events/{event_id}/feedback", middleware.RequireAuth(controller.ListFeedback())).Methods("GET")

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/healthz", controllers.Healthz(db)).Methods("GET")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.AuthTokenHeader, middleware.DeviceTokenHeader},
		AllowCredentials: true,
	})

	handler := corsHandler.Handler(
		middleware.Metrics(
			middleware.Authenticate(repos.Tokens, repos.Users)(router)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reminder := workers.NewReminderWorker(repos, smtpMailer,
		time.Duration(cfg.ReminderIntervalSeconds)*time.Second)
	go reminder.Run(ctx)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler,
	}

	go func() {
		log.Printf("server listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
