package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/islmaice/connect/internal/apperrors"
	"github.com/islmaice/connect/internal/auth"
	"github.com/islmaice/connect/internal/clock"
	"github.com/islmaice/connect/internal/config"
	"github.com/islmaice/connect/internal/handlers"
	"github.com/islmaice/connect/internal/messaging"
	"github.com/islmaice/connect/internal/metrics"
	"github.com/islmaice/connect/internal/middleware"
	"github.com/islmaice/connect/internal/profiles"
	"github.com/islmaice/connect/internal/store/sqlstore"
)

// newRouter wires the services and HTTP routes. The returned func stops
// background work owned by the router.
func newRouter(cfg *config.Config, store *sqlstore.SQLStore, c clock.Clock) (http.Handler, func()) {
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, c)
	sendLimiter := middleware.NewUserRateLimiter("send_message", cfg.SendRatePerMinute, cfg.SendBurst, c)

	authHandler := &handlers.AuthHandler{Store: store, Sessions: sessions, Clock: c}
	messageHandler := &handlers.MessageHandler{Messages: messaging.NewService(store, c)}
	profileHandler := &handlers.ProfileHandler{Profiles: profiles.NewService(store, cfg.ProfilePageSize)}

	r := mux.NewRouter()
	r.Use(middleware.TagRoute)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apperrors.Write(w, apperrors.ErrNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apperrors.Write(w, apperrors.New(http.StatusMethodNotAllowed, "Method not allowed"))
	})

	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.HandleFunc("/healthz", metrics.HealthHandler(store, Version)).Methods("GET")

	r.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	api := r.NewRoute().Subrouter()
	api.Use(middleware.AuthMiddleware(sessions))

	api.HandleFunc("/messages", messageHandler.Inbox).Methods("GET")
	api.HandleFunc("/messages/unread", messageHandler.Unread).Methods("GET")
	api.HandleFunc("/messages/thread/{id:[0-9]+}", messageHandler.Thread).Methods("GET")
	api.Handle("/messages/thread/{id:[0-9]+}", sendLimiter.Middleware(http.HandlerFunc(messageHandler.Send))).Methods("POST")
	api.HandleFunc("/messages/start/{userID:[0-9]+}", messageHandler.Start).Methods("GET")

	api.HandleFunc("/profiles", profileHandler.List).Methods("GET")
	api.HandleFunc("/profiles/{id:[0-9]+}", profileHandler.Detail).Methods("GET")

	return middleware.LoggingMiddleware(middleware.RecoverMiddleware(r)), sendLimiter.Stop
}
