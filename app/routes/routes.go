package routes

import (
	"github.com/gorilla/mux"

	"nitready/app/controllers"
	"nitready/app/middleware"
	"nitready/app/services"
)

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(feed *services.FeedService) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)

	feedController := controllers.NewFeedController(feed)

	// API routes
	api := router.PathPrefix("/api").Subrouter()

	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", feedController.Index).Methods("GET")
	posts.HandleFunc("", feedController.Create).Methods("POST")
	posts.HandleFunc("/stream", feedController.Stream).Methods("GET")
	posts.HandleFunc("/{id}/engagement", feedController.Engage).Methods("POST")

	return router
}
