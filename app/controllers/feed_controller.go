package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"nitready/app/models"
	"nitready/app/services"
	"nitready/app/store"
)

// FeedController handles HTTP requests against the feed.
type FeedController struct {
	feed *services.FeedService
}

// NewFeedController creates a new FeedController.
func NewFeedController(feed *services.FeedService) *FeedController {
	return &FeedController{feed: feed}
}

// Index returns the current feed snapshot, optionally filtered by category.
func (fc *FeedController) Index(w http.ResponseWriter, r *http.Request) {
	posts := fc.feed.GetPosts()

	if category := r.URL.Query().Get("category"); category != "" && category != "all" {
		filtered := make([]*models.Post, 0, len(posts))
		for _, post := range posts {
			if post.Category == models.Category(category) {
				filtered = append(filtered, post)
			}
		}
		posts = filtered
	}

	writeJSON(w, http.StatusOK, posts)
}

// Create publishes a new post from a draft.
func (fc *FeedController) Create(w http.ResponseWriter, r *http.Request) {
	var draft models.PostDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := fc.feed.AddPost(&draft)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// Engage applies an engagement mutation to the identified post.
func (fc *FeedController) Engage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body struct {
		Kind models.EngagementKind `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := fc.feed.UpdateEngagement(id, body.Kind); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stream pushes the feed to the client as server-sent events: one snapshot
// event on connect, then one per mutation, until the client disconnects.
func (fc *FeedController) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Buffered so the broker never blocks on a slow client; snapshots the
	// client cannot keep up with are dropped in favor of newer ones.
	updates := make(chan []*models.Post, 8)
	cancel := fc.feed.Subscribe(func(snapshot []*models.Post) {
		select {
		case updates <- snapshot:
		default:
		}
	})
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot := <-updates:
			data, err := json.Marshal(snapshot)
			if err != nil {
				log.Printf("feed: encoding stream snapshot failed: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("feed: encoding response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
