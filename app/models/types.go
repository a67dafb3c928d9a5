package models

import "time"

// Category classifies a feed post. The set is fixed; drafts outside it are
// rejected at validation time.
type Category string

const (
	CategoryInterviewExperience Category = "interview-experience"
	CategoryPreparationTips     Category = "preparation-tips"
	CategoryCompanyCulture      Category = "company-culture"
	CategoryCareerThoughts      Category = "career-thoughts"
	CategoryQAFormat            Category = "qa-format"
	CategoryLearning            Category = "learning"
)

// EngagementKind names a user reaction to a post. Each kind maps to exactly
// one counter.
type EngagementKind string

const (
	EngagementUpvote   EngagementKind = "upvote"
	EngagementDownvote EngagementKind = "downvote"
	EngagementComment  EngagementKind = "comment"
	EngagementBookmark EngagementKind = "bookmark"
)

// Counter identifies one of a post's engagement counters.
type Counter string

const (
	CounterUpvotes   Counter = "upvotes"
	CounterDownvotes Counter = "downvotes"
	CounterComments  Counter = "comments"
	CounterBookmarks Counter = "bookmarks"
	CounterViews     Counter = "views"
)

// Author is the subset of a user record the feed renders alongside a post.
type Author struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Avatar  string `json:"avatar,omitempty" validate:"-"`
	Company string `json:"company,omitempty" validate:"-"`
	Role    string `json:"role,omitempty" validate:"-"`
}

// SalaryRange is an optional compensation band attached to a post.
type SalaryRange struct {
	Min      int    `json:"min" validate:"gte=0"`
	Max      int    `json:"max" validate:"gtefield=Min"`
	Currency string `json:"currency" validate:"required"`
}

// Post is the unit of feed content. The ID is assigned once at creation and
// never changes; counters only move through the store's mutation path.
type Post struct {
	ID          string       `json:"id" validate:"required"`
	Title       string       `json:"title" validate:"required"`
	Content     string       `json:"content" validate:"required"`
	Excerpt     string       `json:"excerpt" validate:"-"`
	Author      Author       `json:"author"`
	Category    Category     `json:"category" validate:"required,oneof=interview-experience preparation-tips company-culture career-thoughts qa-format learning"`
	Tags        []string     `json:"tags,omitempty" validate:"-"`
	Company     string       `json:"company,omitempty" validate:"-"`
	Role        string       `json:"role,omitempty" validate:"-"`
	Difficulty  string       `json:"difficulty,omitempty" validate:"omitempty,oneof=Easy Medium Hard"`
	Salary      *SalaryRange `json:"salary,omitempty"`
	Rating      float64      `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Upvotes     int          `json:"upvotes" validate:"gte=0"`
	Downvotes   int          `json:"downvotes" validate:"gte=0"`
	Comments    int          `json:"comments" validate:"gte=0"`
	Bookmarks   int          `json:"bookmarks" validate:"gte=0"`
	Views       int          `json:"views" validate:"gte=0"`
	PublishedAt time.Time    `json:"publishedAt" validate:"required"`
	UpdatedAt   time.Time    `json:"updatedAt" validate:"required"`
	IsAnonymous bool         `json:"isAnonymous"`
}

// PostDraft is the publish input. ID, excerpt, counters, and timestamps are
// assigned by the feed service, not the caller.
type PostDraft struct {
	Title       string       `json:"title" validate:"required"`
	Content     string       `json:"content" validate:"required"`
	Category    Category     `json:"category" validate:"required,oneof=interview-experience preparation-tips company-culture career-thoughts qa-format learning"`
	Tags        []string     `json:"tags,omitempty" validate:"-"`
	Company     string       `json:"company,omitempty" validate:"-"`
	Role        string       `json:"role,omitempty" validate:"-"`
	Difficulty  string       `json:"difficulty,omitempty" validate:"omitempty,oneof=Easy Medium Hard"`
	Salary      *SalaryRange `json:"salary,omitempty"`
	Rating      float64      `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	IsAnonymous bool         `json:"isAnonymous"`
	Author      Author       `json:"author"`
}
