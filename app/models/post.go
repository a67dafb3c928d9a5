package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// excerptLength is how much of the content the feed card shows.
const excerptLength = 200

// Counter returns the counter the engagement kind increments, or false for
// an unknown kind.
func (k EngagementKind) Counter() (Counter, bool) {
	switch k {
	case EngagementUpvote:
		return CounterUpvotes, true
	case EngagementDownvote:
		return CounterDownvotes, true
	case EngagementComment:
		return CounterComments, true
	case EngagementBookmark:
		return CounterBookmarks, true
	}
	return "", false
}

// Sanitize trims whitespace from the draft's text fields and drops empty
// tags, so validation sees what would actually be stored.
func (d *PostDraft) Sanitize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.Company = strings.TrimSpace(d.Company)
	d.Role = strings.TrimSpace(d.Role)

	tags := d.Tags[:0]
	for _, tag := range d.Tags {
		if t := strings.TrimSpace(tag); t != "" {
			tags = append(tags, t)
		}
	}
	d.Tags = tags
}

// Validate checks the draft's required fields and enum values.
func (d *PostDraft) Validate() error {
	return validate.Struct(d)
}

// Validate checks if the post meets all validation requirements.
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.PublishedAt.IsZero() {
		return errors.New("publishedAt cannot be zero")
	}
	if p.UpdatedAt.Before(p.PublishedAt) {
		return errors.New("updatedAt cannot precede publishedAt")
	}

	return nil
}

// Clone returns a deep copy of the post. Slices and the salary record are
// duplicated so the copy shares no mutable state with the original.
func (p *Post) Clone() *Post {
	clone := *p
	if p.Tags != nil {
		clone.Tags = append([]string(nil), p.Tags...)
	}
	if p.Salary != nil {
		salary := *p.Salary
		clone.Salary = &salary
	}
	return &clone
}

// Excerpt derives the feed-card preview from full post content.
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength]) + "..."
}
