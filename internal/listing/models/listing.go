package models

import (
	"time"

	dErrors "modqueue/pkg/domain-errors"
)

// Workflow states for a listing. PatchStatus deliberately does not validate
// against these: downstream consumers branch on unknown values too, and the
// write path has always stored them verbatim.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	// StatusAll is the filter sentinel meaning "no status filter".
	StatusAll = "all"
)

// Listing is a moderated submission.
type Listing struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	Features    []string  `json:"features"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Clone returns a copy whose Features slice is independent of the original,
// so snapshots handed to callers never alias store state.
func (l Listing) Clone() Listing {
	if l.Features != nil {
		l.Features = append([]string(nil), l.Features...)
	}
	return l
}

// AsMap renders the listing with its JSON field names. Audit events store the
// pre-mutation snapshot in this form.
func (l Listing) AsMap() map[string]any {
	return map[string]any{
		"id":          l.ID,
		"title":       l.Title,
		"description": l.Description,
		"location":    l.Location,
		"price":       l.Price,
		"features":    append([]string(nil), l.Features...),
		"status":      l.Status,
		"submittedAt": l.SubmittedAt,
	}
}

// Fields carries the caller-supplied values for a new listing. ID, status and
// submission time are assigned by the store.
type Fields struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Price       float64  `json:"price"`
	Features    []string `json:"features"`
}

// Validate enforces the required field set for inserts.
func (f Fields) Validate() error {
	switch {
	case f.Title == "":
		return dErrors.New(dErrors.CodeValidation, "title is required")
	case f.Description == "":
		return dErrors.New(dErrors.CodeValidation, "description is required")
	case f.Location == "":
		return dErrors.New(dErrors.CodeValidation, "location is required")
	case f.Price < 0:
		return dErrors.New(dErrors.CodeValidation, "price must not be negative")
	}
	return nil
}

// Update is a shallow field patch: nil means leave the field untouched.
type Update struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Price       *float64  `json:"price"`
	Features    *[]string `json:"features"`
	Status      *string   `json:"status"`
}

// Validate rejects patches that would violate listing invariants.
func (u Update) Validate() error {
	if u.Price != nil && *u.Price < 0 {
		return dErrors.New(dErrors.CodeValidation, "price must not be negative")
	}
	return nil
}

// IsEmpty reports whether the patch carries no fields at all.
func (u Update) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Location == nil &&
		u.Price == nil && u.Features == nil && u.Status == nil
}

// Apply merges the present fields onto l. SubmittedAt and ID are never
// touched.
func (u Update) Apply(l *Listing) {
	if u.Title != nil {
		l.Title = *u.Title
	}
	if u.Description != nil {
		l.Description = *u.Description
	}
	if u.Location != nil {
		l.Location = *u.Location
	}
	if u.Price != nil {
		l.Price = *u.Price
	}
	if u.Features != nil {
		l.Features = append([]string(nil), *u.Features...)
	}
	if u.Status != nil {
		l.Status = *u.Status
	}
}

// Fields renders only the present fields with their JSON names, for the
// audit event's changes column.
func (u Update) Fields() map[string]any {
	changes := map[string]any{}
	if u.Title != nil {
		changes["title"] = *u.Title
	}
	if u.Description != nil {
		changes["description"] = *u.Description
	}
	if u.Location != nil {
		changes["location"] = *u.Location
	}
	if u.Price != nil {
		changes["price"] = *u.Price
	}
	if u.Features != nil {
		changes["features"] = append([]string(nil), *u.Features...)
	}
	if u.Status != nil {
		changes["status"] = *u.Status
	}
	return changes
}
