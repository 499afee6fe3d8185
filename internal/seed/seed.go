// Package seed provides the demo dataset the dashboard starts with. Seeding
// is an explicit startup call by the process owner, never a lazy side effect
// of the first request.
package seed

import (
	"context"
	"time"

	"modqueue/internal/audit"
	auditstore "modqueue/internal/audit/store"
	"modqueue/internal/listing/models"
	listingstore "modqueue/internal/listing/store"
)

// Listings returns the initial moderation queue.
func Listings() []models.Listing {
	return []models.Listing{
		{
			ID:          1,
			Title:       "Modern Apartment in City Center",
			Description: "A bright two-bedroom apartment with a balcony, walking distance from downtown shops and cafes.",
			Location:    "Downtown, Springfield",
			Price:       1250,
			Features:    []string{"Balcony", "Elevator", "Parking"},
			Status:      models.StatusPending,
			SubmittedAt: time.Date(2024, 1, 12, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:          2,
			Title:       "Cozy Studio Near University",
			Description: "Compact studio ideal for students, all utilities included.",
			Location:    "University District, Springfield",
			Price:       680,
			Features:    []string{"Furnished", "Utilities Included"},
			Status:      models.StatusApproved,
			SubmittedAt: time.Date(2024, 1, 13, 14, 40, 0, 0, time.UTC),
		},
		{
			ID:          3,
			Title:       "Suburban Family House",
			Description: "Four bedrooms, large garden, quiet street. Recently renovated kitchen.",
			Location:    "Maple Grove, Springfield",
			Price:       2100,
			Features:    []string{"Garden", "Garage", "Renovated"},
			Status:      models.StatusRejected,
			SubmittedAt: time.Date(2024, 1, 14, 11, 5, 0, 0, time.UTC),
		},
		{
			ID:          4,
			Title:       "Loft with Downtown View",
			Description: "Open-plan loft on the top floor, floor-to-ceiling windows facing the skyline.",
			Location:    "Riverside, Springfield",
			Price:       1790,
			Features:    []string{"View", "High Ceilings"},
			Status:      models.StatusPending,
			SubmittedAt: time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC),
		},
	}
}

// AuditTrail returns the initial audit entries matching the seed listings.
func AuditTrail() []audit.Event {
	return []audit.Event{
		{
			ID:        1,
			ListingID: 2,
			Action:    models.StatusApproved,
			AdminUser: "Admin User",
			Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			OldStatus: models.StatusPending,
			NewStatus: models.StatusApproved,
		},
		{
			ID:        2,
			ListingID: 3,
			Action:    models.StatusRejected,
			AdminUser: "Manager User",
			Timestamp: time.Date(2024, 1, 14, 14, 20, 0, 0, time.UTC),
			OldStatus: models.StatusPending,
			NewStatus: models.StatusRejected,
		},
	}
}

// Stores seeds both stores with the demo dataset.
func Stores(ctx context.Context, listings listingstore.Store, audits auditstore.Store) error {
	if err := listings.Seed(ctx, Listings()); err != nil {
		return err
	}
	return audits.Seed(ctx, AuditTrail())
}
