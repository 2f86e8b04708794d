// Package property models the archive state of vendor listings. Listing
// content lives elsewhere.
package property

import (
	"context"
	"time"
)

// ArchiveReasonFreeListingExpired is set when a free listing lapses.
const ArchiveReasonFreeListingExpired = "Free listing period expired"

type Property struct {
	id                   uint
	ownerID              uint
	archived             bool
	archivedAt           *time.Time
	archivedReason       *string
	isFreeListing        bool
	freeListingExpiresAt *time.Time
}

type ReconstructParams struct {
	ID                   uint
	OwnerID              uint
	Archived             bool
	ArchivedAt           *time.Time
	ArchivedReason       *string
	IsFreeListing        bool
	FreeListingExpiresAt *time.Time
}

func ReconstructProperty(p ReconstructParams) *Property {
	return &Property{
		id:                   p.ID,
		ownerID:              p.OwnerID,
		archived:             p.Archived,
		archivedAt:           p.ArchivedAt,
		archivedReason:       p.ArchivedReason,
		isFreeListing:        p.IsFreeListing,
		freeListingExpiresAt: p.FreeListingExpiresAt,
	}
}

func (p *Property) ID() uint                         { return p.id }
func (p *Property) OwnerID() uint                    { return p.ownerID }
func (p *Property) IsArchived() bool                 { return p.archived }
func (p *Property) ArchivedAt() *time.Time           { return p.archivedAt }
func (p *Property) ArchivedReason() *string          { return p.archivedReason }
func (p *Property) IsFreeListing() bool              { return p.isFreeListing }
func (p *Property) FreeListingExpiresAt() *time.Time { return p.freeListingExpiresAt }

// Unarchive releases the listing as a paid one. Free listing markers are
// cleared because the owner now holds a subscription.
func (p *Property) Unarchive() {
	p.archived = false
	p.archivedAt = nil
	p.archivedReason = nil
	p.isFreeListing = false
	p.freeListingExpiresAt = nil
}

type Repository interface {
	// UnarchiveByOwner applies Unarchive to every archived listing of ownerID
	// in one statement and returns the number of rows changed.
	UnarchiveByOwner(ctx context.Context, ownerID uint) (int64, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*Property, error)
}
