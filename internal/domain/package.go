package domain

import "time"

// Package is a purchasable plan granting offer slots for a number of months.
type Package struct {
	ID             int32       `json:"id"`
	Name           string      `json:"name"`
	ValidityMonths int32       `json:"validityMonths"`
	OffersCount    int32       `json:"offersCount"`
	Type           PackageType `json:"type"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// ExpiresAt returns the end of the validity window that starts at purchasedAt.
func (p *Package) ExpiresAt(purchasedAt time.Time) time.Time {
	return purchasedAt.AddDate(0, int(p.ValidityMonths), 0)
}

// IsValidAt reports whether now lies inside [purchasedAt, purchasedAt+validityMonths].
func (p *Package) IsValidAt(purchasedAt, now time.Time) bool {
	return !now.After(p.ExpiresAt(purchasedAt))
}
