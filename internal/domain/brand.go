package domain

import "time"

type Brand struct {
	ID          int32      `json:"id"`
	Name        string     `json:"name"`
	ICO         string     `json:"ico"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	Zip         string     `json:"zip"`
	Country     string     `json:"country"`
	Categories  []string   `json:"categories"`
	PackageID   *int32     `json:"package"`
	PurchasedAt *time.Time `json:"purchasedAt"`
	OffersCount int32      `json:"offersCount"`
	OfferIDs    []int32    `json:"offers"`
	MainContact *int32     `json:"mainContact"`
	Logo        string     `json:"logo"`
	Socials
	IsArchived bool      `json:"isArchived"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Socials are the public links shared by brands and offers.
type Socials struct {
	Website   string `json:"website"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	TikTok    string `json:"tiktok"`
	Pinterest string `json:"pinterest"`
	YouTube   string `json:"youtube"`
}

// AssignPackage starts a new entitlement period from pkg at now.
func (b *Brand) AssignPackage(pkg *Package, now time.Time) {
	id := pkg.ID
	b.PackageID = &id
	b.PurchasedAt = &now
	b.OffersCount = pkg.OffersCount
}

// ClearPackage removes the entitlement together with its balance.
func (b *Brand) ClearPackage() {
	b.PackageID = nil
	b.PurchasedAt = nil
	b.OffersCount = 0
}

// HasPackage reports whether the brand currently holds an entitlement.
func (b *Brand) HasPackage() bool {
	return b.PackageID != nil && b.PurchasedAt != nil
}
