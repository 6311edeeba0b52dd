package domain

import "time"

type Offer struct {
	ID              int32       `json:"id"`
	BrandID         int32       `json:"brand"`
	Name            string      `json:"name"`
	Status          OfferStatus `json:"status"`
	IsArchived      bool        `json:"isArchived"`
	PaidCooperation bool        `json:"paidCooperation"`
	ActiveFrom      *time.Time  `json:"activeFrom"`
	ActiveTo        *time.Time  `json:"activeTo"`
	Categories      []string    `json:"categories"`
	Languages       []string    `json:"languages"`
	Targets         []string    `json:"targets"`
	Image           string      `json:"image"`
	Description     string      `json:"description"`
	Contact         string      `json:"contact"`
	Socials
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayStatus reports "ended" for an active offer whose window has passed.
func (o *Offer) DisplayStatus(now time.Time) DisplayStatus {
	if o.Status == OfferStatusConcept {
		return DisplayConcept
	}
	if o.ActiveTo != nil && now.After(*o.ActiveTo) {
		return DisplayEnded
	}
	return DisplayActive
}

// Validate checks the rules that hold for every stored offer.
func (o *Offer) Validate() error {
	if o.ActiveFrom != nil && o.ActiveTo != nil && !o.ActiveFrom.Before(*o.ActiveTo) {
		return BadRequest(CodeInvalidDateRange, "activeFrom must be before activeTo")
	}
	if o.Status != OfferStatusConcept && o.Image == "" {
		return BadRequest(CodeImageRequired, "Image is required for non-concept offers")
	}
	return nil
}

// OfferFilter narrows the creator listing. Slice filters match any element.
type OfferFilter struct {
	Countries       []string
	Categories      []string
	Targets         []string
	Languages       []string
	PaidCooperation *bool
}

// OfferStats summarises the offer catalogue.
type OfferStats struct {
	TotalOffers   int64 `json:"totalOffers"`
	ActiveOffers  int64 `json:"activeOffers"`
	CreatorsCount int64 `json:"creatorsCount"`
}
