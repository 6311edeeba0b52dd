package service

import (
	"time"

	"ugeco-backoffice/internal/domain"
)

// Request payloads. The validate tags are checked by the transport before a
// payload reaches a service; pointer fields in *Patch types mean "unchanged"
// when nil.

type PackageInput struct {
	Name           string             `json:"name" validate:"required,max=255"`
	ValidityMonths int32              `json:"validityMonths" validate:"gt=0"`
	OffersCount    int32              `json:"offersCount" validate:"gte=0"`
	Type           domain.PackageType `json:"type" validate:"required,oneof=creator brand"`
}

type PackagePatch struct {
	Name           *string             `json:"name" validate:"omitempty,min=1,max=255"`
	ValidityMonths *int32              `json:"validityMonths" validate:"omitempty,gt=0"`
	OffersCount    *int32              `json:"offersCount" validate:"omitempty,gte=0"`
	Type           *domain.PackageType `json:"type" validate:"omitempty,oneof=creator brand"`
}

// SocialsPatch updates individual public links.
type SocialsPatch struct {
	Website   *string `json:"website" validate:"omitempty,max=512"`
	Facebook  *string `json:"facebook" validate:"omitempty,max=512"`
	Instagram *string `json:"instagram" validate:"omitempty,max=512"`
	TikTok    *string `json:"tiktok" validate:"omitempty,max=512"`
	Pinterest *string `json:"pinterest" validate:"omitempty,max=512"`
	YouTube   *string `json:"youtube" validate:"omitempty,max=512"`
}

func (p SocialsPatch) apply(s *domain.Socials) {
	setString(&s.Website, p.Website)
	setString(&s.Facebook, p.Facebook)
	setString(&s.Instagram, p.Instagram)
	setString(&s.TikTok, p.TikTok)
	setString(&s.Pinterest, p.Pinterest)
	setString(&s.YouTube, p.YouTube)
}

type BrandInput struct {
	Name        string   `json:"name" validate:"required,max=255"`
	ICO         string   `json:"ico" validate:"max=32"`
	Address     string   `json:"address" validate:"max=255"`
	City        string   `json:"city" validate:"max=128"`
	Zip         string   `json:"zip" validate:"max=16"`
	Country     string   `json:"country" validate:"required,country"`
	Categories  []string `json:"categories" validate:"omitempty,dive,category"`
	Package     *int32   `json:"package" validate:"omitempty,gt=0"`
	MainContact *int32   `json:"mainContact" validate:"omitempty,gt=0"`
	Logo        string   `json:"logo"`
	domain.Socials
}

type BrandPatch struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=255"`
	ICO          *string  `json:"ico" validate:"omitempty,max=32"`
	Address      *string  `json:"address" validate:"omitempty,max=255"`
	City         *string  `json:"city" validate:"omitempty,max=128"`
	Zip          *string  `json:"zip" validate:"omitempty,max=16"`
	Country      *string  `json:"country" validate:"omitempty,country"`
	Categories   []string `json:"categories" validate:"omitempty,dive,category"`
	Package      *int32   `json:"package" validate:"omitempty,gt=0"`
	ClearPackage bool     `json:"clearPackage"`
	MainContact  *int32   `json:"mainContact" validate:"omitempty,gt=0"`
	Logo         *string  `json:"logo"`
	SocialsPatch
}

type OfferInput struct {
	BrandID         int32              `json:"brand" validate:"required,gt=0"`
	Name            string             `json:"name" validate:"required,max=255"`
	Status          domain.OfferStatus `json:"status" validate:"required,oneof=concept active"`
	PaidCooperation bool               `json:"paidCooperation"`
	ActiveFrom      *time.Time         `json:"activeFrom"`
	ActiveTo        *time.Time         `json:"activeTo"`
	Categories      []string           `json:"categories" validate:"omitempty,dive,category"`
	Languages       []string           `json:"languages" validate:"omitempty,dive,language"`
	Targets         []string           `json:"targets" validate:"omitempty,dive,target"`
	Image           string             `json:"image"`
	Description     string             `json:"description" validate:"max=5000"`
	Contact         string             `json:"contact" validate:"max=255"`
	domain.Socials
}

type OfferPatch struct {
	Name            *string             `json:"name" validate:"omitempty,min=1,max=255"`
	Status          *domain.OfferStatus `json:"status" validate:"omitempty,oneof=concept active"`
	PaidCooperation *bool               `json:"paidCooperation"`
	ActiveFrom      *time.Time          `json:"activeFrom"`
	ActiveTo        *time.Time          `json:"activeTo"`
	Categories      []string            `json:"categories" validate:"omitempty,min=1,dive,category"`
	Languages       []string            `json:"languages" validate:"omitempty,min=1,dive,language"`
	Targets         []string            `json:"targets" validate:"omitempty,min=1,dive,target"`
	Image           *string             `json:"image"`
	Description     *string             `json:"description" validate:"omitempty,max=5000"`
	Contact         *string             `json:"contact" validate:"omitempty,max=255"`
	SocialsPatch
}

// OfferQuery holds the optional creator listing filters.
type OfferQuery struct {
	Categories      []string `validate:"omitempty,dive,category"`
	Targets         []string `validate:"omitempty,dive,target"`
	Languages       []string `validate:"omitempty,dive,language"`
	PaidCooperation *bool
}

type UserInput struct {
	Name      string      `json:"name" validate:"required,max=255"`
	SurName   string      `json:"surName" validate:"required,max=255"`
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"omitempty,min=6"`
	Role      domain.Role `json:"role" validate:"required,oneof=admin subadmin brand_manager creator"`
	Countries []string    `json:"countries" validate:"omitempty,dive,country"`
	Brands    []int32     `json:"brands" validate:"omitempty,dive,gt=0"`
	Package   *int32      `json:"package" validate:"omitempty,gt=0"`
	ICO       string      `json:"ico" validate:"max=32"`
}

type UserPatch struct {
	Name      *string      `json:"name" validate:"omitempty,min=1,max=255"`
	SurName   *string      `json:"surName" validate:"omitempty,min=1,max=255"`
	Email     *string      `json:"email" validate:"omitempty,email"`
	Password  *string      `json:"password" validate:"omitempty,min=6"`
	Role      *domain.Role `json:"role" validate:"omitempty,oneof=admin subadmin brand_manager creator"`
	Countries []string     `json:"countries" validate:"omitempty,dive,country"`
	Brands    []int32      `json:"brands" validate:"omitempty,dive,gt=0"`
	Package   *int32       `json:"package" validate:"omitempty,gt=0"`
	ICO       *string      `json:"ico" validate:"omitempty,max=32"`
}

// SelfPatch is what any signed-in user may change on their own account.
type SelfPatch struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	SurName  *string `json:"surName" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type BrandManagerInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	SurName string `json:"surName" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
}

type ProfileInput struct {
	Name       string   `json:"name" validate:"required,max=255"`
	Languages  []string `json:"languages" validate:"required,min=1,dive,country"`
	Categories []string `json:"categories" validate:"required,min=1,dive,category"`
	CreatingAs []string `json:"creatingAs" validate:"required,min=1,dive,target"`
	Image      string   `json:"image" validate:"required"`
	About      string   `json:"about" validate:"required,max=5000"`
	Portfolio  string   `json:"portfolio" validate:"required,max=512"`
	Instagram  string   `json:"instagram" validate:"max=512"`
	Pinterest  string   `json:"pinterest" validate:"max=512"`
	Facebook   string   `json:"facebook" validate:"max=512"`
	TikTok     string   `json:"tiktok" validate:"max=512"`
	YouTube    string   `json:"youtube" validate:"max=512"`
	Published  bool     `json:"published"`
}

type ProfilePatch struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Languages  []string `json:"languages" validate:"omitempty,min=1,dive,country"`
	Categories []string `json:"categories" validate:"omitempty,min=1,dive,category"`
	CreatingAs []string `json:"creatingAs" validate:"omitempty,min=1,dive,target"`
	Image      *string  `json:"image" validate:"omitempty,min=1"`
	About      *string  `json:"about" validate:"omitempty,min=1,max=5000"`
	Portfolio  *string  `json:"portfolio" validate:"omitempty,min=1,max=512"`
	Instagram  *string  `json:"instagram" validate:"omitempty,max=512"`
	Pinterest  *string  `json:"pinterest" validate:"omitempty,max=512"`
	Facebook   *string  `json:"facebook" validate:"omitempty,max=512"`
	TikTok     *string  `json:"tiktok" validate:"omitempty,max=512"`
	YouTube    *string  `json:"youtube" validate:"omitempty,max=512"`
	Published  *bool    `json:"published"`
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
