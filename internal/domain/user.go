package domain

import (
	"slices"
	"strings"
	"time"
)

type User struct {
	ID           int32      `json:"id"`
	Name         string     `json:"name"`
	SurName      string     `json:"surName"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Countries    []string   `json:"countries"`
	Brands       []int32    `json:"brands"`
	PackageID    *int32     `json:"package"`
	PurchasedAt  *time.Time `json:"purchasedAt"`
	ICO          string     `json:"ico,omitempty"`

	ResetTokenDigest  string     `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	InitTokenDigest   string     `json:"-"`
	InitTokenExpires  *time.Time `json:"-"`

	IsArchived bool       `json:"isArchived"`
	ArchivedAt *time.Time `json:"archivedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NormalizeEmail is applied to every stored and looked-up address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ApplyRoleShape enforces the per-role field table: required fields must be
// present and fields that do not belong to the role are cleared.
//
//	creator        package, countries
//	brand_manager  brands, countries
//	subadmin       countries
//	admin          -
func (u *User) ApplyRoleShape() error {
	switch u.Role {
	case RoleCreator:
		if u.PackageID == nil {
			return BadRequest(CodeMissingRoleField, "Creator requires a package")
		}
		if len(u.Countries) == 0 {
			return BadRequest(CodeMissingRoleField, "Creator requires at least one country")
		}
		u.Brands = nil
	case RoleBrandManager:
		if len(u.Brands) == 0 {
			return BadRequest(CodeMissingRoleField, "Brand manager requires at least one brand")
		}
		if len(u.Countries) == 0 {
			return BadRequest(CodeMissingRoleField, "Brand manager requires at least one country")
		}
		u.PackageID = nil
		u.PurchasedAt = nil
	case RoleSubadmin:
		if len(u.Countries) == 0 {
			return BadRequest(CodeMissingRoleField, "Subadmin requires at least one country")
		}
		u.Brands = nil
		u.PackageID = nil
		u.PurchasedAt = nil
	case RoleAdmin:
		u.Countries = nil
		u.Brands = nil
		u.PackageID = nil
		u.PurchasedAt = nil
	default:
		return BadRequest(CodeInvalidRole, "Unknown role")
	}
	return nil
}

// Archive marks the user archived. Repeating it is an error.
func (u *User) Archive(now time.Time) error {
	if u.IsArchived {
		return BadRequest(CodeAlreadyArchived, "User is already archived")
	}
	u.IsArchived = true
	u.ArchivedAt = &now
	return nil
}

// Restore clears the archive flag. Restoring an active user is an error.
func (u *User) Restore() error {
	if !u.IsArchived {
		return BadRequest(CodeNotArchived, "User is not archived")
	}
	u.IsArchived = false
	u.ArchivedAt = nil
	return nil
}

// HasBrand reports whether brandID is among the user's grants.
func (u *User) HasBrand(brandID int32) bool {
	return slices.Contains(u.Brands, brandID)
}

// CreatorProfile is the public portfolio a creator maintains.
type CreatorProfile struct {
	ID         int32    `json:"id"`
	UserID     int32    `json:"user"`
	Name       string   `json:"name"`
	Languages  []string `json:"languages"`
	Categories []string `json:"categories"`
	CreatingAs []string `json:"creatingAs"`
	Image      string   `json:"image"`
	About      string   `json:"about"`
	Portfolio  string   `json:"portfolio"`
	Instagram  string   `json:"instagram"`
	Pinterest  string   `json:"pinterest"`
	Facebook   string   `json:"facebook"`
	TikTok     string   `json:"tiktok"`
	YouTube    string   `json:"youtube"`
	Published  bool     `json:"published"`
}
