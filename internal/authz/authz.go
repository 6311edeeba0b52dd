// Package authz holds the scope predicates every service consults before
// reading or mutating a record on behalf of a principal.
package authz

import (
	"slices"

	"ugeco-backoffice/internal/domain"
)

// CoversCountry reports whether p may act on records located in country.
func CoversCountry(p domain.Principal, country string) bool {
	switch v := p.(type) {
	case domain.Admin:
		return true
	case domain.Subadmin:
		return slices.Contains(v.Countries, country)
	case domain.BrandManager:
		return slices.Contains(v.Countries, country)
	case domain.Creator:
		return slices.Contains(v.Countries, country)
	}
	return false
}

// CoversCountries reports whether every country is within p's scope.
func CoversCountries(p domain.Principal, countries []string) bool {
	for _, c := range countries {
		if !CoversCountry(p, c) {
			return false
		}
	}
	return true
}

// SharesCountry reports whether at least one of countries is within p's scope.
func SharesCountry(p domain.Principal, countries []string) bool {
	if _, ok := p.(domain.Admin); ok {
		return true
	}
	for _, c := range countries {
		if CoversCountry(p, c) {
			return true
		}
	}
	return false
}

// CoversBrand reports whether p may manage brand. Creators never manage brands.
// Callers must reject archived brands before asking.
func CoversBrand(p domain.Principal, brand *domain.Brand) bool {
	switch v := p.(type) {
	case domain.Admin:
		return true
	case domain.Subadmin:
		return slices.Contains(v.Countries, brand.Country)
	case domain.BrandManager:
		return slices.Contains(v.Brands, brand.ID)
	}
	return false
}

// CoversUser reports whether p may read or edit another account.
// Subadmins see accounts sharing a country with them, never admins.
func CoversUser(p domain.Principal, u *domain.User) bool {
	switch p.(type) {
	case domain.Admin:
		return true
	case domain.Subadmin:
		if u.Role == domain.RoleAdmin {
			return false
		}
		return SharesCountry(p, u.Countries)
	}
	return p.PrincipalID() == u.ID
}

// CanAssignRole reports whether p may create or edit an account of role.
func CanAssignRole(p domain.Principal, role domain.Role) bool {
	switch p.(type) {
	case domain.Admin:
		return role.Valid()
	case domain.Subadmin:
		return role == domain.RoleCreator || role == domain.RoleBrandManager || role == domain.RoleSubadmin
	}
	return false
}

// IsAdmin reports whether p is the unrestricted administrator.
func IsAdmin(p domain.Principal) bool {
	_, ok := p.(domain.Admin)
	return ok
}
