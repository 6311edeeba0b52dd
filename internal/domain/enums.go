package domain

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleSubadmin     Role = "subadmin"
	RoleBrandManager Role = "brand_manager"
	RoleCreator      Role = "creator"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSubadmin, RoleBrandManager, RoleCreator:
		return true
	}
	return false
}

// Country codes a record can be scoped to.
const (
	CountrySK = "SK"
	CountryCZ = "CZ"
	CountryPL = "PL"
	CountryDE = "DE"
	CountryHU = "HU"
	CountryAT = "AT"
)

var Countries = []string{CountrySK, CountryCZ, CountryPL, CountryDE, CountryHU, CountryAT}

var Categories = []string{
	"apps_and_technology",
	"auto_moto",
	"travelling",
	"home_and_garden",
	"electronics",
	"games",
	"music_and_dance",
	"food_and_drinks",
	"books",
	"cosmetics",
	"fashion",
	"family_and_kids",
	"services",
	"sport",
	"experiences",
	"health",
	"animals",
	"lifestyle",
}

var OfferLanguages = []string{"sk", "en", "cz", "pl", "de", "hu", "it", "es"}

var OfferTargets = []string{"man", "woman", "child", "family", "couple", "friends", "animal"}

type PackageType string

const (
	PackageTypeCreator PackageType = "creator"
	PackageTypeBrand   PackageType = "brand"
)

type OfferStatus string

const (
	OfferStatusConcept OfferStatus = "concept"
	OfferStatusActive  OfferStatus = "active"
)

// DisplayStatus is derived from the stored status and the activity window.
type DisplayStatus string

const (
	DisplayConcept DisplayStatus = "concept"
	DisplayActive  DisplayStatus = "active"
	DisplayEnded   DisplayStatus = "ended"
)
