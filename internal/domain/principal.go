package domain

import "fmt"

// Principal is the authenticated caller. Exactly one of Admin, Subadmin,
// BrandManager or Creator implements it.
type Principal interface {
	PrincipalID() int32
	PrincipalRole() Role
	isPrincipal()
}

type Admin struct {
	ID int32
}

type Subadmin struct {
	ID        int32
	Countries []string
}

type BrandManager struct {
	ID        int32
	Countries []string
	Brands    []int32
}

type Creator struct {
	ID        int32
	Countries []string
	Package   *int32
}

func (a Admin) PrincipalID() int32        { return a.ID }
func (s Subadmin) PrincipalID() int32     { return s.ID }
func (b BrandManager) PrincipalID() int32 { return b.ID }
func (c Creator) PrincipalID() int32      { return c.ID }

func (Admin) PrincipalRole() Role        { return RoleAdmin }
func (Subadmin) PrincipalRole() Role     { return RoleSubadmin }
func (BrandManager) PrincipalRole() Role { return RoleBrandManager }
func (Creator) PrincipalRole() Role      { return RoleCreator }

func (Admin) isPrincipal()        {}
func (Subadmin) isPrincipal()     {}
func (BrandManager) isPrincipal() {}
func (Creator) isPrincipal()      {}

// NewPrincipal builds the variant matching role. Scope slices are copied.
func NewPrincipal(id int32, role Role, countries []string, brands []int32, pkg *int32) (Principal, error) {
	switch role {
	case RoleAdmin:
		return Admin{ID: id}, nil
	case RoleSubadmin:
		return Subadmin{ID: id, Countries: cloneStrings(countries)}, nil
	case RoleBrandManager:
		return BrandManager{ID: id, Countries: cloneStrings(countries), Brands: cloneIDs(brands)}, nil
	case RoleCreator:
		return Creator{ID: id, Countries: cloneStrings(countries), Package: pkg}, nil
	}
	return nil, fmt.Errorf("unknown role %q", role)
}

// PrincipalFromUser derives the caller identity from a stored user.
func PrincipalFromUser(u *User) (Principal, error) {
	return NewPrincipal(u.ID, u.Role, u.Countries, u.Brands, u.PackageID)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneIDs(in []int32) []int32 {
	if in == nil {
		return nil
	}
	return append([]int32(nil), in...)
}
