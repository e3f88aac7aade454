package model

import "time"

// Organization is the tenancy root.  Every query in the system is scoped to
// an organization through the Seat -> Floor -> Building -> Organization chain.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – display name.
//	Slug      – unique short identifier used in URLs and storage keys.
//	CreatedAt – creation timestamp.
type Organization struct {
	ID        uint64    // organizations.id
	Name      string    // organizations.name
	Slug      string    // organizations.slug
	CreatedAt time.Time // organizations.created_at
}

// Building belongs to an organization and groups floors.
type Building struct {
	ID             uint64 // buildings.id
	OrganizationID uint64 // buildings.organization_id
	Name           string // buildings.name
}

// Floor belongs to a building and owns seats.  Width/Height describe the
// floor plan canvas the fractional seat coordinates are mapped onto.
type Floor struct {
	ID         uint64  // floors.id
	BuildingID uint64  // floors.building_id
	Name       string  // floors.name
	Width      uint32  // floors.width
	Height     uint32  // floors.height
	ImageURL   *string // floors.image_url (nullable)
}

// Membership roles within an organization.
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// OrganizationMember links a user to an organization with a role.  Its
// CreatedAt drives the ordering of bulk auto-allocation candidates.
type OrganizationMember struct {
	ID             uint64    // organization_members.id
	UserID         uint64    // organization_members.user_id
	OrganizationID uint64    // organization_members.organization_id
	Role           string    // organization_members.role (ADMIN | EMPLOYEE)
	CreatedAt      time.Time // organization_members.created_at
}
