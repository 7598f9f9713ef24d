package domain

import "time"

// ResourceKind is the type of a bookable resource
type ResourceKind string

const (
	ResourceKindStaff ResourceKind = "staff"
	ResourceKindRoom  ResourceKind = "room"
)

// ResourceStatus represents the lifecycle state of a resource.
// Deletion is a status, rows are never removed.
type ResourceStatus string

const (
	ResourceActive      ResourceStatus = "active"
	ResourceInactive    ResourceStatus = "inactive"
	ResourceMaintenance ResourceStatus = "maintenance"
	ResourceOnLeave     ResourceStatus = "on_leave"
	ResourceDeleted     ResourceStatus = "deleted"
)

// IsValid reports whether the status is a known value
func (s ResourceStatus) IsValid() bool {
	switch s {
	case ResourceActive, ResourceInactive, ResourceMaintenance, ResourceOnLeave, ResourceDeleted:
		return true
	}
	return false
}

// Resource is a bookable unit: a staff member or a room
type Resource struct {
	ID        int64
	TenantID  int64
	Name      string
	Kind      ResourceKind
	Capacity  int
	Status    ResourceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable returns true only for active resources
func (r *Resource) IsBookable() bool {
	return r.Status == ResourceActive
}

// IsDeleted returns true for soft-deleted resources
func (r *Resource) IsDeleted() bool {
	return r.Status == ResourceDeleted
}
