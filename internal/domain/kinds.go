package domain

// EntityKind selects which projection and facet shape a request operates on.
type EntityKind string

const (
	KindPerson   EntityKind = "person"
	KindLocation EntityKind = "location"
)

// ParseEntityKind maps a request parameter onto a known base kind.
// Anything unrecognised falls back to person, matching the original API.
func ParseEntityKind(raw string) EntityKind {
	if raw == string(KindLocation) {
		return KindLocation
	}
	return KindPerson
}

// AccessType describes what a grant lets its group do with a resource.
type AccessType string

const (
	AccessRead        AccessType = "read"
	AccessExport      AccessType = "export"
	AccessWrite       AccessType = "write"
	AccessCreate      AccessType = "create"
	AccessFullControl AccessType = "fullControl"
)

// AllowsRead reports whether the access type includes read visibility.
// Grants arriving through the gateway header carry no access type; an
// empty value means read.
func (a AccessType) AllowsRead() bool {
	switch a {
	case "", AccessRead, AccessExport, AccessWrite, AccessFullControl:
		return true
	}
	return false
}

// AllowsExport reports whether the access type permits file exports.
func (a AccessType) AllowsExport() bool {
	return a == AccessExport || a == AccessFullControl
}
