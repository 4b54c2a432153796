package transcripts

import "fmt"

// Ownership records whether a cached video belongs to the
// authenticated channel. Unknown covers records cached before the
// owning channel could be determined.
type Ownership string

const (
	OwnershipOwn      Ownership = "own"
	OwnershipExternal Ownership = "external"
	OwnershipUnknown  Ownership = "unknown"
)

// Valid reports whether the value is one of the three known states.
func (o Ownership) Valid() bool {
	switch o {
	case OwnershipOwn, OwnershipExternal, OwnershipUnknown:
		return true
	}
	return false
}

// Normalize maps empty or unrecognized values to unknown so older
// cache files keep loading.
func (o Ownership) Normalize() Ownership {
	if o.Valid() {
		return o
	}
	return OwnershipUnknown
}

func (o Ownership) String() string {
	return string(o)
}

// ParseOwnership converts a stored string, rejecting anything outside
// the three states.
func ParseOwnership(s string) (Ownership, error) {
	o := Ownership(s)
	if !o.Valid() {
		return OwnershipUnknown, fmt.Errorf("unknown ownership %q", s)
	}
	return o, nil
}
