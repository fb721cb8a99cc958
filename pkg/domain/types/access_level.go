package types

import "fmt"

// AccessLevel is what an unlock code grants
type AccessLevel string

const (
	AccessLevelLocked AccessLevel = "LOCKED"
	AccessLevelUser   AccessLevel = "USER"
	AccessLevelAdmin  AccessLevel = "ADMIN"
)

// AllAccessLevels returns all valid access levels
func AllAccessLevels() []AccessLevel {
	return []AccessLevel{
		AccessLevelLocked,
		AccessLevelUser,
		AccessLevelAdmin,
	}
}

// IsValid checks if the access level is valid
func (l AccessLevel) IsValid() bool {
	switch l {
	case AccessLevelLocked,
		AccessLevelUser,
		AccessLevelAdmin:
		return true
	default:
		return false
	}
}

// Allows reports whether l grants at least required. ADMIN implies USER.
func (l AccessLevel) Allows(required AccessLevel) bool {
	return l.rank() >= required.rank()
}

func (l AccessLevel) rank() int {
	switch l {
	case AccessLevelUser:
		return 1
	case AccessLevelAdmin:
		return 2
	default:
		return 0
	}
}

// String returns the string representation of the access level
func (l AccessLevel) String() string {
	return string(l)
}

// ParseAccessLevel parses a string into an AccessLevel
func ParseAccessLevel(s string) (AccessLevel, error) {
	level := AccessLevel(s)
	if !level.IsValid() {
		return "", fmt.Errorf("invalid access level: %s", s)
	}
	return level, nil
}
