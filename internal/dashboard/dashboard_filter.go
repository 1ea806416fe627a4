package dashboard

import (
	"fmt"
	"strings"
)

type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

type LockFilter string

const (
	LockAll      LockFilter = "all"
	LockLocked   LockFilter = "locked"
	LockUnlocked LockFilter = "unlocked"
)

// FilterCriteria is the ephemeral list filter. The zero value matches everything.
type FilterCriteria struct {
	Search string
	Status StatusFilter
	Lock   LockFilter
}

func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch s := StatusFilter(strings.ToLower(strings.TrimSpace(raw))); s {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive, StatusInactive:
		return s, nil
	default:
		return "", fmt.Errorf("unknown status filter %q", raw)
	}
}

func ParseLockFilter(raw string) (LockFilter, error) {
	switch l := LockFilter(strings.ToLower(strings.TrimSpace(raw))); l {
	case "", LockAll:
		return LockAll, nil
	case LockLocked, LockUnlocked:
		return l, nil
	default:
		return "", fmt.Errorf("unknown lock filter %q", raw)
	}
}

// Filter returns the records matching c, in the order of records.
// It never mutates its input.
func Filter(records []EmployeeRecord, c FilterCriteria) []EmployeeRecord {
	needle := strings.ToLower(c.Search)
	out := make([]EmployeeRecord, 0, len(records))
	for _, r := range records {
		if matchesSearch(r, needle) && matchesStatus(r, c.Status) && matchesLock(r, c.Lock) {
			out = append(out, r.clone())
		}
	}
	return out
}

// Matches reports whether a single record passes every predicate of c.
func Matches(r EmployeeRecord, c FilterCriteria) bool {
	return matchesSearch(r, strings.ToLower(c.Search)) &&
		matchesStatus(r, c.Status) &&
		matchesLock(r, c.Lock)
}

func matchesSearch(r EmployeeRecord, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range []string{r.Name, r.Email, r.EmployeeCode, r.Designation} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func matchesStatus(r EmployeeRecord, s StatusFilter) bool {
	switch s {
	case StatusActive:
		return r.Active
	case StatusInactive:
		return !r.Active
	default:
		return true
	}
}

func matchesLock(r EmployeeRecord, l LockFilter) bool {
	switch l {
	case LockLocked:
		return r.Locked
	case LockUnlocked:
		return !r.Locked
	default:
		return true
	}
}
