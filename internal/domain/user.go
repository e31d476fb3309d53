// Package domain contains room entities and the pure rules that mutate them.
// Nothing here touches transport, clocks or locks; callers pass `now` in.
package domain

import (
	"errors"
	"strings"
)

const MaxNameLen = 36

var (
	ErrNameTooLong = errors.New("name too long")
	ErrNameEmpty   = errors.New("name empty")
)

// NormalizeName trims a display name and checks its length.
// Names are not unique: two members of one room may share a name only
// until the later one's join replaces the earlier entry.
func NormalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if len(name) == 0 {
		return "", ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return "", ErrNameTooLong
	}
	return name, nil
}
