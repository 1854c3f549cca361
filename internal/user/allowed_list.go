package user

import (
	"strings"
)

type AllowedList struct {
	entries map[string]struct{}
}

// NewAllowedList accepts GitHub logins and email addresses, matched case-insensitively.
func NewAllowedList(entries []string) *AllowedList {
	list := &AllowedList{entries: make(map[string]struct{})}
	for _, entry := range entries {
		for _, part := range strings.Split(entry, ",") {
			key := strings.TrimSpace(strings.ToLower(part))
			if key != "" {
				list.entries[key] = struct{}{}
			}
		}
	}
	return list
}

func (l *AllowedList) IsAllowed(admin Admin) bool {
	for _, key := range []string{admin.Login, admin.Email} {
		if key == "" {
			continue
		}
		if _, exist := l.entries[strings.ToLower(key)]; exist {
			return true
		}
	}
	return false
}

func (l *AllowedList) Len() int {
	return len(l.entries)
}
