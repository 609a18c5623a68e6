package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// FullName joins non-blank name parts with a single space.
func FullName(parts ...string) string {
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = CleanString(p); p != "" {
			names = append(names, p)
		}
	}
	return strings.Join(names, " ")
}

// StrPtr, IntPtr & BoolPtr help building partial updates.
func StrPtr(s string) *string { return &s }
func IntPtr(i int) *int       { return &i }
func BoolPtr(b bool) *bool    { return &b }
