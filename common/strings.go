package common

import "strings"

// IsEqualIgnoreCase returns if s1 and s2 are equal ignore case.
func IsEqualIgnoreCase(s1, s2 string) bool {
	return strings.EqualFold(s1, s2)
}
