package model

import "strings"

// ParseFlag maps a yes/no style token to a bool. The second result is false
// when the token is not recognized. Shared by the CSV loader and the
// analytics query parameters.
func ParseFlag(raw string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "t", "1":
		return true, true
	case "no", "n", "false", "f", "0":
		return false, true
	}
	return false, false
}
