package domain

import "strings"

// RegtestPrefixes lists the address prefixes accepted on the regtest network:
// transparent, unified and sapling.
var RegtestPrefixes = []string{"tm", "uregtest", "zregtestsapling"}

// IsRegtestAddress reports whether address carries a regtest prefix.
func IsRegtestAddress(address string) bool {
	for _, p := range RegtestPrefixes {
		if strings.HasPrefix(address, p) {
			return true
		}
	}
	return false
}
