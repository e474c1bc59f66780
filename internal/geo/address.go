package geo

import (
	"regexp"
	"strings"
)

// Address is the administrative part of a Korean street address.
// Empty fields mean the part could not be recognised.
type Address struct {
	City     string
	District string
}

var districtRe = regexp.MustCompile(`^(\S+(?:구|군|시))`)

// ParseAddress extracts the province/metropolitan city and the district
// (구/군/시) from a free-text address such as "서울특별시 강남구 테헤란로 123".
// The city is returned as written in the address.
func ParseAddress(address string) Address {
	var out Address
	rest := strings.TrimSpace(address)

	if _, name, ok := prefixRegion(rest); ok {
		out.City = name
		rest = strings.TrimSpace(strings.TrimPrefix(rest, name))
	}

	if m := districtRe.FindStringSubmatch(rest); m != nil {
		out.District = m[1]
	}
	return out
}

func prefixRegion(s string) (Region, string, bool) {
	for _, r := range Regions {
		for _, n := range r.Names {
			if strings.HasPrefix(s, n) {
				return r, n, true
			}
		}
	}
	return Region{}, "", false
}

// LookupRegion resolves the region an address belongs to. The leading
// province wins, so "경기도 광주시" is Gyeonggi and not Gwangju; only an
// address without a recognised prefix falls back to the first region whose
// name appears anywhere in it.
func LookupRegion(address string) (Region, string, bool) {
	trimmed := strings.TrimSpace(address)
	if r, n, ok := prefixRegion(trimmed); ok {
		return r, n, true
	}
	for _, r := range Regions {
		for _, n := range r.Names {
			if strings.Contains(trimmed, n) {
				return r, n, true
			}
		}
	}
	return Region{}, "", false
}
