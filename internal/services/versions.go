package services

import (
	"strconv"
	"strings"
)

// CompareVersions orders product version strings such as "42.0", "42.0.1",
// "33.1", "44.0a2" and "43.0beta". Dot separated segments are compared
// numerically on their leading digits; a segment carrying a suffix ranks
// below the same number without one, and suffixes compare lexically. A
// version that is a prefix of another ranks lower ("42.0" < "42.0.1").
// Returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

func compareSegment(a, b string) int {
	an, asuf, aok := splitSegment(a)
	bn, bsuf, bok := splitSegment(b)

	// non-numeric segments fall back to plain string comparison
	if !aok || !bok {
		return strings.Compare(a, b)
	}

	if an != bn {
		if an < bn {
			return -1
		}
		return 1
	}

	switch {
	case asuf == bsuf:
		return 0
	case asuf == "":
		return 1
	case bsuf == "":
		return -1
	}
	return strings.Compare(asuf, bsuf)
}

func splitSegment(s string) (int, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, s, false
	}
	return n, s[i:], true
}

// NormalizeVersion rewrites legacy "X.0.0" versions into the form used for
// the channel: "X.0" on Release, "X.0a2" on Aurora and "X.0beta" on Beta.
// Other channels and versions are returned unchanged.
func NormalizeVersion(channel, version string) string {
	if !strings.HasSuffix(version, ".0.0") {
		return version
	}
	base := strings.TrimSuffix(version, ".0")

	switch channel {
	case "Release":
		return base
	case "Aurora":
		return base + "a2"
	case "Beta":
		return base + "beta"
	}
	return version
}
