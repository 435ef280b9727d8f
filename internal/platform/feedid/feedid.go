// Package feedid canonicalizes provider identifiers. The feed prefixes ids
// with a single type letter (t = team, p = player, g = game); two ids denote
// the same entity when their numeric bodies match, so the prefix is stripped
// before any comparison.
package feedid

const (
	PrefixTeam   = 't'
	PrefixPlayer = 'p'
	PrefixGame   = 'g'
)

// Normalize strips a recognized type prefix from a feed identifier. Ids
// without a prefix pass through unchanged, so the function is idempotent.
func Normalize(id string) string {
	if len(id) < 2 {
		return id
	}
	switch id[0] {
	case PrefixTeam, PrefixPlayer, PrefixGame:
	default:
		return id
	}
	for i := 1; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return id
		}
	}
	return id[1:]
}

// Equal reports whether two feed identifiers denote the same entity.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
