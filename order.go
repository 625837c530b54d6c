package board

import "strings"

// orderDigits is the base-62 alphabet for fractional ordering keys.
// Byte order matches lexicographic string comparison.
const orderDigits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// OrderKeyBetween returns a key strictly between lo and hi. An empty lo
// means "before everything", an empty hi means "after everything".
//
// Keys produced by this function never end in the smallest digit, which
// keeps the midpoint construction valid for any pair of generated keys.
// The caller must guarantee lo < hi when both are non-empty.
func OrderKeyBetween(lo, hi string) string {
	var out []byte
	for i := 0; ; i++ {
		dLo := 0
		if i < len(lo) {
			dLo = strings.IndexByte(orderDigits, lo[i])
		}
		dHi := len(orderDigits)
		if i < len(hi) {
			dHi = strings.IndexByte(orderDigits, hi[i])
		}
		if dHi-dLo > 1 {
			out = append(out, orderDigits[(dLo+dHi)/2])
			return string(out)
		}
		// Digits are adjacent or shared: copy the low digit and
		// descend one position deeper.
		out = append(out, orderDigits[dLo])
	}
}

// OrderKeys returns n keys in ascending order, evenly seeded from scratch.
// Convenient when building a whole collection at once.
func OrderKeys(n int) []string {
	keys := make([]string, 0, n)
	lo := ""
	for i := 0; i < n; i++ {
		lo = OrderKeyBetween(lo, "")
		keys = append(keys, lo)
	}
	return keys
}
