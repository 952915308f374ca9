package sync

import "strings"

// cleanDisplayName strips pictographic glyphs and surrounding whitespace from
// an account display name. Up lets users prefix savers with emoji; those
// don't belong in a relational column used for grouping and display.
func cleanDisplayName(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if isPictographic(r) {
			return -1
		}
		return r
	}, s))
}

func isPictographic(r rune) bool {
	switch {
	case r >= 0x1F1E0 && r <= 0x1F1FF: // regional indicators / flags
		return true
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols and pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map symbols
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols
		return true
	case r >= 0x10000: // supplementary planes (remaining emoji blocks)
		return true
	case r >= 0x2500 && r <= 0x2BEF: // box drawing through misc symbols
		return true
	case r >= 0x2600 && r <= 0x27B0: // misc symbols and dingbats
		return true
	case r >= 0x24C2 && r <= 0x24FF: // enclosed alphanumerics
		return true
	case r == 0x200D, r == 0x231A, r == 0x23CF, r == 0x23E9, r == 0x2640, r == 0x2642, r == 0x3030, r == 0xFE0F:
		return true
	}
	return false
}
