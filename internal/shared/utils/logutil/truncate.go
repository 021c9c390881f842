// Package logutil shortens values that should not be logged in full.
package logutil

// ShortHex keeps the first and last keep characters after the 0x prefix of a
// hex string, joined by "...". Strings short enough to fit are returned as is.
func ShortHex(s string, keep int) string {
	if keep <= 0 {
		return "..."
	}
	prefix := ""
	body := s
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		prefix, body = s[:2], s[2:]
	}
	if len(body) <= 2*keep {
		return s
	}
	return prefix + body[:keep] + "..." + body[len(body)-keep:]
}
