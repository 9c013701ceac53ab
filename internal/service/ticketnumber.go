package service

import (
	"fmt"
	"strings"
)

// numberPrefixFallback fills in when a client name yields fewer than three
// usable characters.
const numberPrefixFallback = "XXX"

// ticketNumberPrefix derives the three-letter prefix from a client display
// name: uppercased, everything but letters stripped, left-padded from the
// fallback when short.
func ticketNumberPrefix(clientName string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(clientName) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
		if b.Len() == 3 {
			break
		}
	}
	prefix := b.String()
	if len(prefix) < 3 {
		prefix = numberPrefixFallback[:3-len(prefix)] + prefix
	}
	return prefix
}

// FormatTicketNumber renders the human-facing per-client ticket number. The
// sequence value is zero-padded to four digits and grows unbounded past that.
func FormatTicketNumber(clientName string, n int64) string {
	return fmt.Sprintf("%s%04d", ticketNumberPrefix(clientName), n)
}
