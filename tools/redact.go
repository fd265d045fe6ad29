package tools

import (
	"regexp"
	"unicode/utf8"
)

// maxBodyLength caps thread bodies in responses so a long HTML email
// does not flood the agent's context.
const maxBodyLength = 2000

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{6,}\d`)
)

// redactBody masks emails and phone numbers unless the PII toggle
// allows them, then truncates. Applied to every thread body leaving the
// gateway.
func (h *Handler) redactBody(body string) string {
	if !h.cfg.AllowPII {
		body = emailPattern.ReplaceAllString(body, "[EMAIL]")
		body = phonePattern.ReplaceAllString(body, "[PHONE]")
	}
	if len(body) > maxBodyLength {
		// Back up to a rune boundary so the cut never splits a
		// multi-byte character.
		cut := maxBodyLength
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "… [truncated]"
	}
	return body
}
