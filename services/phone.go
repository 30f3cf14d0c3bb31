package services

import (
	"regexp"
	"strings"
)

// Taiwan mobile numbers: "09" followed by 8 digits.
var phoneRe = regexp.MustCompile(`^09\d{8}$`)

func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

// NormalizePhone strips every non-digit rune so numbers typed as
// "0912-345-678" or "0912 345 678" still validate.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone renders "0912345678" as "0912-345-678" for display.
// Non-conforming input is returned unchanged.
func FormatPhone(phone string) string {
	if !ValidPhone(phone) {
		return phone
	}
	return phone[:4] + "-" + phone[4:7] + "-" + phone[7:]
}
