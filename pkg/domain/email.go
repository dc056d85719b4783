package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// EmailDomain is the mail domain of every folder address.
const EmailDomain = "carpetacolombia.co"

// FolderEmail derives the immutable folder address from the owner's name and
// citizen ID: lower-cased, whitespace runs become ".", and anything outside
// [a-z0-9.] is dropped.
func FolderEmail(fullName string, citizenID CitizenID) string {
	fields := strings.FieldsFunc(strings.ToLower(fullName), unicode.IsSpace)
	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteByte('.')
		}
		for _, r := range field {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' {
				b.WriteRune(r)
			}
		}
	}
	return fmt.Sprintf("%s.%s@%s", b.String(), citizenID, EmailDomain)
}
