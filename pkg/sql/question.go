package sql

import (
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/tripsight/tripsight-engine/pkg/apperrors"
)

// ScreenQuestion rejects a natural-language question before it reaches
// the generator when it openly carries SQL commands or injection
// patterns. This is a cheap first gate; the generated SQL still goes
// through Sanitize regardless.
func ScreenQuestion(question string) error {
	upper := strings.ToUpper(question)
	for _, word := range forbiddenKeywords {
		if containsWord(upper, word) {
			return &apperrors.RejectionError{
				Category: apperrors.RejectionSecurity,
				Message:  "Security Alert: Malicious command detected.",
			}
		}
	}

	if isSQLi, _ := libinjection.IsSQLi(question); isSQLi {
		return &apperrors.RejectionError{
			Category: apperrors.RejectionSecurity,
			Message:  "Security Alert: SQL injection pattern detected in question.",
		}
	}

	return nil
}

// containsWord matches whole words only, so a question like "show
// dropped-off riders" is not rejected for containing "drop" inside
// another word.
func containsWord(upper, word string) bool {
	idx := 0
	for {
		i := strings.Index(upper[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(upper[start-1])
		afterOK := end == len(upper) || !isWordChar(upper[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}
