package sql

import (
	"regexp"
	"strings"

	"github.com/tripsight/tripsight-engine/pkg/apperrors"
)

// UnrelatedSentinel is the literal string the generator returns for
// questions outside the dataset's domain.
const UnrelatedSentinel = "NOT_RELATED"

// DefaultRowCap is appended as a LIMIT clause to unbounded non-aggregate
// queries.
const DefaultRowCap = 20

// forbiddenKeywords are rejected anywhere in the candidate text, even
// inside otherwise-valid SELECTs. This is intentionally a substring scan,
// not a parse; the checks here are the minimum bar, not an
// injection-proof guarantee.
var forbiddenKeywords = []string{"DROP", "DELETE", "INSERT", "UPDATE", "TRUNCATE", "ALTER"}

// aggregateKeywords exempt a query from the default row cap.
var aggregateKeywords = []string{"AVG", "COUNT", "SUM"}

var (
	selectStarPattern = regexp.MustCompile(`\bSELECT\s+\*\s+FROM\b`)
	limitPattern      = regexp.MustCompile(`\bLIMIT\b`)
)

// Sanitize inspects candidate SQL text and either rejects it with a
// classified RejectionError or returns a safe-to-execute, row-capped
// query. The checks run in a fixed order and short-circuit at the first
// violation so rejection messages are reproducible:
//
//  1. forbidden keyword anywhere         -> security rejection
//  2. generator's "unrelated" sentinel   -> out-of-domain rejection
//  3. statement does not start with SELECT -> malformed rejection
//  4. SELECT * FROM without any LIMIT    -> security rejection
//  5. no LIMIT and no aggregate          -> append "LIMIT 20"
func Sanitize(rawSQL string) (string, error) {
	// Strip a trailing semicolon first so an appended LIMIT clause stays
	// inside the statement.
	sqlQuery := stripTrailingSemicolon(strings.TrimSpace(rawSQL))
	sqlUpper := strings.ToUpper(sqlQuery)

	for _, word := range forbiddenKeywords {
		if strings.Contains(sqlUpper, word) {
			return "", &apperrors.RejectionError{
				Category: apperrors.RejectionSecurity,
				Message:  "Security Alert: Malicious command detected in SQL.",
			}
		}
	}

	if strings.Contains(sqlUpper, UnrelatedSentinel) {
		return "", &apperrors.RejectionError{
			Category: apperrors.RejectionOutOfDomain,
			Message:  "I am a Data Assistant. Please ask questions about the trip data.",
		}
	}

	if !strings.HasPrefix(sqlUpper, "SELECT") {
		return "", &apperrors.RejectionError{
			Category: apperrors.RejectionMalformed,
			Message:  "Invalid Query: Only SELECT queries are allowed.",
		}
	}

	if selectStarPattern.MatchString(sqlUpper) && !limitPattern.MatchString(sqlUpper) {
		return "", &apperrors.RejectionError{
			Category: apperrors.RejectionSecurity,
			Message:  "Security Alert: SELECT * without LIMIT is not allowed.",
		}
	}

	if !limitPattern.MatchString(sqlUpper) && !containsAny(sqlUpper, aggregateKeywords) {
		sqlQuery += " LIMIT 20"
	}

	return sqlQuery, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
