// Package prompts holds the LLM prompt templates.
package prompts

import "fmt"

// TripSchema describes the queryable table for the SQL generator. Column
// names and enum values must match the trips migration exactly; the model
// only knows what this text tells it.
const TripSchema = `Table: trips
Columns:
- trip_id (integer)
- booking_id (text)
- date (date)
- time (time without time zone)
- vehicle_type (text): values are 'Auto', 'Car', 'Bike'
- booking_status (text): values are 'Completed', 'Cancelled by Driver', 'Cancelled by Customer', 'Incomplete'
- unified_cancellation_reason (text): unified cancellation reason
- customer_rating (numeric): 0 to 5
- booking_value (numeric): The cost of the trip
- payment_method (text): 'Cash', 'Wallet', 'UPI', 'Credit Card'
- day_name (text): 'Monday', 'Tuesday', etc.
- hour (numeric): 0 to 23`

// UnrelatedSentinel must match pkg/sql's sentinel; duplicated here so the
// prompt package stays import-free.
const UnrelatedSentinel = "NOT_RELATED"

// Text2SQLSystemPrompt builds the system instruction for the SQL
// generator.
func Text2SQLSystemPrompt() string {
	return fmt.Sprintf(`You are a Postgres SQL expert. Given an input question, create a syntactically correct Postgres SQL query to run.

Here is the schema of the table you must query:
%s

Rules:
1. Return ONLY the SQL code. No markdown, no explanation, no '`+"```"+`sql'.
2. Only use SELECT statements. Never use DELETE, DROP, INSERT, or UPDATE.
3. If the user asks about something unrelated to the data return exactly: "%s"
4. Always limit the query to a maximum of 10 rows unless specified otherwise.
5. CRITICAL: When filtering text columns (like vehicle_type), use ILIKE for case-insensitivity (e.g. vehicle_type ILIKE 'Car').
6. Ensure aggregation functions (AVG, SUM) are applied to numeric columns.
7. CRITICAL: When sorting by numeric columns (like booking_value) to find top/highest records, ALWAYS exclude NULLs (add WHERE booking_value IS NOT NULL).`,
		TripSchema, UnrelatedSentinel)
}
