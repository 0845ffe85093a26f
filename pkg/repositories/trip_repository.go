// Package repositories provides data access over the trip dataset.
package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/tripsight/tripsight-engine/pkg/database"
	"github.com/tripsight/tripsight-engine/pkg/models"
)

// QueryResult holds the columns and rows of an ad-hoc read-only query.
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// RowCount returns the number of rows in the result.
func (r *QueryResult) RowCount() int { return len(r.Rows) }

// TripRepository provides read access to the trips table.
type TripRepository interface {
	// DistinctCancellationReasons returns one entry per normalized
	// (trimmed, lowercased) cancellation reason with its aggregate count
	// and a minimum sample trip id.
	DistinctCancellationReasons(ctx context.Context) ([]models.ReasonEntry, error)

	// ExamplesForReason returns up to limit trips whose unified reason
	// matches exactly. No ordering guarantee beyond store default.
	ExamplesForReason(ctx context.Context, reasonText string, limit int) ([]models.Trip, error)

	// ExecuteReadOnly runs a sanitized SELECT and returns its rows.
	ExecuteReadOnly(ctx context.Context, sqlQuery string) (*QueryResult, error)

	// KPISummary aggregates headline dashboard numbers under a filter.
	KPISummary(ctx context.Context, filter models.TripFilter) (*models.KPISummary, error)

	// ChartData aggregates the categorical and time distributions backing
	// the dashboard charts.
	ChartData(ctx context.Context, filter models.TripFilter) (*models.ChartData, error)
}

type tripRepository struct {
	db *database.DB
}

// NewTripRepository creates a TripRepository over the given pool.
func NewTripRepository(db *database.DB) TripRepository {
	return &tripRepository{db: db}
}

var _ TripRepository = (*tripRepository)(nil)

func (r *tripRepository) DistinctCancellationReasons(ctx context.Context) ([]models.ReasonEntry, error) {
	// Grouping by the normalized text collapses case/whitespace variants
	// of the same reason into one entry, so the content-derived vector id
	// never collides across rows.
	sql := `
		SELECT MIN(TRIM(unified_cancellation_reason)) AS reason,
		       COUNT(*) AS cnt,
		       MIN(trip_id) AS sample_trip
		FROM trips
		WHERE unified_cancellation_reason IS NOT NULL
		  AND LENGTH(TRIM(unified_cancellation_reason)) > 0
		GROUP BY LOWER(TRIM(unified_cancellation_reason))`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct reasons: %w", err)
	}
	defer rows.Close()

	var entries []models.ReasonEntry
	for rows.Next() {
		var e models.ReasonEntry
		if err := rows.Scan(&e.ReasonText, &e.OccurrenceCount, &e.SampleTripID); err != nil {
			return nil, fmt.Errorf("failed to scan reason row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reason rows: %w", err)
	}

	return entries, nil
}

func (r *tripRepository) ExamplesForReason(ctx context.Context, reasonText string, limit int) ([]models.Trip, error) {
	sql := `
		SELECT trip_id, booking_id, date, time::text, vehicle_type, booking_status,
		       unified_cancellation_reason, customer_rating::float8, booking_value::float8,
		       payment_method, day_name, hour::int
		FROM trips
		WHERE unified_cancellation_reason = $1
		LIMIT $2`

	rows, err := r.db.Query(ctx, sql, reasonText, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query examples: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var t models.Trip
		if err := rows.Scan(
			&t.TripID, &t.BookingID, &t.Date, &t.Time, &t.VehicleType, &t.BookingStatus,
			&t.UnifiedCancellationReason, &t.CustomerRating, &t.BookingValue,
			&t.PaymentMethod, &t.DayName, &t.Hour,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trip rows: %w", err)
	}

	return trips, nil
}

func (r *tripRepository) ExecuteReadOnly(ctx context.Context, sqlQuery string) (*QueryResult, error) {
	rows, err := r.db.Query(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	result := &QueryResult{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read result rows: %w", err)
	}

	return result, nil
}

func (r *tripRepository) KPISummary(ctx context.Context, filter models.TripFilter) (*models.KPISummary, error) {
	where, args := buildTripFilter(filter)

	sql := fmt.Sprintf(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE booking_status = 'Completed'),
		       COALESCE(SUM(booking_value), 0)::float8
		FROM trips%s`, where)

	var summary models.KPISummary
	err := r.db.QueryRow(ctx, sql, args...).Scan(
		&summary.TotalBookings, &summary.SuccessfulBookings, &summary.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to query KPI summary: %w", err)
	}

	if summary.TotalBookings > 0 {
		summary.SuccessRate = float64(summary.SuccessfulBookings) / float64(summary.TotalBookings) * 100
	}

	return &summary, nil
}

func (r *tripRepository) ChartData(ctx context.Context, filter models.TripFilter) (*models.ChartData, error) {
	where, args := buildTripFilter(filter)
	data := &models.ChartData{}

	counts := []struct {
		dest *[]models.CountByLabel
		sql  string
	}{
		{&data.PaymentMethods, fmt.Sprintf(`
			SELECT payment_method, COUNT(*) FROM trips%s
			GROUP BY payment_method ORDER BY COUNT(*) DESC`,
			andWhere(where, "payment_method IS NOT NULL"))},
		{&data.Cancellations, fmt.Sprintf(`
			SELECT booking_status, COUNT(*) FROM trips%s
			GROUP BY booking_status ORDER BY COUNT(*) DESC`,
			andWhere(where, "booking_status ILIKE '%cancelled%'"))},
		{&data.TripsByVehicle, fmt.Sprintf(`
			SELECT vehicle_type, COUNT(*) FROM trips%s
			GROUP BY vehicle_type ORDER BY COUNT(*) DESC`, where)},
		{&data.TripsByHour, fmt.Sprintf(`
			SELECT hour::int::text, COUNT(*) FROM trips%s
			GROUP BY hour ORDER BY hour`,
			andWhere(where, "hour IS NOT NULL"))},
		{&data.TripsByDay, fmt.Sprintf(`
			SELECT day_name, COUNT(*) FROM trips%s
			GROUP BY day_name ORDER BY MIN(date)`,
			andWhere(where, "day_name IS NOT NULL"))},
	}

	for _, q := range counts {
		labels, err := r.queryCounts(ctx, q.sql, args)
		if err != nil {
			return nil, err
		}
		*q.dest = labels
	}

	ratingSQL := fmt.Sprintf(`
		SELECT vehicle_type, AVG(customer_rating)::float8 FROM trips%s
		GROUP BY vehicle_type ORDER BY vehicle_type`,
		andWhere(where, "customer_rating IS NOT NULL"))

	rows, err := r.db.Query(ctx, ratingSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating averages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.AvgByLabel
		if err := rows.Scan(&a.Label, &a.Average); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		data.RatingByVehicle = append(data.RatingByVehicle, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rating rows: %w", err)
	}

	return data, nil
}

func (r *tripRepository) queryCounts(ctx context.Context, sql string, args []any) ([]models.CountByLabel, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	var out []models.CountByLabel
	for rows.Next() {
		var c models.CountByLabel
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read count rows: %w", err)
	}
	return out, nil
}

// buildTripFilter renders the shared WHERE clause for dashboard queries.
func buildTripFilter(filter models.TripFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}
	if len(filter.Vehicles) > 0 {
		args = append(args, filter.Vehicles)
		conds = append(conds, fmt.Sprintf("vehicle_type = ANY($%d)", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// andWhere appends an extra condition to an optional WHERE clause.
func andWhere(where, cond string) string {
	if cond == "" {
		return where
	}
	if where == "" {
		return " WHERE " + cond
	}
	return where + " AND " + cond
}
