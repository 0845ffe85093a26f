// import-trips loads the ride bookings CSV into the trips table.
//
// The CSV is staged verbatim into raw_trips with COPY, then cleaned rows
// are inserted into trips: dates and times are parsed, the three
// per-status cancellation reason columns are collapsed into
// unified_cancellation_reason, and day_name/hour are derived for the
// dashboard aggregates.
//
// Usage: go run ./scripts/import-trips [-truncate] <bookings.csv>
//
// Database connection: Uses standard PG* environment variables
//
// Flags:
//
//	-truncate  Empty raw_trips and trips before loading (default: false)
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
)

// csvColumns maps the CSV headers we consume to raw_trips columns. The
// source file carries more columns than we keep; unknown headers are
// ignored.
var csvColumns = map[string]string{
	"Date":                              "trip_date",
	"Time":                              "trip_time",
	"Booking ID":                        "booking_id",
	"Booking Status":                    "booking_status",
	"Vehicle Type":                      "vehicle_type",
	"Reason for cancelling by Customer": "cancelled_by_customer_reason",
	"Driver Cancellation Reason":        "cancelled_by_driver_reason",
	"Incomplete Rides Reason":           "incomplete_reason",
	"Booking Value":                     "booking_value",
	"Customer Rating":                   "customer_rating",
	"Payment Method":                    "payment_method",
}

// rawColumnOrder fixes the column order used for COPY.
var rawColumnOrder = []string{
	"booking_id",
	"trip_date",
	"trip_time",
	"vehicle_type",
	"booking_status",
	"cancelled_by_driver_reason",
	"cancelled_by_customer_reason",
	"incomplete_reason",
	"customer_rating",
	"booking_value",
	"payment_method",
}

// transformSQL moves staged rows into trips. The reason columns collapse
// with COALESCE in customer, driver, incomplete order; rows that fail
// date parsing or carry an unknown vehicle/status are skipped.
const transformSQL = `
INSERT INTO trips (booking_id, date, time, vehicle_type, booking_status,
                   unified_cancellation_reason, customer_rating, booking_value,
                   payment_method, day_name, hour)
SELECT
    booking_id,
    trip_date::date,
    NULLIF(trip_time, '')::time,
    vehicle_type,
    booking_status,
    NULLIF(TRIM(COALESCE(
        NULLIF(cancelled_by_customer_reason, ''),
        NULLIF(cancelled_by_driver_reason, ''),
        NULLIF(incomplete_reason, ''),
        '')), ''),
    NULLIF(customer_rating, '')::numeric,
    NULLIF(booking_value, '')::numeric,
    NULLIF(payment_method, ''),
    to_char(trip_date::date, 'FMDay'),
    EXTRACT(HOUR FROM NULLIF(trip_time, '')::time)
FROM raw_trips
WHERE booking_id IS NOT NULL
  AND trip_date ~ '^\d{4}-\d{2}-\d{2}$'
  AND vehicle_type IN ('Auto', 'Car', 'Bike')
  AND booking_status IN ('Completed', 'Cancelled by Driver', 'Cancelled by Customer', 'Incomplete')
`

func main() {
	truncate := flag.Bool("truncate", false, "Empty raw_trips and trips before loading")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-truncate] <bookings.csv>\n", os.Args[0])
		os.Exit(1)
	}

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, buildConnString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	if *truncate {
		if _, err := conn.Exec(ctx, "TRUNCATE raw_trips, trips RESTART IDENTITY"); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to truncate: %v\n", err)
			os.Exit(1)
		}
	}

	file, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open CSV: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	staged, err := stageCSV(ctx, conn, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stage CSV: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Staged %d rows into raw_trips\n", staged)

	tag, err := conn.Exec(ctx, transformSQL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to transform staged rows: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Inserted %d rows into trips (%d skipped)\n",
		tag.RowsAffected(), staged-tag.RowsAffected())
}

// stageCSV copies CSV rows into raw_trips and returns the row count.
func stageCSV(ctx context.Context, conn *pgx.Conn, r io.Reader) (int64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}

	// Position of each raw column within the CSV record.
	positions := make(map[string]int, len(csvColumns))
	for i, name := range header {
		if col, ok := csvColumns[strings.TrimSpace(name)]; ok {
			positions[col] = i
		}
	}
	for _, col := range []string{"booking_id", "trip_date", "booking_status", "vehicle_type"} {
		if _, ok := positions[col]; !ok {
			return 0, fmt.Errorf("CSV is missing a required column for %s", col)
		}
	}

	rowSrc := pgx.CopyFromFunc(func() ([]any, error) {
		record, err := reader.Read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		row := make([]any, len(rawColumnOrder))
		for i, col := range rawColumnOrder {
			pos, ok := positions[col]
			if !ok || pos >= len(record) {
				row[i] = nil
				continue
			}
			value := strings.TrimSpace(record[pos])
			if value == "" || value == "null" {
				row[i] = nil
				continue
			}
			row[i] = value
		}
		return row, nil
	})

	return conn.CopyFrom(ctx, pgx.Identifier{"raw_trips"}, rawColumnOrder, rowSrc)
}

// buildConnString assembles a connection string from PG* environment
// variables with local defaults.
func buildConnString() string {
	get := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		get("PGUSER", "tripsight"),
		get("PGPASSWORD", ""),
		get("PGHOST", "localhost"),
		get("PGPORT", "5432"),
		get("PGDATABASE", "tripsight"),
		get("PGSSLMODE", "disable"))
}
