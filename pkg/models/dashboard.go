package models

import "time"

// TripFilter narrows dashboard aggregates to a date range and a set of
// vehicle types. Zero values mean "no filter".
type TripFilter struct {
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
	Vehicles []string   `json:"vehicles,omitempty"`
}

// KPISummary holds the headline dashboard numbers.
type KPISummary struct {
	TotalBookings      int64   `json:"total_bookings"`
	SuccessfulBookings int64   `json:"successful_bookings"`
	TotalRevenue       float64 `json:"total_revenue"`
	SuccessRate        float64 `json:"success_rate"`
}

// CountByLabel is one slice of a categorical distribution
// (payment methods, vehicle types, cancellation statuses).
type CountByLabel struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// AvgByLabel is a per-category average, e.g. customer rating by vehicle.
type AvgByLabel struct {
	Label   string  `json:"label"`
	Average float64 `json:"average"`
}

// ChartData bundles the distributions backing the dashboard charts.
type ChartData struct {
	PaymentMethods  []CountByLabel `json:"payment_methods"`
	Cancellations   []CountByLabel `json:"cancellations"`
	TripsByVehicle  []CountByLabel `json:"trips_by_vehicle"`
	RatingByVehicle []AvgByLabel   `json:"rating_by_vehicle"`
	TripsByHour     []CountByLabel `json:"trips_by_hour"`
	TripsByDay      []CountByLabel `json:"trips_by_day"`
}
