// Package models defines the domain types shared by repositories,
// services and handlers.
package models

import "time"

// Vehicle category values stored in trips.vehicle_type.
const (
	VehicleAuto = "Auto"
	VehicleCar  = "Car"
	VehicleBike = "Bike"
)

// Booking status values stored in trips.booking_status.
const (
	StatusCompleted           = "Completed"
	StatusCancelledByDriver   = "Cancelled by Driver"
	StatusCancelledByCustomer = "Cancelled by Customer"
	StatusIncomplete          = "Incomplete"
)

// Trip is a single row of the trip dataset. The table is owned by the
// external store; this system only reads it.
type Trip struct {
	TripID                    int64     `json:"trip_id"`
	BookingID                 string    `json:"booking_id"`
	Date                      time.Time `json:"date"`
	Time                      *string   `json:"time,omitempty"`
	VehicleType               string    `json:"vehicle_type"`
	BookingStatus             string    `json:"booking_status"`
	UnifiedCancellationReason *string   `json:"unified_cancellation_reason,omitempty"`
	CustomerRating            *float64  `json:"customer_rating,omitempty"`
	BookingValue              *float64  `json:"booking_value,omitempty"`
	PaymentMethod             *string   `json:"payment_method,omitempty"`
	DayName                   *string   `json:"day_name,omitempty"`
	Hour                      *int      `json:"hour,omitempty"`
}
