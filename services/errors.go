package services

import "errors"

// Booking and lifecycle failures handlers need to tell apart. Each class
// maps to its own HTTP status and retry guidance.
var (
	// ErrSlotUnavailable means the slot was taken between listing and
	// booking, usually by losing the reservation race. Retryable with a
	// fresh slot list.
	ErrSlotUnavailable = errors.New("slot is no longer available")

	// ErrDailyLimitExceeded: the student already has an active appointment
	// with this faculty on that day.
	ErrDailyLimitExceeded = errors.New("student already has an appointment with this faculty member that day")

	// ErrTimeConflict: the student holds another active appointment whose
	// time overlaps the requested slot.
	ErrTimeConflict = errors.New("student has an overlapping appointment at this time")

	ErrLocationRequired     = errors.New("a location sample is required to book with this faculty member")
	ErrStaleLocation        = errors.New("location sample is too old")
	ErrInsufficientAccuracy = errors.New("location accuracy is insufficient")
	ErrOutsideZone          = errors.New("location is outside the meeting zone")

	// ErrInvalidTransition: the appointment is not in a state that permits
	// the requested change. Never retried automatically.
	ErrInvalidTransition = errors.New("invalid appointment state transition")

	// ErrCancelWindowClosed: too close to (or past) the appointment start
	// for the requesting party to cancel.
	ErrCancelWindowClosed = errors.New("cancellation window has closed")
)
