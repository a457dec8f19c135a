package domain

import "errors"

// Sentinel errors for the rating and subsidy pipeline. Callers should match
// with errors.Is; wrapping with fmt.Errorf("...: %w", err) preserves the kind.
var (
	// ErrInvalidZipFormat indicates the ZIP is not a syntactically valid
	// 5-digit US ZIP code (10000-99999).
	ErrInvalidZipFormat = errors.New("invalid zip format")

	// ErrZipNotFound indicates a well-formed ZIP with no county mapping in
	// the loaded reference data.
	ErrZipNotFound = errors.New("zip not found")

	// ErrRatingAreaNotFound indicates a county with no ZIP mapping, so no
	// rating area can be derived for it.
	ErrRatingAreaNotFound = errors.New("rating area not found")

	// ErrAgeOutOfRange indicates an age below zero was passed to premium
	// rating. Ages above the tabulated maximum are clamped, not rejected.
	ErrAgeOutOfRange = errors.New("age out of range")

	// ErrPlanNotFound indicates a plan has no rate table for the requested
	// rating area and date. The plan is unpriceable there and is excluded
	// from candidate sets rather than failing the quote.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrInvalidInput indicates subsidy inputs outside policy bounds:
	// benchmark <= 0, income < 0, or household size < 1.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAmbiguousCounty indicates a multi-county ZIP was quoted without an
	// explicit county selection.
	ErrAmbiguousCounty = errors.New("ambiguous county")
)
