package services

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
)

// ValidationError lists the rejected fields of a vehicle with a message per
// field. It matches common.ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

// VehicleInput carries the editable fields of a vehicle.
type VehicleInput struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	Price       int64  `json:"price"`
	Mileage     int    `json:"mileage"`
	Description string `json:"description"`
}

const (
	minYear        = 1900
	maxNameLen     = 64
	maxDescription = 4000
)

// Validate checks the input against the clock's current year.
func (in *VehicleInput) Validate(now time.Time) error {
	in.Make = strings.TrimSpace(in.Make)
	in.Model = strings.TrimSpace(in.Model)

	fields := map[string]string{}

	switch {
	case in.Make == "":
		fields["make"] = "is required"
	case utf8.RuneCountInString(in.Make) > maxNameLen:
		fields["make"] = fmt.Sprintf("must be at most %d characters", maxNameLen)
	}
	switch {
	case in.Model == "":
		fields["model"] = "is required"
	case utf8.RuneCountInString(in.Model) > maxNameLen:
		fields["model"] = fmt.Sprintf("must be at most %d characters", maxNameLen)
	}
	if in.Year < minYear || in.Year > now.Year()+1 {
		fields["year"] = fmt.Sprintf("must be between %d and %d", minYear, now.Year()+1)
	}
	if in.Price < 0 {
		fields["price"] = "must not be negative"
	}
	if in.Mileage < 0 {
		fields["mileage"] = "must not be negative"
	}
	if utf8.RuneCountInString(in.Description) > maxDescription {
		fields["description"] = fmt.Sprintf("must be at most %d characters", maxDescription)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
