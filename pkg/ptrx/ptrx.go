// Package ptrx provides pointer helpers for optional struct fields.
package ptrx

import "time"

// Bool returns a pointer value for the bool value passed in.
func Bool(v bool) *bool {
	return &v
}

// String returns a pointer value for the string value passed in.
func String(v string) *string {
	return &v
}

// Time returns a pointer value for the time.Time value passed in.
func Time(v time.Time) *time.Time {
	return &v
}

// BoolValue returns the value of the bool pointer or false if nil.
func BoolValue(v *bool) bool {
	if v == nil {
		return false
	}
	return *v
}

// StringValue returns the value of the string pointer or "" if nil.
func StringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
