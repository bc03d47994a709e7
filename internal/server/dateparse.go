package server

import (
	"errors"
	"time"
)

// Accepted textual date forms, tried in order; first match wins. The
// non-padded layouts also accept zero-padded month and day.
var dateLayouts = []string{
	"2006-1-2",
	"2006_1_2",
	"20060102",
	"2006年1月2日",
}

// ErrMalformedDate reports input matching none of the accepted forms.
var ErrMalformedDate = errors.New("日期格式错误，支持格式：2026-02-25、2026_02_25、20260225、2026年02月25日等")

// ParseFlexibleDate parses a date in any of the accepted textual forms.
func ParseFlexibleDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrMalformedDate
}
