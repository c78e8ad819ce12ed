// Package dateutil formats document dates the way each supported locale
// writes them, using token formats (YYYY, M, D) rather than Go layouts.
package dateutil

import (
	"strings"
	"time"
)

// DefaultDateFormat is used for locales without a preset.
const DefaultDateFormat = "M/D/YYYY"

// LocalePresets holds the short date format of each document locale:
// he-IL writes day first with dots and no padding, en-US month first.
var LocalePresets = map[string]string{
	"he": "D.M.YYYY",
	"en": "M/D/YYYY",
}

// tokens lists longer tokens first so "MMMM" wins over "M" at the same offset.
var tokens = strings.NewReplacer(
	"YYYY", "2006",
	"MMMM", "January",
	"MMM", "Jan",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"M", "1",
	"D", "2",
)

// Layout converts a token format to a Go time layout. Characters that are
// not tokens pass through unchanged.
func Layout(format string) string {
	return tokens.Replace(format)
}

// FormatLocale formats t with the preset for locale, or DefaultDateFormat.
func FormatLocale(t time.Time, locale string) string {
	format, ok := LocalePresets[strings.ToLower(locale)]
	if !ok {
		format = DefaultDateFormat
	}
	return t.Format(Layout(format))
}
