package domain

import "time"

// Invoice dates are persisted in ISO form and shown to the user as
// DD-MM-YYYY. Both UI variants render the display form only.
const (
	DateFormatISO     = "2006-01-02"
	DateFormatDisplay = "02-01-2006"
)

// DisplayDate converts an ISO date to DD-MM-YYYY. Values that do not
// parse are returned unchanged so a malformed row still renders.
func DisplayDate(iso string) string {
	t, err := time.Parse(DateFormatISO, iso)
	if err != nil {
		return iso
	}
	return t.Format(DateFormatDisplay)
}

// ISODate converts a DD-MM-YYYY display date to ISO. Values that do not
// parse are returned unchanged.
func ISODate(display string) string {
	t, err := time.Parse(DateFormatDisplay, display)
	if err != nil {
		return display
	}
	return t.Format(DateFormatISO)
}

// Today returns today's date in ISO form.
func Today() string {
	return time.Now().Format(DateFormatISO)
}
