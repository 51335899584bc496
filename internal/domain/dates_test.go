package domain_test

import (
	"testing"
	"time"

	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "15-03-2025", domain.DisplayDate("2025-03-15"))
	assert.Equal(t, "01-01-2024", domain.DisplayDate("2024-01-01"))
}

func TestDisplayDate_InvalidPassthrough(t *testing.T) {
	assert.Equal(t, "not-a-date", domain.DisplayDate("not-a-date"))
	assert.Equal(t, "", domain.DisplayDate(""))
	// Already in display form stays untouched
	assert.Equal(t, "15-03-2025", domain.DisplayDate("15-03-2025"))
}

func TestISODate(t *testing.T) {
	assert.Equal(t, "2025-03-15", domain.ISODate("15-03-2025"))
}

func TestISODate_InvalidPassthrough(t *testing.T) {
	assert.Equal(t, "garbage", domain.ISODate("garbage"))
	assert.Equal(t, "2025-03-15", domain.ISODate("2025-03-15"))
}

func TestToday(t *testing.T) {
	today, err := time.Parse(domain.DateFormatISO, domain.Today())
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), today, 25*time.Hour)
}
