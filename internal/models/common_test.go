package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationParams(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		p := NewPaginationParams(0, 0)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, DefaultPageLimit, p.Limit)
	})

	t.Run("Negative Page", func(t *testing.T) {
		p := NewPaginationParams(-3, 10)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 10, p.Limit)
	})

	t.Run("Limit Capped", func(t *testing.T) {
		p := NewPaginationParams(2, 500)
		assert.Equal(t, 2, p.Page)
		assert.Equal(t, MaxPageLimit, p.Limit)
	})

	t.Run("Offset", func(t *testing.T) {
		p := NewPaginationParams(3, 20)
		assert.Equal(t, 40, p.Offset())
	})
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name       string
		total      int
		page       int
		limit      int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"Empty", 0, 1, 20, 0, false, false},
		{"Single Row", 1, 1, 20, 1, false, false},
		{"Exactly One Page", 20, 1, 20, 1, false, false},
		{"One Over", 21, 1, 20, 2, true, false},
		{"Middle Page", 100, 3, 20, 5, true, true},
		{"Last Page", 100, 5, 20, 5, false, true},
		{"Past The End", 100, 9, 20, 5, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.total, PaginationParams{Page: tc.page, Limit: tc.limit})
			assert.Equal(t, tc.total, p.Total)
			assert.Equal(t, tc.totalPages, p.TotalPages)
			assert.Equal(t, tc.hasNext, p.HasNext)
			assert.Equal(t, tc.hasPrev, p.HasPrev)
		})
	}
}

func TestBookingTypeValid(t *testing.T) {
	assert.True(t, BookingTypeHotel.Valid())
	assert.True(t, BookingTypeFlight.Valid())
	assert.True(t, BookingTypeTrain.Valid())
	assert.False(t, BookingType("BUS").Valid())
	assert.False(t, BookingType("").Valid())
}
