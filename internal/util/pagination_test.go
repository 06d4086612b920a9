package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size             int
		offset, limit, current int
	}{
		{1, 12, 0, 12, 1},
		{3, 12, 24, 12, 3},
		{0, 0, 0, DefaultPageSize, 1},
		{-2, 500, 0, MaxPageSize, 1},
		{2, 5, 5, 5, 2},
		{math.MaxInt, 12, (MaxPage - 1) * 12, 12, MaxPage},
	}
	for _, tt := range tests {
		offset, limit, current := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.offset, offset)
		assert.Equal(t, tt.limit, limit)
		assert.Equal(t, tt.current, current)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), TotalPages(0, 12))
	assert.Equal(t, int64(1), TotalPages(12, 12))
	assert.Equal(t, int64(2), TotalPages(13, 12))
	assert.Equal(t, int64(0), TotalPages(5, 0))
}

func TestParsers(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("7", 1))
	assert.Equal(t, 1, ParseIntDefault("x", 1))
	assert.Nil(t, ParseFloat(""))
	assert.Nil(t, ParseFloat("abc"))
	assert.Equal(t, 12.5, *ParseFloat("12.5"))
	assert.Nil(t, ParseBool("maybe"))
	assert.True(t, *ParseBool("true"))
}
