package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size         int
		wantOffset, wantLt int
	}{
		{page: 1, size: 10, wantOffset: 0, wantLt: 10},
		{page: 3, size: 10, wantOffset: 20, wantLt: 10},
		{page: 0, size: 0, wantOffset: 0, wantLt: DefaultPageSize},
		{page: 2, size: 1000, wantOffset: MaxPageSize, wantLt: MaxPageSize},
	}
	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, offset)
		assert.Equal(t, tt.wantLt, limit)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, ParseIntDefault("", 5))
	assert.Equal(t, 5, ParseIntDefault("abc", 5))
	assert.Equal(t, 7, ParseIntDefault("7", 5))
}

func TestMeta(t *testing.T) {
	m := Meta(2, 10, 10, 25)
	assert.EqualValues(t, 3, m["total_pages"])
	assert.Equal(t, true, m["has_prev"])
	assert.Equal(t, true, m["has_next"])

	m = Meta(3, 20, 10, 25)
	assert.Equal(t, false, m["has_next"])
}
