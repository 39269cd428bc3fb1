package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateRatings(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []int
		wantMean  float64
		wantCount int
	}{
		{"none", nil, 0, 0},
		{"single", []int{4}, 4.0, 1},
		{"whole mean", []int{5, 3, 4}, 4.0, 3},
		{"after overwrite", []int{5, 1, 4}, 3.3, 3},
		{"rounds half up", []int{5, 5, 4, 3}, 4.3, 4},
		{"two thirds", []int{5, 5, 4}, 4.7, 3},
		{"all ones", []int{1, 1, 1, 1}, 1.0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, count := AggregateRatings(tt.ratings)
			assert.Equal(t, tt.wantMean, mean)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestValidateRating(t *testing.T) {
	for r := MinRating; r <= MaxRating; r++ {
		assert.NoError(t, ValidateRating(r))
	}

	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(6))
	assert.Error(t, ValidateRating(-3))
}

func TestMeanTenths(t *testing.T) {
	tests := []struct {
		name  string
		sum   int64
		count int64
		want  string
	}{
		{"empty", 0, 0, "0.0"},
		{"exact", 12, 3, "4.0"},
		{"half rounds up", 13, 4, "3.3"},
		{"third", 10, 3, "3.3"},
		// 3.2499999975 must stay 3.2 rather than reach 3.25 first and then 3.3
		{"just below half", 1_299_999_999, 400_000_000, "3.2"},
		{"exactly half", 1_300_000_000, 400_000_000, "3.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MeanTenths(tt.sum, tt.count).StringFixed(1))
		})
	}
}
