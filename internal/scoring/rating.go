package scoring

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ValidateRating rejects ratings outside [MinRating, MaxRating].
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating must be between %d and %d, got %d", MinRating, MaxRating, rating)
	}
	return nil
}

// AggregateRatings returns the arithmetic mean of ratings rounded half-up to
// one decimal place, together with the number of ratings. No ratings yields
// 0 and 0.
func AggregateRatings(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}

	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}

	return MeanTenths(sum, int64(len(ratings))).InexactFloat64(), len(ratings)
}

// MeanTenths returns sum/count rounded half-up to one decimal place. The
// rounding happens once, on integer tenths.
func MeanTenths(sum, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	tenths := (20*sum + count) / (2 * count)
	return decimal.New(tenths, -1)
}
