package sift

import "github.com/roach88/sift/internal/value"

// Stats summarizes the numeric values of one field across the surviving
// records. Non-numeric and missing values are ignored; Count is the
// number of values that actually contributed.
type Stats struct {
	Count int
	Sum   float64
	Avg   float64
	Min   float64
	Max   float64
}

func (q *Query) numeric(field string) []float64 {
	var out []float64
	for _, v := range q.Get(field) {
		if f, ok := value.ToFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// Sum totals the numeric values of a field.
func (q *Query) Sum(field string) float64 {
	var sum float64
	for _, f := range q.numeric(field) {
		sum += f
	}
	return sum
}

// Avg averages the numeric values of a field. Zero when none are numeric.
func (q *Query) Avg(field string) float64 {
	nums := q.numeric(field)
	if len(nums) == 0 {
		return 0
	}
	var sum float64
	for _, f := range nums {
		sum += f
	}
	return sum / float64(len(nums))
}

// Min returns the smallest numeric value of a field. The second return is
// false when no value is numeric.
func (q *Query) Min(field string) (float64, bool) {
	nums := q.numeric(field)
	if len(nums) == 0 {
		return 0, false
	}
	min := nums[0]
	for _, f := range nums[1:] {
		if f < min {
			min = f
		}
	}
	return min, true
}

// Max returns the largest numeric value of a field. The second return is
// false when no value is numeric.
func (q *Query) Max(field string) (float64, bool) {
	nums := q.numeric(field)
	if len(nums) == 0 {
		return 0, false
	}
	max := nums[0]
	for _, f := range nums[1:] {
		if f > max {
			max = f
		}
	}
	return max, true
}

// FieldStats computes Count, Sum, Avg, Min, and Max of a field in one
// pass. The zero Stats is returned when no value is numeric.
func (q *Query) FieldStats(field string) Stats {
	nums := q.numeric(field)
	if len(nums) == 0 {
		return Stats{}
	}

	s := Stats{Count: len(nums), Min: nums[0], Max: nums[0]}
	for _, f := range nums {
		s.Sum += f
		if f < s.Min {
			s.Min = f
		}
		if f > s.Max {
			s.Max = f
		}
	}
	s.Avg = s.Sum / float64(s.Count)
	return s
}
