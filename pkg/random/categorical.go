package random

import "errors"

// ErrNoWeight is returned when a categorical distribution has no positive weight
var ErrNoWeight = errors.New("random: categorical distribution needs a positive weight")

// Categorical samples indices in proportion to non-negative weights
type Categorical struct {
	cumulative []float64
}

// NewCategorical builds a distribution from weights. Negative weights are an error.
func NewCategorical(weights ...float64) (*Categorical, error) {
	cumulative := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, errors.New("random: negative categorical weight")
		}
		total += w
		cumulative[i] = total
	}
	if total <= 0 {
		return nil, ErrNoWeight
	}
	for i := range cumulative {
		cumulative[i] /= total
	}
	return &Categorical{cumulative: cumulative}, nil
}

// Sample returns an index using one draw. Zero-weight entries are never returned.
func (c *Categorical) Sample(src Source) int {
	return c.Index(src.Next())
}

// Index maps a uniform value in [0,1) to an index
func (c *Categorical) Index(u float64) int {
	for i, cdf := range c.cumulative {
		if u < cdf {
			return i
		}
	}
	// u rounds past the last boundary; return the last positive-weight entry
	last := len(c.cumulative) - 1
	for last > 0 && c.cumulative[last] == c.cumulative[last-1] {
		last--
	}
	return last
}

// Len returns the number of categories
func (c *Categorical) Len() int {
	return len(c.cumulative)
}
