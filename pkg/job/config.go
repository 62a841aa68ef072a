package job

import "fmt"

// Config describes the image and how its sample budget is split
type Config struct {
	Width       int
	Height      int
	Samples     int  // total samples (or mutations) for the whole image
	Tasks       int  // number of tasks the budget is split into
	Progressive bool // blend partial results for display instead of adding them
}

// DefaultConfig returns a small image with a modest budget
func DefaultConfig() Config {
	return Config{
		Width:   256,
		Height:  256,
		Samples: 256 * 256 * 16,
		Tasks:   64,
	}
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Samples <= 0 {
		return fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidConfig, c.Samples)
	}
	if c.Tasks <= 0 {
		return fmt.Errorf("%w: tasks must be positive, got %d", ErrInvalidConfig, c.Tasks)
	}
	if c.Tasks > c.Samples {
		return fmt.Errorf("%w: %d tasks for %d samples leaves empty tasks", ErrInvalidConfig, c.Tasks, c.Samples)
	}
	return nil
}

// SamplesPerPixel is the average number of samples landing on each pixel
func (c Config) SamplesPerPixel() float64 {
	return float64(c.Samples) / float64(c.Width*c.Height)
}
