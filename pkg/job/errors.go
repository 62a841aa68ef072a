package job

import "errors"

var (
	ErrInvalidConfig = errors.New("job: invalid configuration")
	ErrUnknownTask   = errors.New("job: task was not issued or was already submitted")
	ErrRasterSize    = errors.New("job: partial raster size does not match the job")
	ErrIncomplete    = errors.New("job: not every task has been submitted")
	ErrTaskFailed    = errors.New("job: task failed")
)
