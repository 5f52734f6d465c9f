package nn

import "fmt"

// ShapeError reports an input tensor whose shape violates the loss
// contract. It is returned before any tensor arithmetic runs.
type ShapeError struct {
	Op     string
	Detail string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// ConfigError reports an invalid loss configuration or an invalid
// combination of arguments. It is returned before any tensor arithmetic
// runs.
type ConfigError struct {
	Op     string
	Detail string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

func shapeErrorf(op, format string, args ...any) *ShapeError {
	return &ShapeError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

func configErrorf(op, format string, args ...any) *ConfigError {
	return &ConfigError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
