package errors

import "fmt"

// Wrap adds context to err at a package boundary.
// It returns nil if err is nil, so it is safe to use inline:
//
//	return errors.Wrap(err, "loading config")
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
