package errors

import "fmt"

// Wrap prefixes err with msg, keeping the chain intact for errors.Is.
// A nil err stays nil, so it can wrap a call's result inline:
//
//	return errors.Wrap(Validate(cfg), "invalid configuration")
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
