package check

import "fmt"

// Fail sets the result to failed status with a detail message.
func (r *Result) Fail(detail string, err error) Result {
	r.Status = StatusFail
	r.Details = append(r.Details, detail)
	r.Err = err
	return *r
}

// Failf fails the result with a formatted detail line, keeping err as the cause.
func (r *Result) Failf(err error, format string, args ...any) Result {
	return r.Fail(fmt.Sprintf(format, args...), err)
}

// AddDetail appends a detail line to the result.
func (r *Result) AddDetail(detail string) *Result {
	r.Details = append(r.Details, detail)
	return r
}

// AddDetailf appends a formatted detail line to the result.
func (r *Result) AddDetailf(format string, args ...any) *Result {
	return r.AddDetail(fmt.Sprintf(format, args...))
}

// ParseMode converts a config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSequential, ModeConcurrent:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (want %q or %q)", s, ModeSequential, ModeConcurrent)
	}
}
