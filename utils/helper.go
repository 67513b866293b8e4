package utils

import (
	"bytes"
	"text/template"
	"time"
)

func NewTrue() *bool {
	b := true
	return &b
}

// DereferencePtr returns the pointed-to value, or the optional default
// (zero value otherwise) when the pointer is nil.
func DereferencePtr[T any](ptr *T, defaults ...T) T {
	if ptr != nil {
		return *ptr
	}
	if len(defaults) > 0 {
		return defaults[0]
	}
	var zero T
	return zero
}

// TruncateToDayUTC drops the time-of-day portion in UTC. All recurrence
// arithmetic runs on day-truncated UTC dates to avoid DST drift.
func TruncateToDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ExecTemplate(tString string, data map[string]interface{}) (string, error) {
	t, err := template.New("message").Parse(tString)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
