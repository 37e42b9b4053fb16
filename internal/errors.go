package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrPathNotFound means the log file does not exist yet. Callers treat it as "create new".
	ErrPathNotFound = errors.New("path not found")

	// ErrMalformedDocument means the file exists but is not a petrol book
	ErrMalformedDocument = errors.New("malformed petrol book")

	// ErrInvalidInput is returned for rejected entry form values
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRecord marks historical records that cannot be used for metrics
	ErrInvalidRecord = errors.New("invalid record")

	// ErrNoPath is returned when saving a document that has no file yet
	ErrNoPath = errors.New("no petrol book file selected")
)

// RecordError reports a problem with one record of the document.
type RecordError struct {
	Index int
	Date  string
	Time  string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (%s %s): %v", e.Index+1, e.Date, e.Time, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func invalidRecord(rec NormalizedRecord, format string, args ...any) *RecordError {
	return &RecordError{
		Index: rec.Index,
		Date:  rec.Date,
		Time:  rec.Time,
		Err:   fmt.Errorf("%w: %s", ErrInvalidRecord, fmt.Sprintf(format, args...)),
	}
}
