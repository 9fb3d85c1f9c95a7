package herbarium

import "fmt"

// ArgumentError is returned when the command line arguments cannot be
// parsed or are incomplete.
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("parsing arguments: %v", e.Err)
}

// Unwrap returns the cause of the error.
func (e *ArgumentError) Unwrap() error { return e.Err }

// Cause returns the cause of the error.
func (e *ArgumentError) Cause() error { return e.Err }

// ModelLoadError is returned when the bundled classifier cannot be loaded
// from its resource.
type ModelLoadError struct {
	Resource string
	Err      error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("loading model %s: %v", e.Resource, e.Err)
}

// Unwrap returns the cause of the error.
func (e *ModelLoadError) Unwrap() error { return e.Err }

// Cause returns the cause of the error.
func (e *ModelLoadError) Cause() error { return e.Err }

// DatasetReadError is returned when the input dataset cannot be opened or
// parsed.
type DatasetReadError struct {
	Path string
	Err  error
}

func (e *DatasetReadError) Error() string {
	return fmt.Sprintf("reading dataset %s: %v", e.Path, e.Err)
}

// Unwrap returns the cause of the error.
func (e *DatasetReadError) Unwrap() error { return e.Err }

// Cause returns the cause of the error.
func (e *DatasetReadError) Cause() error { return e.Err }

/*
ClassificationError is returned when a row cannot be classified. Row is the
1-based number of the row, 0 when the failure happened before classifying
any row.
*/
type ClassificationError struct {
	Row int
	Err error
}

func (e *ClassificationError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("classifying dataset: %v", e.Err)
	}
	return fmt.Sprintf("classifying instance %d: %v", e.Row, e.Err)
}

// Unwrap returns the cause of the error.
func (e *ClassificationError) Unwrap() error { return e.Err }

// Cause returns the cause of the error.
func (e *ClassificationError) Cause() error { return e.Err }

// DatasetWriteError is returned when the labeled dataset cannot be
// written to its destination.
type DatasetWriteError struct {
	Path string
	Err  error
}

func (e *DatasetWriteError) Error() string {
	return fmt.Sprintf("writing dataset %s: %v", e.Path, e.Err)
}

// Unwrap returns the cause of the error.
func (e *DatasetWriteError) Unwrap() error { return e.Err }

// Cause returns the cause of the error.
func (e *DatasetWriteError) Cause() error { return e.Err }
