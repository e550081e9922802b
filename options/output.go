package options

import (
	"errors"
	"io"
)

// Output describes where a child's standard output and standard error
// go. Nil writers discard the stream.
type Output struct {
	Output            io.Writer `json:"-"`
	Error             io.Writer `json:"-"`
	SendOutputToError bool      `json:"send_output_to_error,omitempty"`
	SendErrorToOutput bool      `json:"send_error_to_output,omitempty"`
}

// Validate rejects redirecting both streams into each other.
func (o Output) Validate() error {
	if o.SendOutputToError && o.SendErrorToOutput {
		return errors.New("cannot redirect output to error and error to output")
	}
	return nil
}

// GetOutput returns the writer for standard output.
func (o Output) GetOutput() io.Writer {
	if o.SendOutputToError {
		return o.Error
	}
	return o.Output
}

// GetError returns the writer for standard error.
func (o Output) GetError() io.Writer {
	if o.SendErrorToOutput {
		return o.Output
	}
	return o.Error
}
