// Package failure holds the error kinds shared by every pixquant package.
//
// Errors are wrapped with fmt.Errorf and %w; test for a kind with errors.Is.
package failure

import "errors"

var (
	// ErrFormat reports malformed palette data, such as a bad hex line.
	ErrFormat = errors.New("malformed data")
	// ErrIO reports an unreadable or unwritable file, or an unsupported
	// file extension.
	ErrIO = errors.New("i/o failure")
	// ErrInvalidArgument reports a request that cannot be served: a color
	// count below one, an empty population, an empty palette or buffer.
	ErrInvalidArgument = errors.New("invalid argument")
)
