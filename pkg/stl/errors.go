package stl

import "fmt"

// FormatError reports input that does not follow the ASCII STL grammar.
// When the input ended in the middle of a production, Err is
// linereader.ErrExhausted.
type FormatError struct {
	Line int    // 1-based line number; 0 if no line was read
	Msg  string // what was expected
	Err  error  // underlying cause, may be nil
}

func (e *FormatError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("stl: line %d: %s", e.Line, msg)
	}
	return "stl: " + msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
