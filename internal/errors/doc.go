// Package errors provides structured errors for the keyed runtime.
//
// Every error carries a registered code, a category and a short message.
// Programmer errors (lifecycle violations such as disposing a scope twice)
// are raised as panics whose value is an *Error, so callers that recover can
// still inspect the code with errors.As.
//
//	err := errors.New("E101")
//	fmt.Println(err.Format())
package errors
