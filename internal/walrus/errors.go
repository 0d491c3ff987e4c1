package walrus

import (
	"errors"

	"github.com/dmitrijs2005/blobkeeper/internal/common"
)

// formatError is a sentinel that also matches common.ErrFormat.
type formatError struct{ msg string }

func (e formatError) Error() string        { return e.msg }
func (e formatError) Is(target error) bool { return target == common.ErrFormat }

var (
	// ErrPublishFailed wraps any failure of the publisher PUT.
	ErrPublishFailed = errors.New("failed to store on Walrus")

	// ErrFetchFailed wraps any failure of the aggregator GET.
	ErrFetchFailed = errors.New("failed to retrieve from Walrus")

	// ErrUnexpectedResponse is returned when the publisher body is neither a
	// newlyCreated nor an alreadyCertified envelope.
	ErrUnexpectedResponse error = formatError{msg: "unexpected Walrus response format"}
)
