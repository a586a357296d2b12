package bizinfo

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is matched by every non-2xx status error.
var ErrFetchFailed = errors.New("failed to fetch bizinfo.json")

// Kind classifies where a fetch failed.
type Kind int

const (
	// KindTransport means the request could not be completed.
	KindTransport Kind = iota + 1
	// KindStatus means the server answered with a non-2xx status.
	KindStatus
	// KindDecode means the body was not a single valid JSON value.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by Fetch. Err holds the underlying transport or decoder error
// and is never replaced.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	case KindStatus:
		return fmt.Sprintf("%s: status %d", ErrFetchFailed.Error(), e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("bizinfo: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	if e.Kind == KindStatus && e.Err == nil {
		return ErrFetchFailed
	}
	return e.Err
}

// KindOf returns the Kind of err, or 0 if err is not a fetch error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
