package upbank

import "fmt"

// FetchError reports a failed API call: either a non-success HTTP status or
// a transport failure. It carries the requested URL so a failing page deep in
// a pagination chain can be identified. No retries happen at this layer.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
