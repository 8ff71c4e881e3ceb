package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

var ErrSubmissionInProgress = errors.New("submission already in progress")

// FormSubmitter runs one submission at a time for a form.
type FormSubmitter struct {
	mu       sync.Mutex
	inFlight bool
}

func (f *FormSubmitter) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Submit calls submit unless another call is still running, in which case it
// returns ErrSubmissionInProgress without calling it. Validation (400) and
// duplicate (409) responses are returned as field errors alongside the error.
func (f *FormSubmitter) Submit(ctx context.Context, submit func(ctx context.Context) error) (FieldErrors, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	f.inFlight = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	err := submit(ctx)
	if err == nil {
		return nil, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 &&
		(apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusConflict) {
		return apiErr.Fields, err
	}

	return nil, err
}
