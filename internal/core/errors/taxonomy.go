package errors

import stderrors "errors"

var (
	// ErrConfiguration is the umbrella for operator mistakes in widget or source
	// configuration. They are surfaced immediately and never retried.
	ErrConfiguration = stderrors.New("configuration error")

	// ErrNotSupported marks a known gap: the input is valid but the behavior
	// has not been implemented. Callers must not render it as empty data.
	ErrNotSupported = stderrors.New("not yet supported")
)
