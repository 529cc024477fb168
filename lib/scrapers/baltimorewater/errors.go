package baltimorewater

import "errors"

type ErrorKind int

const (
	// the network call itself failed, or the portal answered non-2xx
	KindTransport ErrorKind = iota
	// the page came back but the form or input we rely on is gone
	KindStructure
	// the query succeeded but the portal has no record for it
	KindNoData
)

// ScrapeError is the terminal failure for a single query. Message is
// what ends up in the result row's status column, so it stays short and
// human readable.
type ScrapeError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *ScrapeError) Error() string {
	return e.Message
}

func (e *ScrapeError) Unwrap() error {
	return e.cause
}

func transportError(message string, cause error) *ScrapeError {
	return &ScrapeError{Kind: KindTransport, Message: message, cause: cause}
}

func structureError(message string) *ScrapeError {
	return &ScrapeError{Kind: KindStructure, Message: message}
}

func noDataError() *ScrapeError {
	return &ScrapeError{Kind: KindNoData, Message: "no bill information found"}
}

func IsNoData(err error) bool {
	var serr *ScrapeError
	return errors.As(err, &serr) && serr.Kind == KindNoData
}
