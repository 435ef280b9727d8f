package statsfeed

import (
	crerr "github.com/cockroachdb/errors"
)

// Failure taxonomy for the provider feeds. Transport and non-success HTTP
// statuses mark ErrFeedUnavailable; undecodable documents mark
// ErrFeedMalformed. The client never retries on its own; retry policy
// belongs to the caller's polling cadence.
var (
	ErrFeedUnavailable = crerr.New("feed unavailable")
	ErrFeedMalformed   = crerr.New("feed malformed")
)

func unavailableErr(feed string, status int) error {
	return crerr.Mark(crerr.Newf("feed %s unavailable: upstream status=%d", feed, status), ErrFeedUnavailable)
}

func transportErr(feed string, err error) error {
	return crerr.Mark(crerr.Wrapf(err, "feed %s unreachable", feed), ErrFeedUnavailable)
}

func malformedErr(feed string, err error) error {
	return crerr.Mark(crerr.Wrapf(err, "feed %s returned an unparseable document", feed), ErrFeedMalformed)
}

func IsUnavailable(err error) bool {
	return crerr.Is(err, ErrFeedUnavailable)
}

func IsMalformed(err error) bool {
	return crerr.Is(err, ErrFeedMalformed)
}
