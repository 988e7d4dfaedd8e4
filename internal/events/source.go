package events

import "time"

// SourceFetchStart is emitted before a data-source fetch.
type SourceFetchStart struct {
	Operation string // "pages", "records", "site"
}

// SourceFetchFinish is emitted after a data-source fetch completes.
type SourceFetchFinish struct {
	Operation string
	Count     int
	Err       error
	Duration  time.Duration
}
