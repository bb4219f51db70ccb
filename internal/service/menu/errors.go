package menu

import "errors"

var (
	// ErrSourceUnavailable means no menu file could be obtained for the week.
	ErrSourceUnavailable = errors.New("menu source unavailable")

	// ErrFetchFailed accompanies ErrSourceUnavailable when the download
	// itself failed, as opposed to the week not being published.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrSourceFormat means the menu file exists but is malformed.
	ErrSourceFormat = errors.New("malformed menu source")

	// ErrArchiveDisabled is returned by archive reads when no database is configured.
	ErrArchiveDisabled = errors.New("menu archive disabled")
)
