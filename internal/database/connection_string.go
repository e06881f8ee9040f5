package database

import (
	"net/url"
	"strconv"
	"strings"
)

// buildConnectionString generates a modernc.org/sqlite DSN. Per-connection
// settings are passed as _pragma parameters so every pooled connection gets them.
func (opts *SQLiteOptions) buildConnectionString() string {
	params := url.Values{}

	if opts.Mode != "" {
		params.Set("mode", opts.Mode)
	}
	if opts.BusyTimeout > 0 {
		params.Add("_pragma", "busy_timeout("+strconv.Itoa(opts.BusyTimeout)+")")
	}
	if opts.ForeignKeys {
		params.Add("_pragma", "foreign_keys(1)")
	}
	if opts.Synchronous != "" {
		params.Add("_pragma", "synchronous("+string(opts.Synchronous)+")")
	}
	if opts.CacheSize != 0 {
		params.Add("_pragma", "cache_size("+strconv.Itoa(opts.CacheSize)+")")
	}

	connStr := opts.Path
	if !strings.HasPrefix(connStr, "file:") {
		connStr = "file:" + connStr
	}
	if encoded := params.Encode(); encoded != "" {
		connStr += "?" + encoded
	}
	return connStr
}
