package api

import (
	"fmt"
	"strings"
)

// SyncTransportError — сбой вызова удалённого API: сеть, таймаут, не-2xx статус
// или тело, отличное от "success". StatusCode == 0 означает, что ответа не было.
type SyncTransportError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *SyncTransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %s", e.Op, e.Method, e.URL)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Body != "" {
		body := e.Body
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		fmt.Fprintf(&b, ": body %q", body)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *SyncTransportError) Unwrap() error { return e.Err }
