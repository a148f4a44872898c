package utils

import (
	"net/http"
)

// HTTPClient returns a client that follows redirects while re-applying the
// custom User-Agent header on every hop.
func HTTPClient() *http.Client {
	userAgent := GetEnv("USER_AGENT")

	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			req.Header.Set("User-Agent", userAgent)
			return nil
		},
	}
}
