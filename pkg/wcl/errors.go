package wcl

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMissingAPIKey is returned by New when constructed without a secret key.
var ErrMissingAPIKey = errors.New("wcl: api key is required")

// apiKeyPattern matches the api_key query parameter wherever it shows up in
// wrapped error text (the transport embeds the full request URL in its own
// errors). Redaction works on the pattern, not the key value, so it holds even
// for errors produced outside this package.
var apiKeyPattern = regexp.MustCompile(`api_key=[^&\s"']*`)

func redactKey(s string) string {
	return apiKeyPattern.ReplaceAllString(s, "api_key=REDACTED")
}

// ArgumentError reports a required identifier that was empty. No request is
// made when it is returned.
type ArgumentError struct {
	Name string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("wcl: required argument %q is empty", e.Name)
}

// TransportError wraps a network-level failure (connection, DNS, timeout,
// cancellation). Path identifies the endpoint; the api_key never appears in
// the message.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return redactKey(fmt.Sprintf("wcl: get %s: %v", e.Path, e.Err))
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx HTTP response from the API.
type StatusError struct {
	Path       string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wcl: get %s: status %d: %s", e.Path, e.StatusCode, bodySnippet(e.Body))
}

// DecodeError reports a response body that was not valid JSON.
type DecodeError struct {
	Path string
	Body []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wcl: get %s: response is not valid JSON: %s", e.Path, bodySnippet(e.Body))
}

func bodySnippet(body []byte) string {
	const maxLen = 160
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "<empty body>"
	}
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return redactKey(s)
}
