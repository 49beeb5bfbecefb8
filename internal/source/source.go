// Package source holds the HTTP plumbing shared by the JIRA and Zephyr
// integrations.
package source

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind identifies which backend API a request targeted.
type Kind string

const (
	KindJira Kind = "jira"
	KindZapi Kind = "zapi"
)

// AuthError indicates that the server rejected the configured credentials.
type AuthError struct {
	Kind    Kind
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Kind, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// APIError is a non-2xx response from JIRA or ZAPI.
type APIError struct {
	Kind       Kind
	StatusCode int
	Method     string
	Path       string
	Messages   []string
	Body       string
}

func (e *APIError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf(
			"%s API error (%d) on %s %s: %s",
			e.Kind, e.StatusCode, e.Method, e.Path,
			strings.Join(e.Messages, "; "),
		)
	}
	return fmt.Sprintf(
		"unexpected status %d on %s %s: %s",
		e.StatusCode, e.Method, e.Path, e.Body,
	)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// errorResponse is the JIRA error envelope. ZAPI reuses it for most
// failures and sometimes answers with {"errorDesc": "..."} instead.
type errorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
	ErrorDesc     string            `json:"errorDesc"`
}

func (r errorResponse) messages() []string {
	msgs := append([]string(nil), r.ErrorMessages...)
	for field, msg := range r.Errors {
		msgs = append(msgs, field+": "+msg)
	}
	if r.ErrorDesc != "" {
		msgs = append(msgs, r.ErrorDesc)
	}
	return msgs
}
