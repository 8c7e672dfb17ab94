package transport

import (
	"bytes"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const maxPlainMessage = 256

// messagePaths are tried in order when extracting a human readable message.
var messagePaths = []string{
	"message",
	"info",
	"error.message",
	"error",
	"errors.0.message",
	"errors.0",
	"detail",
	"error_description",
}

var codePaths = []string{"code", "error.code", "errorCode"}

var (
	notFoundCodes = []string{"not_found", "notfound", "resource_not_found", "404"}
	authCodes     = []string{"unauthorized", "forbidden", "invalid_api_key", "authentication_failed", "401", "403"}
)

// Classify maps a non-2xx status and its body to exactly one ErrorType.
// The status decides the type; the body is only consulted to upgrade a
// generic 4xx to NotFoundError or AuthenticationError.
func Classify(status int, body []byte) ErrorType {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return AuthenticationError
	case status == http.StatusNotFound:
		return NotFoundError
	case status == http.StatusTooManyRequests:
		return RateLimitError
	case status >= 500 && status <= 599:
		return ServerError
	case status >= 400 && status <= 499:
		return refineClientError(status, body)
	default:
		return APIError
	}
}

// refineClientError reads error codes on any 4xx but message text only on a
// bare 400. A 422 message naming a missing field stays a ValidationError.
func refineClientError(status int, body []byte) ErrorType {
	if !gjson.ValidBytes(body) {
		return ValidationError
	}
	code := strings.ToLower(errorCode(body))
	var msg string
	if status == http.StatusBadRequest {
		msg = strings.ToLower(ExtractMessage(body))
	}

	switch {
	case matchesAny(code, notFoundCodes) || strings.Contains(msg, "not found"):
		return NotFoundError
	case matchesAny(code, authCodes) ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "invalid api key") ||
		strings.Contains(msg, "invalid key"):
		return AuthenticationError
	default:
		return ValidationError
	}
}

func matchesAny(code string, codes []string) bool {
	if code == "" {
		return false
	}
	for _, c := range codes {
		if code == c {
			return true
		}
	}
	return false
}

func errorCode(body []byte) string {
	for _, r := range gjson.GetManyBytes(body, codePaths...) {
		if r.Type == gjson.String || r.Type == gjson.Number {
			return r.String()
		}
	}
	return ""
}

// ExtractMessage pulls a message out of an error body. JSON bodies are searched
// for the usual message fields; short plain-text bodies are returned as-is.
// It returns "" when nothing usable is found.
func ExtractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if gjson.ValidBytes(trimmed) {
		for _, r := range gjson.GetManyBytes(trimmed, messagePaths...) {
			if r.Type == gjson.String && strings.TrimSpace(r.Str) != "" {
				return strings.TrimSpace(r.Str)
			}
		}
		if r := gjson.ParseBytes(trimmed); r.Type == gjson.String {
			return strings.TrimSpace(r.Str)
		}
		return ""
	}
	if !utf8.Valid(trimmed) || bytes.HasPrefix(trimmed, []byte("<")) {
		return ""
	}
	if len(trimmed) > maxPlainMessage {
		trimmed = trimmed[:maxPlainMessage]
	}
	return strings.ToValidUTF8(string(trimmed), "")
}
