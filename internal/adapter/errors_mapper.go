package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// serverError is the envelope the server wraps failures in.
type serverError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// otpRequiredCode is the error code the server sends when it wants a
// one-time code before issuing a session.
const otpRequiredCode = "otp_required"

// mapHTTPError translates a non-2xx response into the package's sentinel
// errors. Authentication failures are passed through with only the
// server's own message: the client must not reveal more about why a
// login failed than the server chose to disclose.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	var se serverError
	if err := json.Unmarshal(resp.Body(), &se); err == nil && se.Error.Code != "" {
		if se.Error.Code == otpRequiredCode {
			return fmt.Errorf("%w: %s", ErrTwoFactorRequired, se.Error.Message)
		}
		body = se.Error.Message
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		if isLoginEndpoint(resp.Request.URL) {
			return fmt.Errorf("%w: %s", ErrLoginFailed, body)
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	default:
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}

func isLoginEndpoint(url string) bool {
	return strings.Contains(url, "/login")
}
