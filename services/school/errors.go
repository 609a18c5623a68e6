package schoolsvc

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindServer is any non-2xx response without a more specific kind.
	KindServer Kind = iota
	KindAuth
	KindNotFound
	// KindNetwork means no response was received at all.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not-found"
	case KindNetwork:
		return "network"
	}
	return "server"
}

const fallbackDetail = "request failed"

// Error is the one error shape every resource client returns.
// Its message is the server's detail, ready for a banner.
type Error struct {
	Kind       Kind
	StatusCode int
	Detail     string
	RequestID  string
	Err        error // transport error, for KindNetwork
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.Err }

func kindOf(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	}
	return KindServer
}

func newResponseError(status int, body []byte, reqID string) *Error {
	return &Error{
		Kind:       kindOf(status),
		StatusCode: status,
		Detail:     detailOf(status, body),
		RequestID:  reqID,
	}
}

func newNetworkError(err error, reqID string) *Error {
	detail := fallbackDetail
	if cause := errors.Cause(err); cause != nil && cause.Error() != "" {
		detail = cause.Error()
	}
	return &Error{Kind: KindNetwork, Detail: detail, RequestID: reqID, Err: err}
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldDetail struct {
	Msg string `json:"msg"`
}

// detailOf reads {"detail": "..."} or FastAPI's {"detail": [{"msg": "..."}, ...]}.
func detailOf(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Detail) > 0 {
		var s string
		if err = json.Unmarshal(eb.Detail, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
		var list []fieldDetail
		if err = json.Unmarshal(eb.Detail, &list); err == nil {
			msgs := make([]string, 0, len(list))
			for _, fd := range list {
				if fd.Msg != "" {
					msgs = append(msgs, fd.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fallbackDetail
}

func kindIs(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool { return kindIs(err, KindNotFound) }

// IsAuth reports whether err is a 401 from the backend.
func IsAuth(err error) bool { return kindIs(err, KindAuth) }

func IsNetwork(err error) bool { return kindIs(err, KindNetwork) }
