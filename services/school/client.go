// Package schoolsvc is the typed client of the school REST backend.
package schoolsvc

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/academia/core"
)

const (
	requestIDHeader = "X-Request-ID"
	defaultTimeout  = 30 * time.Second
)

// TokenSource yields the bearer token of the current session, "" when there is none.
type TokenSource interface {
	Token() string
}

type noToken struct{}

func (noToken) Token() string { return "" }

// Client wraps every call to the backend: it attaches the bearer token and
// turns non-2xx responses into *Error.
type Client struct {
	baseURL string
	rest    *rest.Client
	logger  core.Logger

	mutex  sync.RWMutex
	tokens TokenSource

	Auth     *AuthClient
	Users    *UserClient
	Students *StudentClient
	Teachers *TeacherClient
	Courses  *CourseClient
	Reports  *ReportClient
}

func NewClient(conf *core.Config, logger core.Logger) *Client {
	if logger == nil {
		logger = core.NopLogger{}
	}
	timeout := conf.API.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(conf.API.BaseURL, "/"),
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
		logger:  logger,
		tokens:  noToken{},
	}
	c.Auth = &AuthClient{c}
	c.Users = &UserClient{c}
	c.Students = &StudentClient{c}
	c.Teachers = &TeacherClient{c}
	c.Courses = &CourseClient{c}
	c.Reports = &ReportClient{c}
	return c
}

// SetTokenSource plugs the session in. The session needs the client to log in,
// so it cannot be given at construction time.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if ts == nil {
		ts = noToken{}
	}
	c.tokens = ts
}

func (c *Client) token() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.tokens.Token()
}

// ListOptions pages collection endpoints. Zero values use the backend defaults.
type ListOptions struct {
	Skip  int
	Limit int
}

func (o ListOptions) query() map[string]string {
	q := make(map[string]string)
	if o.Skip > 0 {
		q["skip"] = strconv.Itoa(o.Skip)
	}
	if o.Limit > 0 {
		q["limit"] = strconv.Itoa(o.Limit)
	}
	return q
}

type request struct {
	method rest.Method
	path   string
	query  map[string]string
	body   interface{} // JSON encoded
	form   url.Values  // form encoded, wins over body
	accept string
}

type response struct {
	status  int
	body    []byte
	headers http.Header
}

// send performs one call. Any non-2xx status is returned as *Error.
func (c *Client) send(ctx context.Context, req request) (*response, error) {
	reqID := uuid.New().String()
	headers := map[string]string{requestIDHeader: reqID}
	if req.accept == "" {
		req.accept = "application/json"
	}
	headers["Accept"] = req.accept
	if tok := c.token(); tok != "" {
		headers["Authorization"] = "Bearer " + tok
	}

	var body []byte
	switch {
	case req.form != nil:
		body = []byte(req.form.Encode())
		headers["Content-Type"] = "application/x-www-form-urlencoded"
	case req.body != nil:
		var err error
		if body, err = json.Marshal(req.body); err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		headers["Content-Type"] = "application/json"
	}

	c.logger.Debug("api request", map[string]interface{}{
		"method": string(req.method), "path": req.path, "request_id": reqID,
	})

	resp, err := c.rest.SendWithContext(ctx, rest.Request{
		Method:      req.method,
		BaseURL:     c.baseURL + req.path,
		Headers:     headers,
		QueryParams: req.query,
		Body:        body,
	})
	if err != nil {
		c.logger.Warn("api unreachable", err, map[string]interface{}{"path": req.path, "request_id": reqID})
		return nil, newNetworkError(err, reqID)
	}

	res := &response{status: resp.StatusCode, body: []byte(resp.Body), headers: http.Header(resp.Headers)}
	if res.status < 200 || res.status > 299 {
		apiErr := newResponseError(res.status, res.body, reqID)
		c.logger.Debug("api error", map[string]interface{}{
			"status": res.status, "path": req.path, "request_id": reqID, "detail": apiErr.Detail,
		})
		return nil, apiErr
	}
	return res, nil
}

// call sends req and decodes the JSON response into out, when given.
func (c *Client) call(ctx context.Context, req request, out interface{}) error {
	res, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(res.body) == 0 {
		return nil
	}
	if err = json.Unmarshal(res.body, out); err != nil {
		return errors.Wrapf(err, "decoding %s response", req.path)
	}
	return nil
}

func idPath(collection string, id core.ID, sub ...string) string {
	p := "/" + collection + "/" + id.String()
	for _, s := range sub {
		p += "/" + s
	}
	return p
}
