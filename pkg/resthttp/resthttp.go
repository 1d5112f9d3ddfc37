package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	headerKeyRequestID = "X-Request-Id"

	defaultTimeout = 10 * time.Second
	retryCount     = 2
)

var (
	runOnce     sync.Once
	restyClient *resty.Client
)

// StatusError non 2xx response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Client shared resty client, 5xx and transport errors are retried
func Client() *resty.Client {
	runOnce.Do(func() {
		restyClient = resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Charset", "utf-8").
			SetTimeout(defaultTimeout).
			SetRetryCount(retryCount).
			SetRetryWaitTime(200 * time.Millisecond).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= http.StatusInternalServerError
			})
	})

	return restyClient
}

// Request new resty request, the request id of ctx is forwarded
func Request(ctx context.Context) *resty.Request {
	r := Client().R().SetContext(ctx)
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		r.SetHeader(headerKeyRequestID, id)
	}

	return r
}

type requestIDKey struct{}

// WithRequestID attach a request id forwarded by Request
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// ParseResponse decode a 2xx json body into obj
func ParseResponse(r *resty.Response, obj interface{}) error {
	if !r.IsSuccess() {
		return &StatusError{StatusCode: r.StatusCode(), Body: string(r.Body())}
	}

	if obj == nil {
		return nil
	}

	return json.Unmarshal(r.Body(), obj)
}
