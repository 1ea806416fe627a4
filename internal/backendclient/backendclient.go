package backendclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"hris-admin/internal/dashboard"
	dashboarderrors "hris-admin/internal/dashboard/errors"
	"hris-admin/internal/shared/contextutil"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client talks to the directory backend. It implements dashboard.Backend.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

var _ dashboard.Backend = (*Client)(nil)

func New(baseURL string, timeout time.Duration, logger ...*zap.Logger) *Client {
	l := zap.L().Named("backendclient")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("backendclient")
	}

	// Tidak ada retry otomatis: kegagalan dilaporkan ke user apa adanya.
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	return &Client{http: client, logger: l}
}

type envelope[T any] struct {
	Ok    bool       `json:"ok"`
	Data  T          `json:"data"`
	Error *errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token := contextutil.GetAccessToken(ctx); token != "" {
		req.SetAuthToken(token)
	}
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		req.SetHeader("X-Request-ID", rid)
	}
	return req
}

func (c *Client) FetchAll(ctx context.Context) ([]dashboard.EmployeeRecord, error) {
	var env envelope[[]userPayload]
	resp, err := c.request(ctx).
		SetResult(&env).
		SetError(&env).
		Get("/users")
	if err := c.check(ctx, "fetch users", resp, err, env.Ok, env.Error); err != nil {
		return nil, err
	}

	records := make([]dashboard.EmployeeRecord, len(env.Data))
	for i, u := range env.Data {
		records[i] = u.toRecord()
	}
	return records, nil
}

func (c *Client) ToggleLock(ctx context.Context, id string) (bool, error) {
	var env envelope[lockPayload]
	resp, err := c.request(ctx).
		SetQueryParam("id", id).
		SetResult(&env).
		SetError(&env).
		Get("/toggle-lock")
	if err := c.check(ctx, "toggle lock", resp, err, env.Ok, env.Error); err != nil {
		return false, err
	}
	return env.Data.IsLocked, nil
}

func (c *Client) SoftDelete(ctx context.Context, id string) error {
	return c.delete(ctx, "/soft-delete", id)
}

func (c *Client) HardDelete(ctx context.Context, id string) error {
	return c.delete(ctx, "/hard-delete", id)
}

func (c *Client) delete(ctx context.Context, path, id string) error {
	var env envelope[struct{}]
	resp, err := c.request(ctx).
		SetQueryParam("id", id).
		SetResult(&env).
		SetError(&env).
		Delete(path)
	return c.check(ctx, "delete user", resp, err, env.Ok, env.Error)
}

func (c *Client) Update(ctx context.Context, id string, fields dashboard.UpdateFields, photo *dashboard.Photo) (dashboard.EmployeeRecord, error) {
	form := map[string]string{
		"name":         fields.Name,
		"email":        fields.Email,
		"phone":        fields.Phone,
		"employeeCode": fields.EmployeeCode,
		"designation":  fields.Designation,
	}
	if fields.Password != "" {
		form["password"] = fields.Password
	}

	var env envelope[userPayload]
	req := c.request(ctx).
		SetMultipartFormData(form).
		SetResult(&env).
		SetError(&env)
	if photo != nil {
		req.SetMultipartField("image", photo.Filename, photo.ContentType, bytes.NewReader(photo.Content))
	}

	resp, err := req.Post("/update/" + id)
	if err := c.check(ctx, "update user", resp, err, env.Ok, env.Error); err != nil {
		return dashboard.EmployeeRecord{}, err
	}
	return env.Data.toRecord(), nil
}

// check maps a finished call onto the error taxonomy: transport errors are
// NetworkFailure, non-2xx or ok=false answers are BackendRejection.
func (c *Client) check(ctx context.Context, op string, resp *resty.Response, err error, ok bool, body *errorBody) error {
	log := contextutil.GetLogger(ctx, c.logger)

	if err != nil {
		log.Warn("backend unreachable", zap.String("op", op), zap.Error(err))
		return dashboarderrors.Network(fmt.Errorf("%s: %w", op, err))
	}

	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices && ok {
		return nil
	}

	msg := ""
	if body != nil {
		msg = body.Message
	}
	log.Warn("backend rejected request",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("message", msg),
	)
	return dashboarderrors.Rejection(msg, status)
}
