// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/hashicorp-forge/sling-transport/internal/log"
	istrings "github.com/hashicorp-forge/sling-transport/internal/strings"
	"github.com/hashicorp-forge/sling-transport/internal/trace"
	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

var _ Repository = (*Client)(nil)

// Client is a Repository that talks to a Sling repository over HTTP. Commands
// created by the client are independent and can be executed concurrently.
type Client struct {
	info    RepositoryInfo
	http    *http.Client
	log     log.Logger
	binding *trace.Binding
}

type Opt func(*Client) *Client

// NewClient returns a new client for the repository described by info.
func NewClient(info RepositoryInfo, opts ...Opt) *Client {
	c := &Client{
		info:    info,
		http:    noRedirects(cleanhttp.DefaultPooledClient()),
		log:     log.NewNoopLogger(),
		binding: &trace.Binding{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// WithHTTPClient sets the HTTP client. Redirects are never followed, a
// redirect response is returned to the command as is.
func WithHTTPClient(client *http.Client) Opt {
	return func(c *Client) *Client {
		c.http = noRedirects(client)
		return c
	}
}

// WithTracer binds tracer to the client.
func WithTracer(tracer trace.Tracer) Opt {
	return func(c *Client) *Client {
		c.binding.Bind(tracer)
		return c
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Opt {
	return func(c *Client) *Client {
		c.log = l.With("repository", c.info.URL)
		return c
	}
}

func noRedirects(client *http.Client) *http.Client {
	hc := *client
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &hc
}

// Info returns the repository connection info.
func (c *Client) Info() RepositoryInfo {
	return c.info
}

// BindTracer binds tracer. Every command created by the client, including
// those created before the call, traces to it from now on.
func (c *Client) BindTracer(tracer trace.Tracer) {
	c.binding.Bind(tracer)
}

// UnbindTracer stops tracing.
func (c *Client) UnbindTracer() {
	c.binding.Unbind()
}

func (c *Client) url(path string) string {
	return istrings.JoinPath(c.info.URL, path)
}

type response struct {
	statusCode int
	body       []byte
}

// do executes the request and reads the full body. The body is closed exactly
// once on every path. Only transport failures are returned as errors, the
// status code is left to the caller.
func (c *Client) do(req *http.Request) (res *response, rerr *it.RepositoryError) {
	req.SetBasicAuth(c.info.Username, c.info.Password)

	logger := c.log.WithValues(map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})
	logger.Debug("sending request")

	hres, err := c.http.Do(req)
	if err != nil {
		return nil, it.NewTransportError(err)
	}
	defer func() {
		if err := hres.Body.Close(); err != nil {
			if rerr != nil {
				rerr.Append(fmt.Errorf("releasing connection: %w", err))
				return
			}
			logger.Debug("releasing connection", map[string]interface{}{"error": err.Error()})
		}
	}()

	body, err := io.ReadAll(hres.Body)
	if err != nil {
		return nil, it.NewTransportError(fmt.Errorf("reading response body: %w", err))
	}

	logger.Debug("received response", map[string]interface{}{
		"status": hres.StatusCode,
		"bytes":  len(body),
	})

	return &response{statusCode: hres.StatusCode, body: body}, nil
}

func isSuccessStatus(code int) bool {
	return code == http.StatusOK || code == http.StatusCreated
}

// result classifies a response. Anything other than 200 or 201 is a failure,
// including redirects.
func result[T any](res *response, err *it.RepositoryError, value func(*response) T) it.Result[T] {
	if err != nil {
		return it.Failure[T](err)
	}

	if !isSuccessStatus(res.statusCode) {
		return it.Failure[T](it.NewStatusError(res.statusCode))
	}

	return it.Success(value(res))
}

func noValue(*response) it.Void {
	return it.Void{}
}

func bodyBytes(res *response) []byte {
	return res.body
}

func bodyString(res *response) string {
	return string(res.body)
}
