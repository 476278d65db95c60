package httpclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/thorbond/bond-indexer/pkg/logger"
	"github.com/valyala/fasthttp"
)

// DefaultTimeout bounds every request that carries no context deadline.
const DefaultTimeout = 15 * time.Second

type Config struct {
	// Enable debug mode
	Debug bool

	// Default headers
	Headers map[string]string

	// Timeout overrides DefaultTimeout when a request context has no deadline.
	Timeout time.Duration
}

type Client struct {
	baseURL *url.URL
	Config
}

func New(baseURL string, config ...Config) (*Client, error) {
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse base url")
	}
	var cf Config
	if len(config) > 0 {
		cf = config[0]
	}
	if len(cf.Headers) == 0 {
		cf.Headers = make(map[string]string)
	}
	if cf.Timeout <= 0 {
		cf.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: parsedBaseURL,
		Config:  cf,
	}, nil
}

type RequestOptions struct {
	path   string
	method string
	Body   []byte
	Query  url.Values
	Header map[string]string
}

type HttpResponse struct {
	URL string
	fasthttp.Response
}

func (r *HttpResponse) UnmarshalBody(out any) error {
	body, err := r.BodyUncompressed()
	if err != nil {
		return errors.Wrapf(err, "can't uncompress body from %v", r.URL)
	}
	contentType := strings.ToLower(string(r.Header.ContentType()))
	if !strings.HasPrefix(contentType, "application/json") {
		return errors.Errorf("unsupported content type: %s, contents: %v", contentType, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "can't unmarshal json body from %s, %q", r.URL, string(body))
	}
	return nil
}

func (h *Client) request(ctx context.Context, reqOptions RequestOptions) (*HttpResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	start := time.Now()
	req := fasthttp.AcquireRequest()
	req.Header.SetMethod(reqOptions.method)
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range reqOptions.Header {
		req.Header.Set(k, v)
	}

	parsedUrl := h.BaseURL()
	parsedUrl.Path = path.Join(parsedUrl.Path, reqOptions.path)
	parsedUrl.RawQuery = reqOptions.Query.Encode()
	url := parsedUrl.String()
	req.SetRequestURI(url)
	if reqOptions.Body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(reqOptions.Body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = start.Add(h.Timeout)
	}

	resp := fasthttp.AcquireResponse()
	defer func() {
		if h.Debug {
			logger.With(
				slog.String("method", reqOptions.method),
				slog.String("url", url),
				slog.Duration("duration", time.Since(start)),
				slog.Int("status_code", resp.StatusCode()),
				slog.Int("resp_content_length", len(resp.Body())),
			).InfoContext(ctx, "Finished make request", slog.String("package", "httpclient"))
		}

		fasthttp.ReleaseResponse(resp)
		fasthttp.ReleaseRequest(req)
	}()

	if err := fasthttp.DoDeadline(req, resp, deadline); err != nil {
		return nil, errors.Wrapf(err, "url: %s", url)
	}

	httpResponse := HttpResponse{
		URL: url,
	}
	resp.CopyTo(&httpResponse.Response)

	return &httpResponse, nil
}

// BaseURL returns the cloned base URL of the client.
func (h *Client) BaseURL() *url.URL {
	u := *h.baseURL
	return &u
}

func (h *Client) Get(ctx context.Context, path string, reqOptions RequestOptions) (*HttpResponse, error) {
	reqOptions.path = path
	reqOptions.method = fasthttp.MethodGet
	return h.request(ctx, reqOptions)
}

func (h *Client) Post(ctx context.Context, path string, reqOptions RequestOptions) (*HttpResponse, error) {
	reqOptions.path = path
	reqOptions.method = fasthttp.MethodPost
	return h.request(ctx, reqOptions)
}
