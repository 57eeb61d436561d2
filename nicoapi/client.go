package nicoapi

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"

	"github.com/anatawa12/nico-ranking-tools/retry"
)

const (
	searchEndpoint  = "https://api.search.nicovideo.jp/api/v2/snapshot/video/contents/search"
	versionEndpoint = "https://api.search.nicovideo.jp/api/v2/snapshot/version"

	defaultTimeout = 30 * time.Second
)

var responseJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Client issues the two remote calls spec.md section 6 names. It measures
// its own request latency so callers can feed it to the rate-limit gate
// and the retry taxonomy. Built on fasthttp rather than net/http: the
// harvester's dominant cost is exactly fasthttp's target workload — many
// thousands of short-lived GETs against one host — and fasthttp's
// Request/Response pooling avoids an allocation per page fetch.
type Client struct {
	HTTP *fasthttp.Client
}

func NewClient() *Client {
	return &Client{HTTP: &fasthttp.Client{}}
}

// Search issues one paged search request and returns the decoded response
// plus the wall-clock latency of the underlying GET.
func (c *Client) Search(ctx context.Context, params QueryParams) (ResponseJSON, time.Duration, error) {
	q, err := params.Encode()
	if err != nil {
		return ResponseJSON{}, 0, errors.Wrap(err, "encoding query params")
	}
	var out ResponseJSON
	latency, err := c.getJSON(ctx, searchEndpoint, q, &out)
	return out, latency, err
}

// Version issues one snapshot-version check.
func (c *Client) Version(ctx context.Context) (Version, time.Duration, error) {
	var out VersionJSON
	latency, err := c.getJSON(ctx, versionEndpoint, nil, &out)
	return VersionFromJSON(out), latency, err
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query interface{ Encode() string }, out interface{}) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	uri := endpoint
	if query != nil {
		if q := query.Encode(); q != "" {
			uri = endpoint + "?" + q
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline := time.Now().Add(defaultTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	start := time.Now()
	err := c.HTTP.DoDeadline(req, resp, deadline)
	latency := time.Since(start)
	if err != nil {
		return latency, errors.Wrap(err, "performing request")
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return latency, errors.Wrapf(&retry.StatusError{StatusCode: status}, "GET %s", endpoint)
	}
	if err := responseJSON.Unmarshal(resp.Body(), out); err != nil {
		return latency, errors.Wrapf(&retry.DecodeError{Err: err}, "GET %s", endpoint)
	}
	return latency, nil
}
