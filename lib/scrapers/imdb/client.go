package imdb

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"showgraph-backend/lib/telemetry"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/imdb")

// the upstream blocks requests that do not look like they come from a
// browser, so the user agent and accept-language headers are required
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// BaseUrl overrides https://www.imdb.com, used by tests to point the
	// client at a fixture server.
	BaseUrl string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = "https://www.imdb.com"
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept-language", "en-US,en;q=0.9")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 10)

	telemetry.InstrumentResty(client, "scrapers/imdb/http")

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}
	return c, nil
}

func (c *Client) getDocument(ctx context.Context, path string, query map[string]string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", res.StatusCode(), path)
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}
