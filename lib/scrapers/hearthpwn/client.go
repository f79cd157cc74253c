package hearthpwn

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"hearthcorpus/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scrapers/hearthpwn")

const DefaultBaseUrl = "http://www.hearthpwn.com"

type ClientOptions struct {
	BaseUrl string
	// value of the Auth.Session cookie, passed through as an opaque
	// credential; only needed for the collection endpoint
	AuthSession string
	// upper bound on requests per second against the site, shared by
	// every concurrent fetch through this client
	RequestsPerSecond float64
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	limiter *rate.Limiter
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	if opts.AuthSession != "" {
		client.SetCookie(&http.Cookie{
			Name:  "Auth.Session",
			Value: opts.AuthSession,
		})
	}

	telemetry.InstrumentResty(client, "scrapers/hearthpwn/http")

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

func (c *Client) get(ctx context.Context, path string) (*resty.Response, error) {
	err := c.limiter.Wait(ctx)
	if err != nil {
		return nil, err
	}
	res, err := c.Http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("GET %s: %s", path, res.Status())
	}
	return res, nil
}

func (c *Client) document(ctx context.Context, path string) (*goquery.Document, error) {
	res, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}
