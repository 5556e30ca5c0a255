package pizzahut

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/ZWhitey/CheapPizza/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// ExtractOptions are the tuning constants the detail-page heuristics
// fall back on when the page states no explicit amount.
type ExtractOptions struct {
	// OriginalPriceMultiplier estimates a missing list price from the
	// discounted one. The site's combo deals hover around half price.
	OriginalPriceMultiplier float64
	// LargePizzaBaseline is the list price a percent-off large pizza
	// deal is computed against.
	LargePizzaBaseline int
	// NineInchMinPurchase is the assumed minimum order for nine-inch
	// buy-one-get-one deals.
	NineInchMinPurchase int
}

func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		OriginalPriceMultiplier: 2,
		LargePizzaBaseline:      565,
		NineInchMinPurchase:     199,
	}
}

type ClientOptions struct {
	BaseUrl   string
	UserAgent string
	// RequestsPerSecond paces every outbound request, <= 0 means the
	// default of 2.
	RequestsPerSecond float64
	Extract           ExtractOptions
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	extract ExtractOptions
}

// NewClient builds a paced, session-carrying client for the ordering
// site. The cookie jar holds the ASP.NET session the probe endpoint
// hands out, so every later request in the run replays it.
func NewClient(opts ClientOptions) (*Client, error) {
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

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	// max burst >= rate just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(rate.Limit(rps), 2)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	extract := opts.Extract
	defaults := DefaultExtractOptions()
	if extract.OriginalPriceMultiplier <= 0 {
		extract.OriginalPriceMultiplier = defaults.OriginalPriceMultiplier
	}
	if extract.LargePizzaBaseline <= 0 {
		extract.LargePizzaBaseline = defaults.LargePizzaBaseline
	}
	if extract.NineInchMinPurchase <= 0 {
		extract.NineInchMinPurchase = defaults.NineInchMinPurchase
	}

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
		extract: extract,
	}, nil
}

// ProbeCoupon asks the coupon AJAX endpoint whether a candidate code is
// redeemable. The returned error is non-nil exactly when Status is
// PROBE_ERROR; a clean "no such coupon" answer is not an error.
func (c *Client) ProbeCoupon(ctx context.Context, code string) (ProbeResult, error) {
	ctx, span := tracer.Start(ctx, "client:ProbeCoupon")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"Mode":       "GetAll",
			"CouponCode": code,
		}).
		Post("/AJAX/AJAXGetCoupon.aspx")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return ProbeResult{Status: PROBE_ERROR}, err
	}
	if res.IsError() {
		err = fmt.Errorf("unexpected status: %s", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return ProbeResult{Status: PROBE_ERROR}, err
	}
	if len(res.Body()) == 0 {
		err = fmt.Errorf("empty response body")
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse response")
		return ProbeResult{Status: PROBE_ERROR}, err
	}

	var payload struct {
		Success    int    `json:"Success"`
		CouponType string `json:"CouponType"`
	}
	err = json.Unmarshal(res.Body(), &payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse response")
		return ProbeResult{Status: PROBE_ERROR}, err
	}

	if payload.Success != 1 {
		return ProbeResult{Status: PROBE_NOT_FOUND}, nil
	}

	typeId := payload.CouponType
	if typeId == "" {
		typeId = "1"
	}
	return ProbeResult{Status: PROBE_VALID, TypeId: typeId}, nil
}
