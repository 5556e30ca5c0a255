package pizzahut

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ZWhitey/CheapPizza/lib/htmlutil"
	"github.com/ZWhitey/CheapPizza/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// FetchCoupon loads the detail page for a probed-valid code and pulls
// out whatever fields it can. Extraction rules are independent per
// field, a page that only yields a title still produces a coupon.
func (c *Client) FetchCoupon(ctx context.Context, typeId, code string) (Coupon, error) {
	ctx, span := tracer.Start(ctx, "client:FetchCoupon")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"type": typeId,
			"code": code,
		}).
		Get("/order/coupon_step1.aspx")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return Coupon{}, err
	}
	if res.IsError() {
		err = fmt.Errorf("unexpected status: %s", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return Coupon{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Coupon{}, err
	}

	return c.extractCoupon(doc, code), nil
}

func (c *Client) extractCoupon(doc *goquery.Document, code string) Coupon {
	title := extractTitle(doc, code)
	items := extractItems(doc)
	bodyText := textutil.NormalizeSpace(doc.Find("body").Text())

	discounted := extractDiscountedPrice(doc)
	original := c.extractOriginalPrice(doc, title, items, discounted)

	coupon := Coupon{
		Code:            code,
		Title:           title,
		Items:           items,
		OriginalPrice:   original,
		DiscountedPrice: discounted,
		ValidUntil:      extractValidUntil(bodyText),
		DeliveryType:    extractDeliveryType(title, bodyText),
	}
	if min, ok := c.extractMinPurchase(title, items, bodyText); ok {
		coupon.MinPurchasePrice = min
	}
	return coupon
}

func extractTitle(doc *goquery.Document, code string) string {
	title := strings.TrimSpace(doc.Find("h1.coupon-title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("span.product_name").First().Text())
	}
	if title == "" {
		title = "優惠券 " + code
	}
	return textutil.NormalizeSpace(title)
}

func extractDiscountedPrice(doc *goquery.Document) int {
	if amount, ok := textutil.FirstAmount(doc.Find(".price-display").First().Text()); ok {
		return amount
	}
	sel := doc.Find(".price").Not(".price-original").Not(".price-display")
	if amount, ok := textutil.FirstAmount(sel.First().Text()); ok {
		return amount
	}
	return 0
}

var maxValueRegex = regexp.MustCompile(`最高價值\s*(?:NT)?\$?\s*([\d,]+(?:\.\d+)?)`)

func (c *Client) extractOriginalPrice(doc *goquery.Document, title string, items []string, discounted int) int {
	if amount, ok := textutil.FirstAmount(doc.Find(".price-original").First().Text()); ok {
		return amount
	}

	text := title + "\n" + strings.Join(items, "\n")
	if m := maxValueRegex.FindStringSubmatch(text); m != nil {
		if amount, ok := textutil.ParseAmount(m[1]); ok {
			return amount
		}
	}

	if discounted > 0 {
		return int(math.Round(float64(discounted) * c.extract.OriginalPriceMultiplier))
	}
	return 0
}

// extractItems reads the package contents list, falling back to the
// description block when the list is absent or yields nothing.
func extractItems(doc *goquery.Document) []string {
	items := htmlutil.Lines(doc.Find("ul.package-contents").First())
	if items == nil {
		items = htmlutil.Lines(doc.Find("div.description").First())
	}
	if items == nil {
		return []string{}
	}
	return items
}

var validUntilRegex = regexp.MustCompile(`有效期限\s*[:：]\s*(\d{4})[/-](\d{1,2})[/-](\d{1,2})`)

func extractValidUntil(bodyText string) string {
	m := validUntilRegex.FindStringSubmatch(bodyText)
	if m == nil {
		return ""
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

var (
	minInclusiveRegex = regexp.MustCompile(`(?:NT\$?|\$)?\s*([\d,]+(?:\.\d+)?)\s*元?\s*[(（]含[)）]\s*以上`)
	comboTotalRegex   = regexp.MustCompile(`套餐總計\s*(?:NT\$?|\$)?\s*([\d,]+(?:\.\d+)?)`)
	fromAmountRegex   = regexp.MustCompile(`(?:NT\$|\$)\s*([\d,]+(?:\.\d+)?)\s*(?:元)?起|([\d,]+(?:\.\d+)?)\s*元起`)
	nineInchBogoRegex = regexp.MustCompile(`9吋[^,，。;；]*買[1一]送[1一]|買[1一]送[1一][^,，。;；]*9吋`)
	percentOffRegex   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*折`)
)

// extractMinPurchase walks the minimum-order rule cascade in priority
// order, an explicit stated amount always beats the size-class and
// percent-off fallbacks.
func (c *Client) extractMinPurchase(title string, items []string, bodyText string) (int, bool) {
	text := title + "\n" + strings.Join(items, "\n") + "\n" + bodyText

	if m := minInclusiveRegex.FindStringSubmatch(text); m != nil {
		if amount, ok := textutil.ParseAmount(m[1]); ok {
			return amount, true
		}
	}
	if m := comboTotalRegex.FindStringSubmatch(text); m != nil {
		if amount, ok := textutil.ParseAmount(m[1]); ok {
			return amount, true
		}
	}
	if m := fromAmountRegex.FindStringSubmatch(text); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if amount, ok := textutil.ParseAmount(raw); ok {
			return amount, true
		}
	}
	if nineInchBogoRegex.MatchString(text) {
		return c.extract.NineInchMinPurchase, true
	}
	if strings.Contains(text, "大比薩") {
		if m := percentOffRegex.FindStringSubmatch(text); m != nil {
			n, err := strconv.ParseFloat(m[1], 64)
			if err == nil && n > 0 {
				return int(math.Round(float64(c.extract.LargePizzaBaseline) * foldMultiplier(n))), true
			}
		}
	}
	return 0, false
}

// foldMultiplier turns the N of "N折" into a price multiplier. 7折 is
// 70%, and the two-digit spelling 85折 means 8.5折.
func foldMultiplier(n float64) float64 {
	for n >= 10 {
		n /= 10
	}
	return n / 10
}

var deliveryBoilerplateRegex = regexp.MustCompile(`外送(?:訂單滿|最低消費|服務)[^,，。;；]*`)

// extractDeliveryType classifies how a coupon may be redeemed. A
// restriction stated in the title wins outright; otherwise the body is
// consulted after delivery-fee disclaimer clauses are stripped, since
// those mention 外送 on every page regardless of the coupon itself.
func extractDeliveryType(title, bodyText string) string {
	if strings.Contains(title, "限外送") {
		return DELIVERY_ONLY
	}
	if strings.Contains(title, "限外帶") {
		return TAKEOUT_ONLY
	}

	body := deliveryBoilerplateRegex.ReplaceAllString(bodyText, "")
	if strings.Contains(body, "限外送") {
		return DELIVERY_ONLY
	}
	if strings.Contains(body, "限外帶") {
		return TAKEOUT_ONLY
	}

	delivery := strings.Contains(body, "外送")
	takeout := strings.Contains(body, "外帶")
	switch {
	case delivery && takeout:
		return DELIVERY_TAKEOUT
	case delivery:
		return DELIVERY_ONLY
	case takeout:
		return TAKEOUT_ONLY
	}
	return ""
}
