package pizzahut

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ZWhitey/CheapPizza/lib/htmlutil"
	"github.com/ZWhitey/CheapPizza/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var productIdSuffixRegex = regexp.MustCompile(`(\d+)$`)

// FetchCategory scrapes one menu listing page. Blocks missing an id or
// a name are dropped, the site pads its grids with placeholder cells.
func (c *Client) FetchCategory(ctx context.Context, category Category) ([]Product, error) {
	ctx, span := tracer.Start(ctx, "client:FetchCategory")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"cid": strconv.Itoa(category.Id),
		}).
		Get("/order/menu_step1.aspx")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	if res.IsError() {
		err = fmt.Errorf("unexpected status: %s", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	var products []Product
	doc.Find("div.product-item").Each(func(_ int, block *goquery.Selection) {
		product, ok := c.extractProduct(ctx, block, category)
		if !ok {
			slog.DebugContext(ctx, "skipping incomplete product block",
				"category", category.Name,
				"id", block.AttrOr("id", ""),
			)
			return
		}
		products = append(products, product)
	})

	return products, nil
}

func (c *Client) extractProduct(ctx context.Context, block *goquery.Selection, category Category) (Product, bool) {
	id := block.AttrOr("data-pid", "")
	if id == "" {
		id = productIdSuffixRegex.FindString(block.AttrOr("id", ""))
	}
	name := strings.TrimSpace(block.Find("span.product_name").First().Text())
	if id == "" || name == "" {
		return Product{}, false
	}

	product := Product{
		Id:         id,
		Name:       textutil.NormalizeSpace(name),
		Category:   category.Name,
		CategoryId: category.Id,
	}

	product.Description = htmlutil.FlattenMarkup(block.Find("div.description").First())

	if amount, ok := textutil.FirstAmount(block.Find("span.price-display").First().Text()); ok {
		product.Price = amount
	} else {
		sel := block.Find("span.price").Not(".price-original").Not(".price-display")
		if amount, ok := textutil.FirstAmount(sel.First().Text()); ok {
			product.Price = amount
		}
	}
	if amount, ok := textutil.FirstAmount(block.Find("span.price-original").First().Text()); ok {
		product.OriginalPrice = amount
	}

	anchors := htmlutil.GetAnchors(ctx, block.Find("a"))
	if len(anchors) > 0 && anchors[0].Href != "" {
		product.Url = c.resolveUrl(anchors[0].Href)
	}

	return product, true
}

func (c *Client) resolveUrl(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return c.BaseUrl.ResolveReference(parsed).String()
}
