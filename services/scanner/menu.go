package scanner

import (
	"context"
	"log/slog"

	"github.com/ZWhitey/CheapPizza/lib/scrapers/pizzahut"

	"go.opentelemetry.io/otel/codes"
)

// ScanMenu fetches every configured category listing and overwrites the
// menu artifact with the concatenated results. Unlike coupons there is
// no merge, the menu is whatever the site shows right now.
func (s Scanner) ScanMenu(ctx context.Context, categories []pizzahut.Category) ([]pizzahut.Product, error) {
	ctx, span := tracer.Start(ctx, "ScanMenu")
	defer span.End()

	var products []pizzahut.Product
	for _, category := range categories {
		found, err := s.client.FetchCategory(ctx, category)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch category",
				"category", category.Name,
				"cid", category.Id,
				"err", err,
			)
			continue
		}
		slog.InfoContext(ctx, "fetched category",
			"category", category.Name,
			"products", len(found),
		)
		products = append(products, found...)
	}

	err := s.store.SaveMenu(ctx, products)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save menu", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist menu")
		return products, err
	}
	return products, nil
}
