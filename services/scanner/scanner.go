package scanner

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ZWhitey/CheapPizza/lib/couponstore"
	"github.com/ZWhitey/CheapPizza/lib/scrapers/pizzahut"
	"github.com/ZWhitey/CheapPizza/lib/timezone"

	"go.opentelemetry.io/otel/codes"
)

// Scanner runs the two scraping pipelines against one site client and
// persists whatever they find.
type Scanner struct {
	client *pizzahut.Client
	store  couponstore.Store
}

func NewScanner(client *pizzahut.Client, store couponstore.Store) Scanner {
	return Scanner{
		client: client,
		store:  store,
	}
}

// Summary is what one discovery run did, both for the meta artifact and
// for the table the CLI prints afterwards.
type Summary struct {
	ScannedRanges []string
	Probed        int
	SkippedKnown  int
	Errors        int
	NewCoupons    []pizzahut.Coupon
	Existing      int
	Total         int
}

// Scan walks every candidate code the tokens expand to, probes it,
// fetches details for hits and merges them into the persisted
// collection. Codes already in the collection are never re-probed, so
// interrupted runs pick up cheaply on the next invocation.
func (s Scanner) Scan(ctx context.Context, tokens []string) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Scan")
	defer span.End()

	existing, err := s.store.LoadCoupons(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load coupon collection")
		return Summary{}, err
	}
	retained := couponstore.FilterExpired(existing, timezone.Now())
	if dropped := len(existing) - len(retained); dropped > 0 {
		slog.InfoContext(ctx, "dropping expired coupons", "count", dropped)
	}

	known := make(map[string]bool, len(retained))
	for _, coupon := range retained {
		known[coupon.Code] = true
	}

	summary := Summary{
		ScannedRanges: tokens,
		Existing:      len(retained),
	}

	var discovered []pizzahut.Coupon
	for _, code := range ExpandRanges(ctx, tokens) {
		if known[code] {
			summary.SkippedKnown++
			slog.DebugContext(ctx, "skipping known code", "code", code)
			continue
		}

		summary.Probed++
		probe, err := s.client.ProbeCoupon(ctx, code)
		if probe.Status == pizzahut.PROBE_ERROR {
			summary.Errors++
			slog.WarnContext(ctx, "failed to probe code", "code", code, "err", err)
			continue
		}
		if probe.Status == pizzahut.PROBE_NOT_FOUND {
			slog.DebugContext(ctx, "code not redeemable", "code", code)
			continue
		}

		coupon, err := s.client.FetchCoupon(ctx, probe.TypeId, code)
		if err != nil {
			summary.Errors++
			slog.WarnContext(ctx, "failed to fetch coupon detail", "code", code, "err", err)
			continue
		}

		slog.InfoContext(ctx, "discovered coupon",
			"code", code,
			"title", coupon.Title,
			"price", coupon.DiscountedPrice,
		)
		discovered = append(discovered, coupon)
		known[code] = true
	}

	merged := append(retained, discovered...)
	summary.NewCoupons = discovered
	summary.Total = len(merged)

	// each artifact write stands alone, a failed coupons.json must not
	// block meta.json
	var saveErrs []error
	err = s.store.SaveCoupons(ctx, merged)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save coupons", "err", err)
		saveErrs = append(saveErrs, err)
	}
	err = s.store.SaveMeta(ctx, couponstore.Meta{
		LastUpdated:     timezone.Now(),
		TotalCoupons:    len(merged),
		ScannedRanges:   tokens,
		NewCouponsFound: len(discovered),
		ExistingCoupons: len(retained),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to save scan metadata", "err", err)
		saveErrs = append(saveErrs, err)
	}
	if len(saveErrs) > 0 {
		err := errors.Join(saveErrs...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist artifacts")
		return summary, err
	}

	return summary, nil
}
