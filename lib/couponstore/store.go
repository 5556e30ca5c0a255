package couponstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ZWhitey/CheapPizza/lib/scrapers/pizzahut"
	"github.com/ZWhitey/CheapPizza/lib/timezone"

	"github.com/mazen160/go-random"
)

const (
	CouponsFile = "coupons.json"
	MetaFile    = "meta.json"
	MenuFile    = "menu.json"
)

// Meta describes the last scan run. The front end shows lastUpdated and
// the counters next to the coupon table.
type Meta struct {
	LastUpdated     time.Time `json:"lastUpdated"`
	TotalCoupons    int       `json:"totalCoupons"`
	ScannedRanges   []string  `json:"scannedRanges"`
	NewCouponsFound int       `json:"newCouponsFound"`
	ExistingCoupons int       `json:"existingCoupons"`
}

// Store reads and writes the JSON artifacts the front end fetches. All
// writes go through a temp file and a rename so a reader never sees a
// torn artifact under the final name.
type Store struct {
	dir string
}

func NewStore(dir string) (Store, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return Store{}, err
	}
	return Store{dir: dir}, nil
}

func (s Store) Dir() string {
	return s.dir
}

// LoadCoupons decodes the persisted collection. A missing file is the
// first-run case, not an error.
func (s Store) LoadCoupons(ctx context.Context) ([]pizzahut.Coupon, error) {
	contents, err := os.ReadFile(filepath.Join(s.dir, CouponsFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var coupons []pizzahut.Coupon
	err = json.Unmarshal(contents, &coupons)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", CouponsFile, err)
	}
	return coupons, nil
}

func (s Store) SaveCoupons(ctx context.Context, coupons []pizzahut.Coupon) error {
	if coupons == nil {
		coupons = []pizzahut.Coupon{}
	}
	return s.writeArtifact(ctx, CouponsFile, coupons)
}

func (s Store) SaveMeta(ctx context.Context, meta Meta) error {
	if meta.ScannedRanges == nil {
		meta.ScannedRanges = []string{}
	}
	return s.writeArtifact(ctx, MetaFile, meta)
}

func (s Store) SaveMenu(ctx context.Context, products []pizzahut.Product) error {
	if products == nil {
		products = []pizzahut.Product{}
	}
	return s.writeArtifact(ctx, MenuFile, products)
}

func (s Store) writeArtifact(ctx context.Context, name string, value any) error {
	contents, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	suffix, err := random.String(8)
	if err != nil {
		return err
	}
	tmp := filepath.Join(s.dir, fmt.Sprintf(".%s.%s", name, suffix))

	err = os.WriteFile(tmp, contents, 0644)
	if err != nil {
		os.Remove(tmp)
		slog.DebugContext(ctx, "unwritten artifact payload", "name", name, "payload", string(contents))
		return fmt.Errorf("write %s: %w", name, err)
	}
	err = os.Rename(tmp, filepath.Join(s.dir, name))
	if err != nil {
		os.Remove(tmp)
		slog.DebugContext(ctx, "unwritten artifact payload", "name", name, "payload", string(contents))
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// FilterExpired drops coupons whose validUntil parses to a calendar day
// strictly before now's day in the site's timezone. Records with an
// empty or unparseable validUntil are kept, an unknown expiry is not
// the same thing as a past one.
func FilterExpired(coupons []pizzahut.Coupon, now time.Time) []pizzahut.Coupon {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, timezone.Location)

	kept := make([]pizzahut.Coupon, 0, len(coupons))
	for _, coupon := range coupons {
		expiry, ok := parseValidUntil(coupon.ValidUntil)
		if ok && expiry.Before(today) {
			continue
		}
		kept = append(kept, coupon)
	}
	return kept
}

func parseValidUntil(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2006/01/02"} {
		t, err := time.ParseInLocation(layout, s, timezone.Location)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
