package couponstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZWhitey/CheapPizza/lib/scrapers/pizzahut"
	"github.com/ZWhitey/CheapPizza/lib/timezone"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "public"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	coupons, err := store.LoadCoupons(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, coupons, 0)

	saved := []pizzahut.Coupon{
		{
			Code:            "15001",
			Title:           "大比薩買一送一",
			Items:           []string{"大比薩 x2"},
			OriginalPrice:   1330,
			DiscountedPrice: 665,
			ValidUntil:      "2026-12-31",
		},
		{
			Code:         "20004",
			Title:        "雙享優惠",
			Items:        []string{},
			DeliveryType: pizzahut.DELIVERY_TAKEOUT,
		},
	}
	err = store.SaveCoupons(ctx, saved)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadCoupons(ctx)
	if err != nil {
		t.Fatal(err)
	}
	diff := cmp.Diff(saved, loaded)
	require.Empty(t, diff)

	// the rename must not leave temp files behind for the artifact
	// server to list
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, entries, 1)
	require.Equal(t, CouponsFile, entries[0].Name())
}

func TestSaveCouponsNilRendersEmptyArray(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	err = store.SaveCoupons(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}

	contents, err := os.ReadFile(filepath.Join(store.Dir(), CouponsFile))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "[]", strings.TrimSpace(string(contents)))
}

func TestWriteFailureLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// a directory squatting on the artifact name makes the rename fail
	// after the temp file was written
	err = os.Mkdir(filepath.Join(dir, CouponsFile), 0755)
	if err != nil {
		t.Fatal(err)
	}

	err = store.SaveCoupons(ctx, []pizzahut.Coupon{{Code: "15001", Items: []string{}}})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, entries, 1)
	require.Equal(t, CouponsFile, entries[0].Name())

	// a store dir that cannot be written to makes the temp write itself
	// fail
	blocked := Store{dir: filepath.Join(dir, CouponsFile, "missing", "deeper")}
	err = blocked.SaveCoupons(ctx, nil)
	require.Error(t, err)
}

func TestSaveMeta(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	lastUpdated := time.Date(2025, 6, 15, 20, 30, 0, 0, timezone.Location)
	err = store.SaveMeta(ctx, Meta{
		LastUpdated:     lastUpdated,
		TotalCoupons:    12,
		ScannedRanges:   []string{"15000-15999"},
		NewCouponsFound: 3,
		ExistingCoupons: 9,
	})
	if err != nil {
		t.Fatal(err)
	}

	contents, err := os.ReadFile(filepath.Join(store.Dir(), MetaFile))
	if err != nil {
		t.Fatal(err)
	}

	var meta Meta
	err = json.Unmarshal(contents, &meta)
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, meta.LastUpdated.Equal(lastUpdated))
	require.Equal(t, 12, meta.TotalCoupons)
	require.Equal(t, []string{"15000-15999"}, meta.ScannedRanges)
	require.Equal(t, 3, meta.NewCouponsFound)
	require.Equal(t, 9, meta.ExistingCoupons)
}

func TestFilterExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, timezone.Location)

	coupons := []pizzahut.Coupon{
		{Code: "10001", ValidUntil: "2025-06-14"},
		{Code: "10002", ValidUntil: "2025-06-15"},
		{Code: "10003", ValidUntil: "2025-06-16"},
		{Code: "10004", ValidUntil: ""},
		{Code: "10005", ValidUntil: "no expiry stated"},
		{Code: "10006", ValidUntil: "2020/01/01"},
	}

	kept := FilterExpired(coupons, now)

	var codes []string
	for _, c := range kept {
		codes = append(codes, c.Code)
	}
	// 10001 is one day past, 10006 is long past, 10002 expires today
	// and today is not over yet
	require.Equal(t, []string{"10002", "10003", "10004", "10005"}, codes)
}
