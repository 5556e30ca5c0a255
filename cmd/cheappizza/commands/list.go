package commands

import (
	"fmt"
	"os"
	"slices"

	"github.com/ZWhitey/CheapPizza/lib/couponstore"
	"github.com/ZWhitey/CheapPizza/lib/scrapers/pizzahut"
	"github.com/ZWhitey/CheapPizza/lib/serviceutil"
	"github.com/ZWhitey/CheapPizza/lib/timezone"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listSearch *string
var listAll *bool

func init() {
	listSearch = listCmd.Flags().String("search", "", "Rank coupons by similarity to this text.")
	listAll = listCmd.Flags().Bool("all", false, "Include expired coupons.")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [--search <text>] [--all]",
	Short: "Prints the persisted coupon collection.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := openStore(cfg)

		coupons, err := store.LoadCoupons(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to load coupon collection", err)
		}
		if !*listAll {
			coupons = couponstore.FilterExpired(coupons, timezone.Now())
		}
		if *listSearch != "" {
			rankBySimilarity(coupons, *listSearch)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Code", "Title", "Original", "Price", "Valid Until", "Delivery"})
		for _, coupon := range coupons {
			t.AppendRow(table.Row{
				coupon.Code,
				coupon.Title,
				fmt.Sprintf("$%d", coupon.OriginalPrice),
				fmt.Sprintf("$%d", coupon.DiscountedPrice),
				coupon.ValidUntil,
				coupon.DeliveryType,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

// rankBySimilarity reorders coupons in place, most similar to the query
// first. A coupon scores on its title and on each of its item lines,
// whichever is closest.
func rankBySimilarity(coupons []pizzahut.Coupon, query string) {
	type ranked struct {
		similarity float64
		coupon     pizzahut.Coupon
	}
	list := make([]ranked, len(coupons))

	for i, coupon := range coupons {
		best := matchr.JaroWinkler(query, coupon.Title, false)
		for _, item := range coupon.Items {
			sim := matchr.JaroWinkler(query, item, false)
			if sim > best {
				best = sim
			}
		}
		list[i] = ranked{similarity: best, coupon: coupon}
	}

	slices.SortStableFunc(list, func(a, b ranked) int {
		// the 1 and -1 are flipped to make it sort descending (large values near the front)
		if a.similarity < b.similarity {
			return 1
		}
		if a.similarity > b.similarity {
			return -1
		}
		return 0
	})

	for i, r := range list {
		coupons[i] = r.coupon
	}
}
