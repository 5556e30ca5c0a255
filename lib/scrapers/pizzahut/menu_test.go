package pizzahut

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZWhitey/CheapPizza/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFetchCategory(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/pizzahut")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/order/menu_step1.aspx", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("cid"))

		w.Write([]byte(`<html><body>
			<div class="product-item" data-pid="501" id="product_9001">
				<a href="/order/detail.aspx?pid=501"><span class="product_name">超級總匯比薩</span></a>
				<div class="description">火腿<br>洋菇&amp;青椒</div>
				<span class="price-display">NT$435</span>
				<span class="price price-original">NT$500</span>
			</div>
			<div class="product-item" id="product_502">
				<a href="https://cdn.example.com/502"><span class="product_name">夏威夷比薩</span></a>
				<span class="price">NT$399</span>
			</div>
			<div class="product-item" id="placeholder">
				<span class="product_name">未上架</span>
			</div>
			<div class="product-item" data-pid="503">
				<div class="description">名稱缺漏的項目</div>
			</div>
		</body></html>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	products, err := client.FetchCategory(context.Background(), Category{Id: 1, Name: "比薩"})
	if err != nil {
		t.Fatal(err)
	}

	diff := cmp.Diff([]Product{
		{
			Id:            "501",
			Name:          "超級總匯比薩",
			Description:   "火腿\n洋菇&青椒",
			Price:         435,
			OriginalPrice: 500,
			Category:      "比薩",
			CategoryId:    1,
			Url:           server.URL + "/order/detail.aspx?pid=501",
		},
		{
			Id:         "502",
			Name:       "夏威夷比薩",
			Price:      399,
			Category:   "比薩",
			CategoryId: 1,
			Url:        "https://cdn.example.com/502",
		},
	}, products)
	require.Empty(t, diff)
}

func TestFetchCategoryServerError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/pizzahut")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.FetchCategory(context.Background(), Category{Id: 2, Name: "副食"})
	require.Error(t, err)
}
