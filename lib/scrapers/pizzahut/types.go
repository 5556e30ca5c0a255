package pizzahut

// Coupon is one discovered promo code with whatever fields the detail
// page gave up. It is persisted verbatim to coupons.json, so the json
// tags here are the contract with the front end.
type Coupon struct {
	Code            string   `json:"code"`
	Title           string   `json:"title"`
	Items           []string `json:"items"`
	OriginalPrice   int      `json:"originalPrice"`
	DiscountedPrice int      `json:"discountedPrice"`
	// ValidUntil is "YYYY-MM-DD" or "" when the page never stated one.
	ValidUntil       string `json:"validUntil"`
	MinPurchasePrice int    `json:"minPurchasePrice,omitempty"`
	DeliveryType     string `json:"deliveryType,omitempty"`
}

const (
	DELIVERY_ONLY    = "delivery"
	TAKEOUT_ONLY     = "takeout"
	DELIVERY_TAKEOUT = "both"
)

// Product is one menu entry, persisted verbatim to menu.json.
type Product struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int    `json:"price"`
	OriginalPrice int    `json:"originalPrice,omitempty"`
	Category      string `json:"category"`
	CategoryId    int    `json:"categoryId"`
	Url           string `json:"url"`
}

// Category identifies one menu listing page (menu_step1.aspx?cid=<Id>).
type Category struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type ProbeStatus int

const (
	PROBE_VALID ProbeStatus = iota
	PROBE_NOT_FOUND
	PROBE_ERROR
)

func (s ProbeStatus) String() string {
	switch s {
	case PROBE_VALID:
		return "valid"
	case PROBE_NOT_FOUND:
		return "not_found"
	default:
		return "error"
	}
}

// ProbeResult reports whether a candidate code is redeemable. TypeId is
// only meaningful when Status is PROBE_VALID; it selects which detail
// page variant the site renders for the code.
type ProbeResult struct {
	Status ProbeStatus
	TypeId string
}
