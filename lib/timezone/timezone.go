package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Taipei")
	if err != nil {
		panic(err)
	}
}

// force timezone to Taipei no matter where the scraper runs, coupon
// expiry dates on the site are local calendar dates and comparing them
// against server-local time shifts the cutoff by up to a day
func Now() time.Time {
	return time.Now().In(Location)
}
