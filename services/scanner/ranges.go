package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ExpandRanges turns scan tokens ("15001", "15000-15999") into the
// ordered list of zero-padded candidate codes. Malformed tokens are
// dropped without failing the run, a typo in one range should not
// cancel the others.
func ExpandRanges(ctx context.Context, tokens []string) []string {
	var codes []string
	for _, token := range tokens {
		start, end, ok := parseRangeToken(token)
		if !ok {
			slog.DebugContext(ctx, "skipping malformed range token", "token", token)
			continue
		}
		for code := start; code <= end; code++ {
			codes = append(codes, fmt.Sprintf("%05d", code))
		}
	}
	return codes
}

func parseRangeToken(token string) (int, int, bool) {
	token = strings.TrimSpace(token)
	startStr, endStr, isRange := strings.Cut(token, "-")

	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil || start < 0 {
		return 0, 0, false
	}
	if !isRange {
		return start, start, true
	}

	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil || end < start {
		return 0, 0, false
	}
	return start, end, true
}
