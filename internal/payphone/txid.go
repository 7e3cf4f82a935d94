package payphone

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Client transaction ids take the form "do{draftOrderID}_{unixMillis}". The
// numeric portion is the only durable link back to the draft order; the
// timestamp suffix just lowers collision odds across repeated checkouts.
var tidPattern = regexp.MustCompile(`^do(\d+)_\d+$`)

// MintTID builds a client transaction id for a draft order.
func MintTID(draftOrderID int64) string {
	return fmt.Sprintf("do%d_%d", draftOrderID, time.Now().UnixMilli())
}

// ParseTID recovers the draft order id from a client transaction id. A false
// return means the tid was tampered with or corrupted in the round-trip and
// must never reach the finalize call.
func ParseTID(tid string) (int64, bool) {
	m := tidPattern.FindStringSubmatch(tid)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
