package order

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
)

// numberPrefix starts every human-readable order number.
const numberPrefix = "ORD-"

// stampLayout is the timestamp portion of an order number, second resolution.
const stampLayout = "20060102150405"

// ErrBadOrderNumber is returned by ParseNumberTime for malformed input.
var ErrBadOrderNumber = errors.New("malformed order number")

// Numberer mints order numbers of the form ORD-YYYYMMDDHHMMSS. The timestamp
// alone is only unique to one-second resolution, so numbers minted within the
// same second get a monotonic "-N" suffix (starting at -2). A uniqueness
// constraint on the orders table backstops the generator across processes.
type Numberer struct {
	now func() time.Time

	mu   sync.Mutex
	last string
	seq  int
}

// NewNumberer creates a Numberer using the wall clock.
func NewNumberer() *Numberer {
	return &Numberer{now: time.Now}
}

// NewNumbererAt creates a Numberer with an injected clock, for tests.
func NewNumbererAt(now func() time.Time) *Numberer {
	return &Numberer{now: now}
}

// Next returns the order number for an order created now.
func (n *Numberer) Next() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	base := numberPrefix + n.now().UTC().Format(stampLayout)
	if base == n.last {
		n.seq++
		return base + "-" + strconv.Itoa(n.seq)
	}
	n.last = base
	n.seq = 1
	return base
}

// ParseNumberTime recovers the creation timestamp from an order number,
// ignoring any same-second suffix. The result is truncated to the second.
func ParseNumberTime(number string) (time.Time, error) {
	rest, ok := strings.CutPrefix(number, numberPrefix)
	if !ok {
		return time.Time{}, errors.Wrapf(ErrBadOrderNumber, "missing %q prefix", numberPrefix)
	}
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		rest = rest[:i]
	}
	ts, err := time.Parse(stampLayout, rest)
	if err != nil {
		return time.Time{}, errors.Wrap(ErrBadOrderNumber, err.Error())
	}
	return ts, nil
}
