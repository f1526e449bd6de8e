package sqlstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/simaogato/portfolio-backend/internal/domain"
)

// TimestampLayout is the storage format of created_at/updated_at.
// Fixed width, so text columns sort chronologically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// timeValue scans DATE and timestamp columns whether the driver returns
// time.Time (postgres) or text (sqlite)
type timeValue struct {
	t      time.Time
	layout string
}

func (v *timeValue) Scan(src interface{}) error {
	switch s := src.(type) {
	case time.Time:
		v.t = s.UTC()
		return nil
	case string:
		return v.parse(s)
	case []byte:
		return v.parse(string(s))
	case nil:
		return fmt.Errorf("unexpected NULL time value")
	default:
		return fmt.Errorf("unsupported time value type %T", src)
	}
}

func (v *timeValue) parse(s string) error {
	t, err := time.Parse(v.layout, s)
	if err != nil {
		// postgres may render timestamps in its own text format
		if t, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return fmt.Errorf("failed to parse time %q: %w", s, err)
		}
	}
	v.t = t.UTC()
	return nil
}

func dateArg(t time.Time) string {
	return domain.NormalizeDate(t).Format(domain.DateLayout)
}

func timestampArg(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// monotonicClock hands out strictly increasing microsecond timestamps,
// so creation order survives the storage precision
type monotonicClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func (c *monotonicClock) stamp() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now
	if c.now != nil {
		now = c.now
	}

	t := now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
