package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// YearMonth identifies one dated publication of the dataset (a snapshot).
type YearMonth struct {
	Year  int
	Month time.Month
}

func ParseYearMonth(s string) (YearMonth, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return YearMonth{}, fmt.Errorf("invalid format (expected YYYY-MM): %q", s)
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return YearMonth{}, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return YearMonth{}, err
	}
	if m < 1 || m > 12 {
		return YearMonth{}, fmt.Errorf("invalid month: %d", m)
	}
	return YearMonth{Year: y, Month: time.Month(m)}, nil
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// After reports whether ym is a later snapshot than other.
func (ym YearMonth) After(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year > other.Year
	}
	return ym.Month > other.Month
}
