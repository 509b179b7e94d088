package gtfs

import (
	"fmt"
	"strconv"
	"strings"
)

// ArrivalTimeParser converts GTFS arrival_time values into seconds past midnight.
// GTFS allows hours past 24 for trips running after midnight, those are only
// accepted when AllowExtendedHours is set.
type ArrivalTimeParser struct {
	AllowExtendedHours bool
}

func (p ArrivalTimeParser) Parse(timestamp string) (int, error) {
	splitTimestamp := strings.Split(strings.TrimSpace(timestamp), ":")

	if len(splitTimestamp) != 3 {
		return 0, fmt.Errorf("invalid arrival time %q", timestamp)
	}

	var parts [3]int
	for i, part := range splitTimestamp {
		if part == "" || len(part) > 2 && i > 0 {
			return 0, fmt.Errorf("invalid arrival time %q", timestamp)
		}

		value, err := strconv.Atoi(part)
		if err != nil || value < 0 {
			return 0, fmt.Errorf("invalid arrival time %q", timestamp)
		}
		parts[i] = value
	}

	hour, minute, second := parts[0], parts[1], parts[2]

	if minute > 59 || second > 59 {
		return 0, fmt.Errorf("invalid arrival time %q", timestamp)
	}
	if hour > 23 && !p.AllowExtendedHours {
		return 0, fmt.Errorf("arrival time %q is past midnight", timestamp)
	}

	return (hour*60+minute)*60 + second, nil
}

// ParseArrivalTime parses with extended hours allowed
func ParseArrivalTime(timestamp string) (int, error) {
	return ArrivalTimeParser{AllowExtendedHours: true}.Parse(timestamp)
}
