package hearthpwn

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDust decodes the listing's dust column shorthand: thousands
// separators are stripped and a trailing "k" stands in for two zeros,
// so "1.2k" -> "1.200" -> 1200. Input malformed beyond that shorthand
// is out of scope and may decode to nonsense rather than fail.
func ParseDust(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "k", "00")
	s = strings.ReplaceAll(s, ".", "")
	return strconv.ParseInt(s, 10, 64)
}

func ParseRating(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

func ParseEpoch(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

// maxPatch picks the numerically largest patch id, blanks filtered out.
func maxPatch(options []string) (string, error) {
	best := ""
	var bestValue int64
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		value, err := strconv.ParseInt(opt, 10, 64)
		if err != nil {
			return "", fmt.Errorf("non-numeric patch option %q: %w", opt, err)
		}
		if best == "" || value > bestValue {
			best = opt
			bestValue = value
		}
	}
	if best == "" {
		return "", fmt.Errorf("no patch options found")
	}
	return best, nil
}
