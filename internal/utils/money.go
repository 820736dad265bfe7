package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRupees renders an integer rupee amount with Indian digit grouping,
// e.g. 150000 -> "Rs. 1,50,000". PDF core fonts have no rupee glyph.
func FormatRupees(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%sRs. %s", sign, groupIndian(amount))
}

// groupIndian places the first separator after three digits and every two
// digits thereafter.
func groupIndian(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
