package input

import (
	"strconv"
	"strings"
	"time"
)

// DefaultDelay is used whenever the delay field does not hold a usable
// millisecond count.
const DefaultDelay = 500 * time.Millisecond

// ParseNumbers splits text on whitespace and keeps the tokens that parse as
// integers. Malformed tokens are dropped without error.
func ParseNumbers(text string) []int {
	fields := strings.Fields(text)
	numbers := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// ParseDelay reads a millisecond count. Anything unparsable or negative
// yields DefaultDelay.
func ParseDelay(text string) time.Duration {
	ms, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || ms < 0 {
		return DefaultDelay
	}
	return time.Duration(ms) * time.Millisecond
}

// FormatNumbers is the inverse of ParseNumbers for well-formed input.
func FormatNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
