package lib

import (
	"fmt"
	"strings"
)

const invalidChars = string(rune(0)) + string(rune(1)) + " "

// Trim strips the padding characters fixed-width tag fields carry.
func Trim(s string) string {
	return strings.Trim(s, invalidChars)
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// HumanSize renders a byte count the way the CLI displays payloads.
func HumanSize(n int) string {
	i := 0
	f := float32(n)

	for ; i < len(sizeUnits)-1; i++ {
		if f < 1000 {
			break
		}

		f /= 1000
	}

	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")

	return fmt.Sprintf("%s %s", s, sizeUnits[i])
}
