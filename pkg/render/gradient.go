package render

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

var ErrOffsetRange = errors.New("color index out of range")

// Offset is where color i of n ends, in percent: color 1 of 4 ends at 25.
func Offset(i, n int) (float64, error) {
	if i < 1 || i > n {
		return 0, fmt.Errorf("%w: %d of %d", ErrOffsetRange, i, n)
	}
	return 100 * float64(i) / float64(n), nil
}

// SVGGradient returns a horizontal linearGradient with hard stops between the
// colors, spanning x1..x2 in user space.
func SVGGradient(colors []string, id string, x1, x2 int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%d" x2="%d">`, id, x1, x2)
	for i := 1; i < len(colors); i++ {
		offset, _ := Offset(i, len(colors))
		o := strconv.FormatFloat(offset, 'g', 4, 64)
		fmt.Fprintf(&b, `<stop offset="%s%%" stop-color="%s"></stop><stop offset="%s%%" stop-color="%s"></stop>`,
			o, colors[i-1], o, colors[i])
	}
	b.WriteString(`</linearGradient>`)
	return b.String()
}

func RandomColor() string {
	return fmt.Sprintf("#%02X%02X%02X", rand.IntN(256), rand.IntN(256), rand.IntN(256))
}
