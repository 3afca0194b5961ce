package params

import "github.com/yumyai/keggmap/pkg/render"

type ColorMode int

const (
	ColorByClass ColorMode = iota
	ColorRandom
	ColorByCount
)

func (c ColorMode) String() string {
	switch c {
	case ColorByClass:
		return "kind"
	case ColorRandom:
		return "random"
	case ColorByCount:
		return "count"
	default:
		return "kind"
	}
}

func ParseColorMode(mode string) ColorMode {
	switch mode {
	case "random":
		return ColorRandom
	case "count", "annotation_count":
		return ColorByCount
	default:
		return ColorByClass // kind, class or nothing
	}
}

// Deterministic modes render the same document every time and may be cached.
func (c ColorMode) Deterministic() bool {
	return c != ColorRandom
}

func (c ColorMode) Func() render.ColorFunc {
	switch c {
	case ColorRandom:
		return render.ColorRandom
	case ColorByCount:
		return render.ColorByCount
	default:
		return render.ColorByClass
	}
}
