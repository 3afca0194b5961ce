package render

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"math"

	"github.com/yumyai/keggmap/pkg/model"
)

// Paint is the coloring chosen for one shape. Color is any SVG paint ("#FF0000",
// "url(#id)"); Defs holds the definitions Color refers to.
type Paint struct {
	Color string
	Defs  template.HTML
}

// ColorFunc picks the paint of a shape. It is handed to Render per call.
type ColorFunc func(shape *model.Shape) Paint

var classColors = map[string]string{
	model.ClassEnzyme:   "#BFFFBF",
	model.ClassCompound: "#FFFFFF",
	model.ClassBrite:    "#FFD2A6",
	model.ClassMap:      "#E0E0FF",
}

const defaultColor = "#DDDDDD"

// ColorByClass paints each shape in the color of its style class; shapes with
// several classes get a gradient.
func ColorByClass(shape *model.Shape) Paint {
	classes := shape.Classes()
	colors := make([]string, 0, len(classes))
	for _, c := range classes {
		if color, ok := classColors[c]; ok {
			colors = append(colors, color)
		}
	}
	return paintColors(shape, colors)
}

// ColorRandom paints every annotation in a random color.
func ColorRandom(shape *model.Shape) Paint {
	colors := make([]string, len(shape.Annotations))
	for i := range colors {
		colors[i] = RandomColor()
	}
	return paintColors(shape, colors)
}

// ColorByAnnotation paints a gradient of the colors colorOf assigns to the
// shape's annotations; annotations without a color are left out.
func ColorByAnnotation(colorOf func(a *model.Annotation) (string, bool)) ColorFunc {
	return func(shape *model.Shape) Paint {
		var colors []string
		for _, a := range shape.Annotations.Sorted() {
			if c, ok := colorOf(a); ok {
				colors = append(colors, c)
			}
		}
		return paintColors(shape, colors)
	}
}

func paintColors(shape *model.Shape, colors []string) Paint {
	switch len(colors) {
	case 0:
		return Paint{Color: defaultColor}
	case 1:
		return Paint{Color: colors[0]}
	}
	id := gradientID(shape)
	box := shape.BoundingBox()
	return Paint{
		Color: "url(#" + id + ")",
		Defs:  template.HTML(SVGGradient(colors, id, box.X1, box.X2)),
	}
}

func gradientID(shape *model.Shape) string {
	hash := sha256.Sum256([]byte(shape.RawPosition))
	return "gradient-" + hex.EncodeToString(hash[:6])
}

// ColorByCount paints shapes by how many annotations they carry, e.g. how many
// organisms share a reaction after merging.
func ColorByCount(shape *model.Shape) Paint {
	return Paint{Color: calculateByCount(len(shape.Annotations))}
}

// calculateByCount maps a count to warm colors.
// 0 -> grey, 1..5 -> distinct YlOrRd-like buckets,
// >5 -> gradient from red to dark red up to a cap.
func calculateByCount(n int) string {
	if n <= 0 {
		return "#CCCCCC"
	}

	switch n {
	case 1:
		return "#FFFFB2" // light yellow
	case 2:
		return "#FECC5C" // yellow-orange
	case 3:
		return "#FD8D3C" // orange
	case 4:
		return "#F03B20" // red-orange
	case 5:
		return "#BD0026" // red
	}

	const capVal = 30.0
	value := min(float64(n), capVal)

	// #BD0026 -> #800000
	sr, sg, sb := 189.0, 0.0, 38.0
	er, eg, eb := 128.0, 0.0, 0.0
	t := (value - 5.0) / (capVal - 5.0)
	r := int(math.Round(lerp(sr, er, t)))
	g := int(math.Round(lerp(sg, eg, t)))
	b := int(math.Round(lerp(sb, eb, t)))
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
