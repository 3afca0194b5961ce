package imageutil

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// EncodedPNG is a map background ready to be inlined into an SVG.
type EncodedPNG struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Image  string `json:"image"` // base64 png
}

func (e *EncodedPNG) DataURI() string {
	return "data:image/png;base64," + e.Image
}

// TransparentWhite returns a copy of img where opaque white pixels are fully
// transparent, so the map can be laid over colored shapes.
func TransparentWhite(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 0; i+3 < len(out.Pix); i += 4 {
		if out.Pix[i] == 0xff && out.Pix[i+1] == 0xff && out.Pix[i+2] == 0xff && out.Pix[i+3] == 0xff {
			out.Pix[i+3] = 0
		}
	}
	return out
}

// Encode decodes a png (or any format imaging understands), makes white
// transparent and returns the base64 payload.
func Encode(r io.Reader) (*EncodedPNG, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	out := TransparentWhite(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}

	b := out.Bounds()
	return &EncodedPNG{
		Width:  b.Dx(),
		Height: b.Dy(),
		Image:  base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// ConvertFile writes <pngPath>.json next to the downloaded png.
func ConvertFile(pngPath string) (*EncodedPNG, error) {
	f, err := os.Open(pngPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	encoded, err := Encode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pngPath, err)
	}

	data, err := json.Marshal(encoded)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(pngPath+".json", data, 0o644); err != nil {
		return nil, err
	}
	return encoded, nil
}

// Load reads a json file written by ConvertFile.
func Load(jsonPath string) (*EncodedPNG, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var encoded EncodedPNG
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, fmt.Errorf("%s: %w", jsonPath, err)
	}
	return &encoded, nil
}
