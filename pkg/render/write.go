package render

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/yumyai/keggmap/pkg/imageutil"
	"github.com/yumyai/keggmap/pkg/model"
)

// WriteSVGZ renders m gzip-compressed at the best compression level.
func (r *Renderer) WriteSVGZ(w io.Writer, m *model.KeggMap, bg *imageutil.EncodedPNG, color ColorFunc) error {
	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return err
	}
	if err := r.WriteSVG(zw, m, bg, color); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// SaveFile writes m to path, compressed when svgz is set.
func (r *Renderer) SaveFile(path string, m *model.KeggMap, bg *imageutil.EncodedPNG, color ColorFunc, svgz bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if svgz {
		err = r.WriteSVGZ(bw, m, bg, color)
	} else {
		err = r.WriteSVG(bw, m, bg, color)
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
