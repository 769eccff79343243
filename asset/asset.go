// Package asset prepares static files for inline display in the rendered
// dashboard.
package asset

import (
	"encoding/base64"
	"html/template"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xh3b4sd/tracer"
)

// Image is a static picture embedded into the page as a data URI.
type Image struct {
	Mim string
	Raw []byte
}

// Read loads the image at pat. Files that are not images cause an error, so
// that a broken logo fails at startup rather than on the first page view.
func Read(pat string) (Image, error) {
	raw, err := os.ReadFile(pat)
	if err != nil {
		return Image{}, tracer.Mask(err)
	}

	mim := mimetype.Detect(raw)
	if !strings.HasPrefix(mim.String(), "image/") {
		return Image{}, tracer.Maskf(invalidImageError, "%s is %s", pat, mim.String())
	}

	return Image{Mim: mim.String(), Raw: raw}, nil
}

// URI returns the data URI of the image, safe for use in src attributes of
// html/template.
func (i Image) URI() template.URL {
	var mim string
	{
		mim = i.Mim
	}

	if idx := strings.Index(mim, ";"); idx != -1 {
		mim = mim[:idx]
	}

	return template.URL("data:" + mim + ";base64," + base64.StdEncoding.EncodeToString(i.Raw))
}
