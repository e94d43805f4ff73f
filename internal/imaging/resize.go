package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	// Register the decoders the resizer can handle. WEBP comes from
	// golang.org/x/image; the rest are standard library.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// AllowedWidths is the fixed set of resize buckets. Arbitrary widths are
// snapped to the closest bucket to keep the cache bounded.
var AllowedWidths = []int{100, 200, 400, 600, 800, 1200, 1600}

var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+\.(jpg|jpeg|png|gif|webp)$`)

var (
	ErrInvalidFilename = errors.New("invalid image filename")
	ErrImageNotFound   = errors.New("image not found")
)

// Decoders is the injected image-processing capability. Callers branch on
// Available instead of consulting a hidden global, and the resizer degrades
// to serving originals for formats it cannot decode.
type Decoders struct {
	formats map[string]bool
}

// NewDecoders describes the formats registered in this binary.
func NewDecoders() *Decoders {
	return &Decoders{formats: map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}}
}

func (d *Decoders) Available(format string) bool {
	return d.formats[format]
}

// ServedImage is a resize result ready to be written to a response.
type ServedImage struct {
	Data        []byte
	ContentType string
}

// Resizer serves stored originals at requested widths, lazily materializing
// and caching each (width, filename) variant. A cached variant is valid only
// while its modification time is at or after the original's, so overwriting
// an original implicitly invalidates every width.
type Resizer struct {
	originals string
	cacheDir  string
	quality   int
	decoders  *Decoders
	group     singleflight.Group
}

func NewResizer(originalsDir, cacheDir string, quality int, decoders *Decoders) *Resizer {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if decoders == nil {
		decoders = NewDecoders()
	}
	return &Resizer{
		originals: originalsDir,
		cacheDir:  cacheDir,
		quality:   quality,
		decoders:  decoders,
	}
}

// SnapWidth maps a requested width onto the closest allowed bucket; ties go
// to the earlier bucket.
func SnapWidth(requested int) int {
	closest := AllowedWidths[0]
	for _, w := range AllowedWidths {
		if abs(w-requested) < abs(closest-requested) {
			closest = w
		}
	}
	return closest
}

// Serve returns the image bytes for filename at the given width. The
// filename is reduced to its base name and validated before any filesystem
// access happens.
func (r *Resizer) Serve(width int, filename string) (*ServedImage, error) {
	filename = filepath.Base(filename)
	if !filenamePattern.MatchString(filename) {
		return nil, ErrInvalidFilename
	}
	width = SnapWidth(width)

	origPath := filepath.Join(r.originals, filename)
	origInfo, err := os.Stat(origPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("stat original: %w", err)
	}

	cachePath := filepath.Join(r.cacheDir, strconv.Itoa(width), filename)
	if cached := r.readFreshCache(cachePath, origInfo); cached != nil {
		return cached, nil
	}

	// Collapse concurrent first-requests for the same variant: resizing is
	// deterministic, so one computation serves everyone.
	key := strconv.Itoa(width) + "/" + filename
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		return r.produce(origPath, cachePath, width)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ServedImage), nil
}

// readFreshCache returns the cached variant when it is at least as new as
// the original, nil otherwise.
func (r *Resizer) readFreshCache(cachePath string, origInfo os.FileInfo) *ServedImage {
	info, err := os.Stat(cachePath)
	if err != nil || info.ModTime().Before(origInfo.ModTime()) {
		return nil
	}
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil
	}
	return &ServedImage{Data: data, ContentType: http.DetectContentType(data)}
}

func (r *Resizer) produce(origPath, cachePath string, width int) (*ServedImage, error) {
	orig, err := os.ReadFile(origPath)
	if err != nil {
		return nil, fmt.Errorf("reading original: %w", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(orig))
	if err != nil || !r.decoders.Available(format) {
		// Unsupported or corrupt image: degrade to the original bytes
		// rather than failing the request.
		return &ServedImage{Data: orig, ContentType: http.DetectContentType(orig)}, nil
	}

	img, format, err := image.Decode(bytes.NewReader(orig))
	if err != nil {
		return &ServedImage{Data: orig, ContentType: http.DetectContentType(orig)}, nil
	}

	var out *ServedImage
	bounds := img.Bounds()
	if bounds.Dx() <= width {
		// Never upscale. The original bytes are still cached under this
		// width so subsequent requests hit the cache.
		out = &ServedImage{Data: orig, ContentType: http.DetectContentType(orig)}
	} else {
		data, err := r.resizeToJPEG(img, bounds, width)
		if err != nil {
			return &ServedImage{Data: orig, ContentType: http.DetectContentType(orig)}, nil
		}
		out = &ServedImage{Data: data, ContentType: "image/jpeg"}
	}

	if err := writeCacheFile(cachePath, out.Data); err != nil {
		return nil, fmt.Errorf("writing cache file: %w", err)
	}
	return out, nil
}

// resizeToJPEG scales the image to the target width at preserved aspect
// ratio and encodes JPEG at the configured quality. Every cached variant is
// JPEG regardless of source format; transparent source pixels are composited
// onto white first, since JPEG carries no alpha channel.
func (r *Resizer) resizeToJPEG(img image.Image, bounds image.Rectangle, width int) ([]byte, error) {
	targetHeight := int(math.Round(float64(bounds.Dy()) * float64(width) / float64(bounds.Dx())))
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, targetHeight))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCacheFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
