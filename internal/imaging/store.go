package imaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// extByMIME maps allowed content types to stored file extensions. The
// extension always comes from the fetched content's declared type, never
// from the URL, so a spoofed ".php" or ".html" suffix can't survive into
// the store.
var extByMIME = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ExtensionFor returns the stored extension for a MIME type, defaulting to
// jpg for anything unrecognized.
func ExtensionFor(mime string) string {
	for m, ext := range extByMIME {
		if strings.HasPrefix(mime, m) {
			return ext
		}
	}
	return "jpg"
}

// Filename is the canonical stored name for an event's image. One file per
// event: re-ingestion overwrites rather than accumulates.
func Filename(eventID, mime string) string {
	return fmt.Sprintf("event-%s.%s", eventID, ExtensionFor(mime))
}

// Store persists fetched image bytes under the originals directory and
// hands back the public reference to write onto the owning event.
type Store struct {
	dir        string
	publicBase string
}

// NewStore creates a store rooted at dir. publicBase is the externally
// visible base URL prepended to returned references; empty means
// root-relative references.
func NewStore(dir, publicBase string) *Store {
	return &Store{
		dir:        dir,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

// Save writes the image for eventID, overwriting any previous file of the
// same name, and returns the canonical public reference. The write goes
// through a temp file and rename so concurrent readers never observe a
// partial file.
func (s *Store) Save(eventID string, data []byte, mime string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating image directory: %w", err)
	}

	name := Filename(eventID, mime)
	dst := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("replacing image file: %w", err)
	}

	s.removeStaleSiblings(eventID, name)

	return s.PublicRef(name), nil
}

// removeStaleSiblings drops event-{id}.* files left from an earlier
// ingestion whose content type differed, keeping one canonical file per
// event. Removal failures are ignored; the new file already won.
func (s *Store) removeStaleSiblings(eventID, keep string) {
	for _, ext := range extByMIME {
		name := fmt.Sprintf("event-%s.%s", eventID, ext)
		if name == keep {
			continue
		}
		os.Remove(filepath.Join(s.dir, name))
	}
}

// PublicRef builds the reference stored on the owning event.
func (s *Store) PublicRef(name string) string {
	return s.publicBase + "/uploads/images/" + name
}

// Path returns the filesystem path of a stored file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Dir returns the originals directory.
func (s *Store) Dir() string {
	return s.dir
}
