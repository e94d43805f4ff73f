package imaging

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"eventify_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the whole path: a remote image is fetched, stored locally, the
// event's reference is rewritten, and the stored original is served resized.
func TestPipeline_IngestThenResize(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(testJPEG(t, 800, 600))
	}))
	defer upstream.Close()

	originals := filepath.Join(t.TempDir(), "images")
	events := newFakeEvents(&models.Event{
		BaseModel: models.BaseModel{ID: "e-pipe"},
		ImageURL:  upstream.URL + "/poster.jpg",
	})

	ing := NewIngestor(
		events,
		NewFetcher(5*time.Second, 0),
		NewStore(originals, "http://localhost:8000"),
		"http://localhost:8000",
	)
	ing.safe = func(string) bool { return true } // upstream is loopback

	require.NoError(t, ing.Ingest(context.Background(), "e-pipe"))
	require.Equal(t, "http://localhost:8000/uploads/images/event-e-pipe.jpg", events.imageURL("e-pipe"))

	r := NewResizer(originals, t.TempDir(), 85, NewDecoders())
	img, err := r.Serve(400, "event-e-pipe.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.ContentType)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}
