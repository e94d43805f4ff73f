package imaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventify_backend/internal/imaging/urlcheck"
	"eventify_backend/internal/logger"
	"eventify_backend/internal/models"
)

// ErrEventGone is returned by EventSource implementations when the event no
// longer exists. Ingestion treats it as a signal to abort quietly.
var ErrEventGone = errors.New("event no longer exists")

// EventSource is the slice of the event repository ingestion needs: reading
// the current entity state and persisting the image reference without
// re-triggering ingestion hooks.
type EventSource interface {
	FindByID(ctx context.Context, id string) (*models.Event, error)
	// UpdateImageURLQuietly writes only the image_url column. It must not run
	// any save hooks or dispatch further ingestion, and it must return
	// ErrEventGone when the row no longer exists.
	UpdateImageURLQuietly(ctx context.Context, id, imageURL string) error
}

// Ingestor ties the SSRF validator, the bounded fetcher, and the local store
// together. It is safe to run the same ingestion more than once: the store
// overwrites deterministically and the final reference is identical.
type Ingestor struct {
	events     EventSource
	fetcher    *Fetcher
	store      *Store
	publicBase string
	safe       func(string) bool
}

func NewIngestor(events EventSource, fetcher *Fetcher, store *Store, publicBase string) *Ingestor {
	return &Ingestor{
		events:     events,
		fetcher:    fetcher,
		store:      store,
		publicBase: strings.TrimRight(publicBase, "/"),
		safe:       urlcheck.IsSafe,
	}
}

// Ingest makes the event's image local. Validation and fetch failures are
// logged and swallowed, leaving the event's previous image_url in place;
// only storage or persistence failures surface as errors, since those must
// fail the current task rather than silently succeed.
//
// The event is re-read by ID on every run, so an async invocation acts on
// current state; if the event was deleted in the meantime nothing is written.
func (ing *Ingestor) Ingest(ctx context.Context, eventID string) error {
	log := logger.FromContext(ctx)

	ev, err := ing.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventGone) {
			log.Debug("skipping ingestion, event is gone", "event_id", eventID)
			return nil
		}
		return fmt.Errorf("loading event %s: %w", eventID, err)
	}

	rawURL := ev.ImageURL
	if rawURL == "" {
		return nil
	}
	if ing.IsLocalRef(rawURL) {
		return nil
	}

	if !ing.safe(rawURL) {
		log.Warn("blocked potentially unsafe image url", "event_id", eventID, "url", rawURL)
		return nil
	}

	res, err := ing.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		log.Warn("image fetch failed, keeping existing image url",
			"event_id", eventID, "url", rawURL, "error", err.Error())
		return nil
	}

	ref, err := ing.store.Save(ev.ID, res.Data, res.MIME)
	if err != nil {
		return fmt.Errorf("storing image for event %s: %w", eventID, err)
	}

	if err := ing.events.UpdateImageURLQuietly(ctx, ev.ID, ref); err != nil {
		if errors.Is(err, ErrEventGone) {
			log.Debug("event deleted during ingestion, dropping image reference", "event_id", eventID)
			return nil
		}
		return fmt.Errorf("updating image url for event %s: %w", eventID, err)
	}

	log.Info("image ingested", "event_id", eventID, "ref", ref)
	return nil
}

// IsLocalRef reports whether a reference already points into this system's
// own upload namespace: a root-relative /uploads path or an absolute URL
// under our public base. A foreign host is never local, even when its path
// happens to contain an uploads segment.
func (ing *Ingestor) IsLocalRef(ref string) bool {
	if strings.HasPrefix(ref, "/uploads") {
		return true
	}
	if ing.publicBase != "" && strings.HasPrefix(ref, ing.publicBase) {
		return true
	}
	return false
}
