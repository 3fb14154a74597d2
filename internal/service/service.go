// Package service implements the site's use cases on top of the repositories: who may do
// what to which content, and what happens when they do.
package service

import (
	"context"
	"errors"

	"fandomapp/internal/access"
	"fandomapp/internal/media"
	"fandomapp/internal/metrics"
	"fandomapp/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HomePreviewSize is how many items of each kind the home page shows.
const HomePreviewSize = 6

// authorize runs the ownership guard and turns a denial into the matching AppError.
func authorize(caller access.Caller, entity access.Owned, denial string) error {
	d := access.AuthorizeMutation(caller, entity)
	if d.Allowed {
		return nil
	}
	if d.Reason == access.ReasonAnonymous {
		return models.NewUnauthenticatedError()
	}
	return models.NewForbiddenError(denial)
}

func requireCaller(caller access.Caller) error {
	if !caller.Authenticated() {
		return models.NewUnauthenticatedError()
	}
	return nil
}

// lookupErr reports a missing row as NotFound and anything else as an internal fault.
func lookupErr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

func countEvent(kind, event string) {
	metrics.ContentEvents.WithLabelValues(kind, event).Inc()
}

// images wraps media storage for the optional picture attached to content.
type images struct {
	store media.Storage
	log   *zap.Logger
}

// check validates an optional upload, reporting problems under field.
func (i images) check(field string, upload *media.Upload) models.FieldErrors {
	if upload == nil {
		return nil
	}
	if err := media.CheckImage(upload); err != nil {
		if errors.Is(err, media.ErrNotImage) {
			return models.FieldErrors{field: err.Error()}
		}
		return models.FieldErrors{field: "The submitted file could not be read."}
	}
	return nil
}

// save stores upload and returns its reference; "" when there is nothing to store.
func (i images) save(ctx context.Context, folder string, upload *media.Upload) (string, error) {
	if upload == nil {
		return "", nil
	}
	ref, err := i.store.Save(ctx, folder, upload)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return ref, nil
}

// discard removes a stored file. Failures are logged, never returned: the row that
// referenced the file is already gone or updated.
func (i images) discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := i.store.Delete(ctx, ref); err != nil {
		i.log.Warn("failed to remove media", zap.String("ref", ref), zap.Error(err))
	}
}

// replace decides the reference after an edit: a new upload wins, clear drops the
// current one, otherwise it is kept.
func replace(current, uploaded string, clear bool) string {
	switch {
	case uploaded != "":
		return uploaded
	case clear:
		return ""
	default:
		return current
	}
}

func (i images) url(ref string) string {
	if ref == "" {
		return ""
	}
	return i.store.URL(ref)
}
