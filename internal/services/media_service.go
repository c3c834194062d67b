package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/ahamhfc/aham-cms-api/internal/repository"
	"github.com/ahamhfc/aham-cms-api/internal/storage"
	"github.com/ahamhfc/aham-cms-api/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultMediaLimit = 100
	maxMediaLimit     = 500
	maxBaseNameLength = 80
	fileNameTimeStamp = "20060102_150405"
	// maxNameAttempts bounds the suffixed retries after a name clash
	maxNameAttempts = 5
)

// MediaService owns the media library: ingestion, listing and deletion of
// image assets together with their backing files.
type MediaService struct {
	repo         repository.MediaRepository
	store        storage.Storage
	processor    *ImageProcessor
	audit        *AuditService
	orphanMinAge time.Duration
	now          func() time.Time
}

func NewMediaService(repo repository.MediaRepository, store storage.Storage, processor *ImageProcessor, audit *AuditService, orphanMinAge time.Duration) *MediaService {
	return &MediaService{
		repo:         repo,
		store:        store,
		processor:    processor,
		audit:        audit,
		orphanMinAge: orphanMinAge,
		now:          time.Now,
	}
}

// Ingest validates and normalizes raw, stores the encoded file and records its
// metadata. Validation and decoding failures leave no trace; a failed metadata
// insert removes the stored file again.
func (s *MediaService) Ingest(ctx context.Context, raw []byte, originalName, uploader string) (*models.MediaAsset, error) {
	if uploader == "" {
		return nil, fmt.Errorf("%w: uploader is required", ErrForbidden)
	}

	processed, err := s.processor.Normalize(raw)
	if err != nil {
		return nil, err
	}

	uploadedAt := s.now().UTC()
	name, obj, err := s.storeUnique(ctx, originalName, uploadedAt, processed.Data)
	if err != nil {
		return nil, err
	}

	asset := &models.MediaAsset{
		ID:           uuid.New(),
		FileName:     name,
		OriginalName: displayName(originalName),
		URL:          s.store.URL(name),
		ContentType:  OutputContentType,
		Width:        processed.Width,
		Height:       processed.Height,
		FileSize:     obj.Size,
		Checksum:     obj.Checksum,
		UploadedBy:   uploader,
		UploadedAt:   uploadedAt,
	}
	if err := s.repo.Create(ctx, asset); err != nil {
		// Put is create-only, so the file under name is the one written above
		if delErr := s.store.Delete(ctx, name); delErr != nil {
			logger.Error("Failed to remove file after metadata insert failed",
				"file_name", name, "error", delErr)
		}
		return nil, fmt.Errorf("%w: save media metadata: %v", ErrStorageFailure, err)
	}

	logger.Info("Media ingested",
		"media_id", asset.ID.String(),
		"file_name", name,
		"size", asset.FileSize,
		"width", asset.Width,
		"height", asset.Height,
		"uploaded_by", uploader,
	)
	s.audit.RecordBestEffort(ctx, uploader, models.SectionMedia, models.ActionCreate, asset.ID.String(), nil, asset.Snapshot())
	return asset, nil
}

// storeUnique writes data as "<YYYYMMDD_HHMMSS>_<base>.jpg". When that name
// is taken, by an earlier upload or a concurrent one, it retries with a short
// random suffix so the other file stays intact.
func (s *MediaService) storeUnique(ctx context.Context, originalName string, at time.Time, data []byte) (string, *storage.Object, error) {
	prefix := at.Format(fileNameTimeStamp) + "_" + sanitizeBaseName(originalName)
	name := prefix + OutputExtension

	for attempt := 1; ; attempt++ {
		obj, err := s.store.Put(ctx, name, bytes.NewReader(data), OutputContentType)
		if err == nil {
			return name, obj, nil
		}
		if !errors.Is(err, storage.ErrExists) || attempt == maxNameAttempts {
			return "", nil, fmt.Errorf("%w: store %s: %v", ErrStorageFailure, name, err)
		}
		name = prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + OutputExtension
	}
}

// sanitizeBaseName strips directories and the extension and keeps only
// [A-Za-z0-9_-], so the result is safe as a file name and a URL segment.
func sanitizeBaseName(originalName string) string {
	base := path.Base(strings.ReplaceAll(originalName, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		if b.Len() >= maxBaseNameLength {
			break
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "image"
	}
	return out
}

func displayName(originalName string) string {
	name := path.Base(strings.ReplaceAll(originalName, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// Get returns one asset.
func (s *MediaService) Get(ctx context.Context, id uuid.UUID) (*models.MediaAsset, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return asset, nil
}

// List returns the newest assets first.
func (s *MediaService) List(ctx context.Context, limit int) ([]models.MediaAsset, error) {
	if limit <= 0 {
		limit = defaultMediaLimit
	}
	if limit > maxMediaLimit {
		limit = maxMediaLimit
	}
	assets, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list media: %v", ErrStorageFailure, err)
	}
	return assets, nil
}

// UpdateAltText sets the bilingual alt text of an asset.
func (s *MediaService) UpdateAltText(ctx context.Context, id uuid.UUID, actor, altEN, altTA string) (*models.MediaAsset, error) {
	old, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}

	if err := s.repo.UpdateAltText(ctx, id, altEN, altTA); err != nil {
		return nil, fmt.Errorf("%w: update media: %v", ErrStorageFailure, err)
	}

	updated := *old
	updated.AltTextEN = altEN
	updated.AltTextTA = altTA

	s.audit.RecordBestEffort(ctx, actor, models.SectionMedia, models.ActionUpdate, id.String(), old.Snapshot(), updated.Snapshot())
	return &updated, nil
}

// Delete removes the backing file, then the metadata record, then audits.
// A file that cannot be removed is left for SweepOrphans rather than blocking
// the delete: a stale file is harmless, a record without a file is a broken URL.
func (s *MediaService) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapLookupError(err)
	}

	if err := s.store.Delete(ctx, asset.FileName); err != nil {
		logger.Warn("Failed to remove media file, leaving orphan",
			"media_id", id.String(), "file_name", asset.FileName, "error", err)
	}

	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: delete media metadata: %v", ErrStorageFailure, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.audit.RecordBestEffort(ctx, actor, models.SectionMedia, models.ActionDelete, id.String(), asset.Snapshot(), nil)
	return nil
}

// SweepOrphans removes stored files that no metadata record references and
// that are older than the grace period, which covers in-flight ingestions.
func (s *MediaService) SweepOrphans(ctx context.Context) (int, error) {
	names, err := s.repo.FileNames(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: load media file names: %v", ErrStorageFailure, err)
	}
	referenced := make(map[string]struct{}, len(names))
	for _, n := range names {
		referenced[n] = struct{}{}
	}

	objects, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: list stored files: %v", ErrStorageFailure, err)
	}

	cutoff := s.now().Add(-s.orphanMinAge)
	removed := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Name]; ok || obj.ModTime.After(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, obj.Name); err != nil {
			logger.Warn("Failed to remove orphan media file", "file_name", obj.Name, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("Removed orphan media files", "count", removed)
	}
	return removed, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}
