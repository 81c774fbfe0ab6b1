package objectstore

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
)

var ErrFileTooLarge = errors.New("file too large")

type File struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// Service stores uploads under per-uploader keys. JPEG and PNG images are re-encoded as WebP.
type Service struct {
	store       core.ObjectStore
	logger      core.Logger
	maxSize     int64
	imageMax    int
	webpQuality float32
	now         func() time.Time // mockable
}

func NewService(store core.ObjectStore, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		store:       store,
		logger:      logger,
		maxSize:     conf.Storage.MaxUploadSize,
		imageMax:    conf.Storage.ImageMaxSize,
		webpQuality: conf.Storage.WebPQuality,
		now:         time.Now,
	}
}

func (svc *Service) Upload(ctx context.Context, uploaderID, filename string, r io.Reader) (*File, error) {
	data, err := io.ReadAll(io.LimitReader(r, svc.maxSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "io.ReadAll")
	}
	switch {
	case len(data) == 0:
		return nil, core.NewValidationError(nil, core.FieldError{Field: "file", Error: "empty file"})
	case int64(len(data)) > svc.maxSize:
		return nil, core.NewValidationError(ErrFileTooLarge, core.FieldError{Field: "file", Error: ErrFileTooLarge.Error()})
	}

	contentType := sniff(data)
	if isReencodable(contentType) {
		if out, err := toWebP(data, svc.imageMax, svc.webpQuality); err == nil {
			data = out
			contentType = webpContentType
			filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".webp"
		} else {
			// keep the original bytes
			svc.logger.Warn("objectstore.Upload: image re-encode failed", err)
		}
	}

	key := BuildKey(uploaderID, filename, svc.now())
	if err := svc.store.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, errors.Wrap(err, "store.Upload")
	}

	return &File{
		Key:         key,
		URL:         svc.store.PublicURL(key),
		ContentType: contentType,
		Size:        len(data),
	}, nil
}

// Delete removes an object previously uploaded by uploaderID.
func (svc *Service) Delete(ctx context.Context, uploaderID, key string) error {
	if !strings.HasPrefix(key, uploaderID+"/") {
		return core.NewNotFoundError("file")
	}
	return errors.Wrap(svc.store.Delete(ctx, key), "store.Delete")
}
