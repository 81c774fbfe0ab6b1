package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
)

const cacheForever = "public, max-age=31536000, immutable"

type OSSStore struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	publicBase string
}

var _ core.ObjectStore = (*OSSStore)(nil)

func NewOSSStore(conf *core.Config) (*OSSStore, error) {
	sc := conf.Storage
	if sc.OSSEndpoint == "" || sc.OSSAccessKey == "" || sc.OSSSecretKey == "" || sc.OSSBucket == "" {
		return nil, errors.New("objectstore: missing OSS endpoint, access key, secret key or bucket")
	}

	var opts []oss.ClientOption
	if sc.OSSSecurityToken != "" {
		opts = append(opts, oss.SecurityToken(sc.OSSSecurityToken))
	}
	client, err := oss.New(sc.OSSEndpoint, sc.OSSAccessKey, sc.OSSSecretKey, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "oss.New")
	}
	bkt, err := client.Bucket(sc.OSSBucket)
	if err != nil {
		return nil, errors.Wrap(err, "client.Bucket")
	}

	return &OSSStore{
		bucket:     bkt,
		endpoint:   sc.OSSEndpoint,
		bucketName: sc.OSSBucket,
		publicBase: sc.PublicBaseURL,
	}, nil
}

func (s *OSSStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	if key == "" {
		return errors.New("objectstore: empty key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	err := s.bucket.PutObject(key, r,
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl(cacheForever),
	)
	if err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

func (s *OSSStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

func (s *OSSStore) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.publicBase != "" {
		return strings.TrimRight(s.publicBase, "/") + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, end, key)
}
