package dataset

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"olist_back_end/internal/apperr"
	"olist_back_end/internal/config"
)

// objectStore est la partie du client MinIO dont on a besoin.
type objectStore interface {
	GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error)
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinIOSource lit l'extrait depuis un bucket (objets <prefix>/<nom du CSV>).
type MinIOSource struct {
	client objectStore
	bucket string
	prefix string
}

func NewMinIOSource(cfg config.SourceConfig) (*MinIOSource, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("client MinIO: %w", err)
	}
	return &MinIOSource{client: client, bucket: cfg.MinIOBucket, prefix: cfg.MinIOPrefix}, nil
}

func (s *MinIOSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := path.Join(s.prefix, name)

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrap(key, err)
	}
	// GetObject est paresseux : Stat force la requête et révèle un objet absent.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, s.wrap(key, err)
	}
	return obj, nil
}

func (s *MinIOSource) String() string {
	return "minio:" + path.Join(s.bucket, s.prefix)
}

func (s *MinIOSource) wrap(key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return &apperr.SourceMissing{Name: key, Err: err}
	}
	return fmt.Errorf("lecture MinIO %s/%s: %w", s.bucket, key, err)
}

// Publish dépose les CSV d'un répertoire local dans le bucket, en le créant au besoin.
// Tous les fichiers doivent être présents avant le premier envoi.
func (s *MinIOSource) Publish(ctx context.Context, dir string, log zerolog.Logger) error {
	local := DirSource{Dir: dir}
	for _, name := range Files {
		f, err := local.Open(ctx, name)
		if err != nil {
			return err
		}
		f.Close()
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("création du bucket %s: %w", s.bucket, err)
		}
		log.Info().Str("bucket", s.bucket).Msg("🪣 Bucket créé")
	}

	for _, name := range Files {
		key := path.Join(s.prefix, name)
		info, err := s.client.FPutObject(ctx, s.bucket, key, filepath.Join(dir, name),
			minio.PutObjectOptions{ContentType: "text/csv"})
		if err != nil {
			return fmt.Errorf("envoi %s/%s: %w", s.bucket, key, err)
		}
		log.Info().Str("object", key).Int64("size", info.Size).Msg("✅ Fichier envoyé")
	}
	return nil
}
