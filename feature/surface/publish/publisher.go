package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"surface-renderer/core/document"
	"surface-renderer/core/reconcile"
	"surface-renderer/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrNotPublished is returned by Fetch when a surface has no published document.
var ErrNotPublished = errors.New("surface not published")

const extension = ".json"

// Publisher mirrors applied surfaces to object storage, one JSON document per surface.
type Publisher struct {
	client storage.Client
	bucket string
	prefix string
}

// New creates a publisher writing to bucket under prefix.
func New(client storage.Client, bucket, prefix string) *Publisher {
	return &Publisher{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// ObjectName returns the object a surface is published to.
func (p *Publisher) ObjectName(surface string) string {
	return storage.ObjectName(p.prefix, surface+extension)
}

// EnsureBucket creates the target bucket if needed.
func (p *Publisher) EnsureBucket(ctx context.Context, region string) error {
	return storage.EnsureBucket(ctx, p.client, p.bucket, region)
}

// Publish uploads the document describing sections.
func (p *Publisher) Publish(ctx context.Context, surface string, sections []reconcile.Section) error {
	doc, err := document.FromSections(sections)
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode surface %s: %w", surface, err)
	}

	_, err = p.client.PutObject(ctx, p.bucket, p.ObjectName(surface), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to publish surface %s: %w", surface, err)
	}
	return nil
}

// Fetch downloads the published document of surface.
func (p *Publisher) Fetch(ctx context.Context, surface string) (*document.Document, error) {
	obj, err := p.client.GetObject(ctx, p.bucket, p.ObjectName(surface), minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrNotPublished
		}
		return nil, fmt.Errorf("failed to fetch surface %s: %w", surface, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrNotPublished
		}
		return nil, fmt.Errorf("failed to read surface %s: %w", surface, err)
	}
	return document.Decode(data, document.FormatJSON)
}

// Remove deletes the published document of surface.
func (p *Publisher) Remove(ctx context.Context, surface string) error {
	if err := p.client.RemoveObject(ctx, p.bucket, p.ObjectName(surface), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove surface %s: %w", surface, err)
	}
	return nil
}

// List returns the names of every published surface.
func (p *Publisher) List(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range p.client.ListObjects(ctx, p.bucket, p.listOptions()) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list published surfaces: %w", obj.Err)
		}
		if name, ok := p.surfaceName(obj.Key); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Purge removes every published document and returns how many were deleted.
func (p *Publisher) Purge(ctx context.Context) (int, error) {
	var objects []minio.ObjectInfo
	for obj := range p.client.ListObjects(ctx, p.bucket, p.listOptions()) {
		if obj.Err != nil {
			return 0, fmt.Errorf("failed to list published surfaces: %w", obj.Err)
		}
		if _, ok := p.surfaceName(obj.Key); ok {
			objects = append(objects, obj)
		}
	}
	if len(objects) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(objects))
	for _, obj := range objects {
		objectsCh <- obj
	}
	close(objectsCh)

	var errs []error
	for rErr := range p.client.RemoveObjects(ctx, p.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("%s: %w", rErr.ObjectName, rErr.Err))
	}
	return len(objects) - len(errs), errors.Join(errs...)
}

func (p *Publisher) listOptions() minio.ListObjectsOptions {
	opts := minio.ListObjectsOptions{Recursive: true}
	if p.prefix != "" {
		opts.Prefix = p.prefix + "/"
	}
	return opts
}

func (p *Publisher) surfaceName(key string) (string, bool) {
	if p.prefix != "" {
		key = strings.TrimPrefix(key, p.prefix+"/")
	}
	if strings.Contains(key, "/") || !strings.HasSuffix(key, extension) {
		return "", false
	}
	return strings.TrimSuffix(key, extension), true
}

// For returns a view sink publishing the applications of surface.
func (p *Publisher) For(surface string) reconcile.Adapter {
	return &sink{publisher: p, surface: surface}
}

type sink struct {
	publisher *Publisher
	surface   string
}

func (s *sink) Name() string {
	return "publish"
}

func (s *sink) Apply(ctx context.Context, _ *reconcile.EditScript, next []reconcile.Section) error {
	return s.publisher.Publish(ctx, s.surface, next)
}
