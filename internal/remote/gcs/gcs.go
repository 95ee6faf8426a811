// Package gcs keeps the remote snapshot as one object in a Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/MrJamesThe3rd/pocket/internal/remote"
)

type Client struct {
	client *storage.Client
	bucket string
	object string
}

// New connects with Application Default Credentials unless credentialsFile
// is set.
func New(ctx context.Context, bucket, object, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return NewWithClient(client, bucket, object), nil
}

func NewWithClient(client *storage.Client, bucket, object string) *Client {
	return &Client{client: client, bucket: bucket, object: object}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) handle() *storage.ObjectHandle {
	return c.client.Bucket(c.bucket).Object(c.object)
}

func (c *Client) Fetch(ctx context.Context) (*remote.Snapshot, error) {
	r, err := c.handle().NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, remote.ErrNoSnapshot
		}

		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}

	return remote.Decode(data)
}

func (c *Client) Put(ctx context.Context, snap *remote.Snapshot) error {
	data, err := remote.Encode(snap)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := c.handle().NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		// cancelling the context aborts the upload
		cancel()
		_ = w.Close()

		return fmt.Errorf("write GCS object: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}

	return nil
}
