package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"k8s.io/klog/v2"
)

// FetchGCS downloads a gs://bucket/object weight file to destPath so it
// can be memory-mapped locally. Returns the destination path.
func FetchGCS(ctx context.Context, gcsURL, destPath string) (string, error) {
	bucket, object, err := splitGCSURL(gcsURL)
	if err != nil {
		return "", err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating GCS storage client: %w", err)
	}
	defer client.Close()

	klog.Infof("loader: downloading %s to %s", gcsURL, destPath)
	startedAt := time.Now()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("opening %q: %w", gcsURL, err)
	}
	defer r.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating destination file: %w", err)
	}

	n, err := io.Copy(dst, r)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("downloading %q: %w", gcsURL, err)
	}

	klog.Infof("loader: downloaded %s, %d bytes in %s", gcsURL, n, time.Since(startedAt))
	return destPath, nil
}

func splitGCSURL(gcsURL string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(gcsURL, "gs://")
	if !ok {
		return "", "", fmt.Errorf("%q is not a gs:// URL", gcsURL)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%q is missing a bucket or object name", gcsURL)
	}
	return bucket, object, nil
}
