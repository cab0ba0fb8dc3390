// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	awsx "github.com/staranto/dbdump/internal/aws"
	"github.com/staranto/dbdump/internal/cacheutil"
)

const scheme = "s3://"

// cacheSubdir holds downloaded databases beneath the cache base directory.
var cacheSubdir = []string{"s3"}

// Location is a parsed s3://bucket/key URI.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return scheme + l.Bucket + "/" + l.Key
}

// IsURI reports whether path names an S3 object.
func IsURI(path string) bool {
	return strings.HasPrefix(path, scheme)
}

// ParseURI splits an s3://bucket/key URI.
func ParseURI(uri string) (Location, error) {
	if !IsURI(uri) {
		return Location{}, errors.Errorf("not an s3 uri: %s", uri)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, scheme), "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, errors.Errorf("s3 uri needs a bucket and a key: %s", uri)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Option customizes the download.
type Option func(*options)

type options struct {
	aws        []awsx.Option
	purgeHours int
}

// WithAWS passes options through to the AWS config loader.
func WithAWS(opts ...awsx.Option) Option {
	return func(o *options) { o.aws = append(o.aws, opts...) }
}

// WithPurgeHours removes cached downloads older than hours before fetching.
func WithPurgeHours(hours int) Option {
	return func(o *options) { o.purgeHours = hours }
}

// Fetch makes the object at uri available as a local file and returns its
// path. Objects are kept in the cache directory keyed by URI. When caching is
// disabled the object goes to a temporary file and temp is true; the caller
// removes it.
func Fetch(ctx context.Context, uri string, opts ...Option) (path string, temp bool, err error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return "", false, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := cacheutil.Purge(o.purgeHours); err != nil {
		log.Warnf("failed to purge cache: %v", err)
	}

	if p, ok := cacheutil.EntryPath(cacheSubdir, loc.String()); ok && cacheutil.Enabled() {
		log.Debugf("cache hit for %s: %s", loc, p)
		return p, false, nil
	}

	body, err := download(ctx, loc, o.aws...)
	if err != nil {
		return "", false, err
	}

	if cacheutil.Enabled() {
		if err := cacheutil.Write(cacheSubdir, loc.String(), body); err != nil {
			log.Warnf("error writing to cache: %v", err)
		} else if p, ok := cacheutil.EntryPath(cacheSubdir, loc.String()); ok {
			return p, false, nil
		}
	}

	f, err := os.CreateTemp("", "dbdump-*"+filepath.Ext(loc.Key))
	if err != nil {
		return "", false, errors.Wrap(err, "creating temporary database")
	}
	defer f.Close()
	if _, err := f.Write(body); err != nil {
		_ = os.Remove(f.Name())
		return "", false, errors.Wrap(err, "writing temporary database")
	}
	return f.Name(), true, nil
}

func download(ctx context.Context, loc Location, opts ...awsx.Option) ([]byte, error) {
	cfg, err := awsx.LoadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	svc := awsx.NewS3(cfg)
	result, err := svc.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(loc.Bucket),
		Key:    awsv2.String(loc.Key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %s", loc)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", loc)
	}
	log.Debugf("downloaded %d bytes from %s", len(data), loc)

	return data, nil
}
