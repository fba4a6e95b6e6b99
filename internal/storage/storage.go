// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage stores uploaded media files. Two backends are provided:
// a local directory served under MEDIA_URL, and an S3-compatible bucket
// (AWS SDK v2, path-style addressing for CEPH/Hetzner/MinIO).
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// Storage is a flat key/object store for media files. Keys are relative
// slash-separated paths such as "projects/3f2a.jpg".
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// ErrInvalidKey is returned for keys that are empty or escape the root.
var ErrInvalidKey = errors.New("storage: invalid key")

// CleanKey normalizes key and rejects absolute paths and ".." segments.
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(strings.TrimSpace(key), `\`, "/")
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", ErrInvalidKey
		}
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == "" {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
