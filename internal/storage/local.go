// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores media in a directory on disk. Files are served by the
// router's /media/ file server, so URL just joins the base URL and key.
type Local struct {
	root    string
	baseURL string
}

// NewLocal creates a local store rooted at dir, creating it if needed.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	if baseURL == "" {
		baseURL = "/media/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Local{root: dir, baseURL: baseURL}, nil
}

// Root returns the directory files are written to.
func (l *Local) Root() string {
	return l.root
}

// Put writes body to root/key via a temporary file and rename, so readers
// never observe a partial file.
func (l *Local) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	dest := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("write media %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close media %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("rename media %s: %w", key, err)
	}
	return nil
}

// Delete removes root/key. A missing file is not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(l.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete media %s: %w", key, err)
	}
	return nil
}

// URL returns the public URL of key.
func (l *Local) URL(key string) string {
	return l.baseURL + strings.TrimPrefix(key, "/")
}
