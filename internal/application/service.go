// Package application ties the workbook reader, the validator and the
// document builders together. The CLI and the web server go through it so
// both accept and reject the same workbooks.
package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/contentsheet/internal/core"
	_ "github.com/JonMunkholm/contentsheet/internal/core/kinds"
	"github.com/JonMunkholm/contentsheet/internal/docs"
	"github.com/JonMunkholm/contentsheet/internal/logging"
	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// Service checks and converts workbooks.
type Service struct {
	// Statements is consulted when a survey builds questions from stored
	// self-assessment statements. May be nil for other kinds.
	Statements docs.StatementSource
	// Now stamps created documents. Defaults to time.Now.
	Now func() time.Time
}

// Kinds lists the registered workbook kinds.
func (s *Service) Kinds() []core.KindInfo {
	all := core.All()
	infos := make([]core.KindInfo, len(all))
	for i, k := range all {
		infos[i] = k.Info
	}
	return infos
}

// Check reads the workbook in r and validates it as kind. name labels the
// workbook in logs and messages.
func (s *Service) Check(ctx context.Context, kind string, r io.Reader, name string) (*sheet.Workbook, error) {
	k, err := core.Lookup(kind)
	if err != nil {
		return nil, err
	}
	wb, err := sheet.Read(r, name, k.ReadOptions())
	if err != nil {
		return nil, err
	}
	if err := core.Validate(ctx, k, wb); err != nil {
		return nil, err
	}
	return wb, nil
}

// Parse checks the workbook and builds its documents.
func (s *Service) Parse(ctx context.Context, kind string, r io.Reader, name string) (*docs.Bundle, error) {
	wb, err := s.Check(ctx, kind, r, name)
	if err != nil {
		return nil, err
	}
	b, err := docs.Build(ctx, kind, wb, docs.Options{Now: s.Now, Statements: s.Statements})
	if err != nil {
		return nil, err
	}
	logging.WithFields(ctx, "kind", kind, "workbook", name).
		Info("documents built", "docs", len(b.Docs), "partition_key", b.PartitionKey())
	return b, nil
}

// CheckFile is Check for a workbook on disk.
func (s *Service) CheckFile(ctx context.Context, kind, path string) error {
	return withFile(path, func(f *os.File) error {
		_, err := s.Check(ctx, kind, f, filepath.Base(path))
		return err
	})
}

// ParseFile is Parse for a workbook on disk.
func (s *Service) ParseFile(ctx context.Context, kind, path string) (*docs.Bundle, error) {
	var b *docs.Bundle
	err := withFile(path, func(f *os.File) error {
		var err error
		b, err = s.Parse(ctx, kind, f, filepath.Base(path))
		return err
	})
	return b, err
}

func withFile(path string, fn func(*os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return fn(f)
}

// BundleName is the file name parse writes a bundle to: the workbook's base
// name with the format's extension.
func BundleName(workbookPath, format string) string {
	base := filepath.Base(workbookPath)
	ext := "json"
	if format == docs.FormatYAML {
		ext = "yaml"
	}
	return base[:len(base)-len(filepath.Ext(base))] + "." + ext
}
