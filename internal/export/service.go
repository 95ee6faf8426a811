package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/reconcile"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// Document is the backup file layout.
type Document struct {
	Records    []record.Record `json:"records"`
	ExportTime time.Time       `json:"exportTime"`
}

// Service produces backups of the local records.
type Service struct {
	records *record.Service
	now     func() time.Time
}

// NewService creates a new export Service.
func NewService(records *record.Service) *Service {
	return &Service{records: records, now: time.Now}
}

// FileName returns the backup file name for a backup taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("pocket_%s.json", t.Format(time.DateOnly))
}

// Export collects the records matching filter, newest first.
func (s *Service) Export(ctx context.Context, filter record.ListFilter) (*Document, error) {
	records, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	return &Document{Records: records, ExportTime: s.now().UTC()}, nil
}

// Write encodes doc as indented JSON.
func Write(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	return nil
}

// SaveToDir writes a backup of the records matching filter into dir and
// returns the file path.
func (s *Service) SaveToDir(ctx context.Context, filter record.ListFilter, dir string) (string, error) {
	doc, err := s.Export(ctx, filter)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(doc.ExportTime))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := Write(f, doc); err != nil {
		return "", err
	}

	return path, nil
}

// Read decodes a backup previously produced by Write.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding backup: %w", err)
	}

	return &doc, nil
}

// RestoreResult reports how a backup was folded into the local records.
type RestoreResult struct {
	Local  int
	Backup int
	Added  int
}

// Restore merges the backup into the local records. Local records win on
// id collisions, so restoring never rewrites an existing record.
func (s *Service) Restore(ctx context.Context, doc *Document) (*RestoreResult, error) {
	res := &RestoreResult{Backup: len(doc.Records)}

	merged, err := s.records.Update(ctx, func(local []record.Record) []record.Record {
		res.Local = len(local)
		return reconcile.Records(local, doc.Records)
	})
	if err != nil {
		return nil, fmt.Errorf("restoring backup: %w", err)
	}

	res.Added = len(merged) - res.Local

	return res, nil
}

// RestoreFile reads the backup at path and restores it.
func (s *Service) RestoreFile(ctx context.Context, path string) (*RestoreResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening backup: %w", err)
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return nil, err
	}

	return s.Restore(ctx, doc)
}

// TextReport renders one line per record, suitable for pasting into a chat
// or an email.
func TextReport(records []record.Record, catalog record.Catalog) string {
	var sb strings.Builder

	for _, r := range records {
		sign := "-"
		if r.Kind == record.KindIncome {
			sign = "+"
		}

		fmt.Fprintf(&sb, "* %s | %s %s | %s%s ¥",
			r.OccurredAt.Format(time.DateOnly),
			catalog.Emoji(r.Kind, r.Category), r.Category,
			sign, r.Amount.StringFixed(2))

		if r.Note != "" {
			sb.WriteString(" | " + r.Note)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
