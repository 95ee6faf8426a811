// Package capture turns captured text and deep-link parameters into records.
package capture

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/classifier"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// ErrUnparsed is returned when no plausible amount could be found in the text.
var ErrUnparsed = errors.New("no amount found in text")

// Draft prefills the record entry form.
type Draft struct {
	Amount   decimal.NullDecimal `json:"amount"`
	Kind     record.Kind         `json:"type"`
	Category string              `json:"category"`
	Note     string              `json:"note"`
}

type Service struct {
	classifier *classifier.Classifier
	records    *record.Service
}

func NewService(c *classifier.Classifier, records *record.Service) *Service {
	return &Service{classifier: c, records: records}
}

func (s *Service) Parse(text string) classifier.Result {
	return s.classifier.Parse(text)
}

// Draft classifies text. Categories the catalog does not know for the
// detected kind are replaced by the catch-all.
func (s *Service) Draft(text string) (Draft, error) {
	res := s.classifier.Parse(text)
	if !res.Success {
		return Draft{}, ErrUnparsed
	}

	return Draft{
		Amount:   res.Amount,
		Kind:     res.Kind,
		Category: s.resolveCategory(res.Kind, res.Category),
		Note:     res.Note,
	}, nil
}

// Capture classifies text and stores the result as a new record.
func (s *Service) Capture(ctx context.Context, text string) (*record.Record, error) {
	d, err := s.Draft(text)
	if err != nil {
		return nil, err
	}

	return s.records.Create(ctx, record.CreateParams{
		Kind:     d.Kind,
		Category: d.Category,
		Amount:   d.Amount.Decimal,
		Note:     d.Note,
	})
}

// Prefill builds a draft from deep-link query parameters (amount, type, note,
// category). Values that do not make sense are ignored.
func (s *Service) Prefill(q url.Values) Draft {
	catalog := s.records.Catalog()

	d := Draft{Kind: record.KindExpense}

	if raw := strings.TrimSpace(q.Get("amount")); raw != "" {
		if amount, err := decimal.NewFromString(raw); err == nil && amount.IsPositive() {
			d.Amount = decimal.NewNullDecimal(amount)
		}
	}

	if kind, ok := record.ParseKind(q.Get("type")); ok {
		d.Kind = kind
	}

	d.Note = q.Get("note")

	d.Category = catalog.First(d.Kind)
	if c := q.Get("category"); c != "" && catalog.Valid(d.Kind, c) {
		d.Category = c
	}

	return d
}

func (s *Service) resolveCategory(kind record.Kind, category string) string {
	if s.records.Catalog().Valid(kind, category) {
		return category
	}

	return record.CatchAll
}
