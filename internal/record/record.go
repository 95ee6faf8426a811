package record

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind represents the direction of a record (income or expense).
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Legacy kind labels, still accepted when decoding.
const (
	legacyExpense = "支出"
	legacyIncome  = "收入"
)

// ParseKind maps a kind name, or its legacy label, to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case string(KindExpense), legacyExpense:
		return KindExpense, true
	case string(KindIncome), legacyIncome:
		return KindIncome, true
	}

	return "", false
}

func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidKind, string(text))
	}

	*k = parsed

	return nil
}

// Record is one logged monetary event. Records are never mutated after creation.
type Record struct {
	ID         int64
	Kind       Kind
	Category   string
	Amount     decimal.Decimal
	Note       string
	OccurredAt time.Time
}

// recordJSON is the wire shape shared with the remote blob.
type recordJSON struct {
	ID       int64       `json:"id"`
	Kind     Kind        `json:"type"`
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
	Note     string      `json:"note"`
	Date     time.Time   `json:"date"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		ID:       r.ID,
		Kind:     r.Kind,
		Category: r.Category,
		Amount:   json.Number(r.Amount.String()),
		Note:     r.Note,
		Date:     r.OccurredAt,
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	amount, err := decimal.NewFromString(raw.Amount.String())
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, raw.Amount.String())
	}

	*r = Record{
		ID:         raw.ID,
		Kind:       raw.Kind,
		Category:   raw.Category,
		Amount:     amount,
		Note:       raw.Note,
		OccurredAt: raw.Date,
	}

	return nil
}

// Validate checks the record invariants against the given catalog.
func (r Record) Validate(catalog Catalog) error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, r.Kind)
	}

	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, r.Amount)
	}

	if !catalog.Valid(r.Kind, r.Category) {
		return fmt.Errorf("%w: %q is not a %s category", ErrInvalidCategory, r.Category, r.Kind)
	}

	return nil
}
