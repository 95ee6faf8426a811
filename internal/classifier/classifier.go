// Package classifier turns free-form payment notification text into a
// record draft.
package classifier

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// Result is a best-effort draft. When Success is false only RawText is
// meaningful; the other fields hold their defaults.
type Result struct {
	Success  bool                `json:"success"`
	Amount   decimal.NullDecimal `json:"amount"`
	Kind     record.Kind         `json:"type"`
	Category string              `json:"category"`
	Note     string              `json:"note"`
	RawText  string              `json:"rawText"`
}

// Classifier is safe for concurrent use.
type Classifier struct {
	rules          Rules
	amountPatterns []*regexp.Regexp
	notePatterns   []*regexp.Regexp
}

func New(rules Rules) (*Classifier, error) {
	amount, err := compileAll(rules.AmountPatterns)
	if err != nil {
		return nil, fmt.Errorf("amount patterns: %w", err)
	}

	note, err := compileAll(rules.NotePatterns)
	if err != nil {
		return nil, fmt.Errorf("note patterns: %w", err)
	}

	defaults := DefaultRules()

	if rules.CatchAll == "" {
		rules.CatchAll = defaults.CatchAll
	}

	if rules.NoteLimit <= 0 {
		rules.NoteLimit = defaults.NoteLimit
	}

	if rules.FallbackLimit <= 0 {
		rules.FallbackLimit = defaults.FallbackLimit
	}

	if rules.MinAmount.IsZero() {
		rules.MinAmount = defaults.MinAmount
	}

	if rules.MaxAmount.IsZero() {
		rules.MaxAmount = defaults.MaxAmount
	}

	if rules.MaxAmount.LessThan(rules.MinAmount) {
		return nil, fmt.Errorf("amount range [%s, %s] is empty", rules.MinAmount, rules.MaxAmount)
	}

	return &Classifier{
		rules:          cloneRules(rules),
		amountPatterns: amount,
		notePatterns:   note,
	}, nil
}

// Default returns a Classifier over DefaultRules.
func Default() *Classifier {
	c, err := New(DefaultRules())
	if err != nil {
		panic(err)
	}

	return c
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", p, err)
		}

		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("pattern %q has no capture group", p)
		}

		out = append(out, re)
	}

	return out, nil
}

func cloneRules(r Rules) Rules {
	r.AmountPatterns = slices.Clone(r.AmountPatterns)
	r.SalaryKeywords = slices.Clone(r.SalaryKeywords)
	r.NotePatterns = slices.Clone(r.NotePatterns)

	r.KindKeywords = maps.Clone(r.KindKeywords)
	for k, v := range r.KindKeywords {
		r.KindKeywords[k] = slices.Clone(v)
	}

	r.Categories = maps.Clone(r.Categories)
	for k, rules := range r.Categories {
		cloned := make([]CategoryRule, len(rules))
		for i, cr := range rules {
			cloned[i] = CategoryRule{Name: cr.Name, Keywords: slices.Clone(cr.Keywords)}
		}

		r.Categories[k] = cloned
	}

	return r
}

// Parse extracts a draft from text. The amount is mandatory: without one
// nothing else is computed.
func (c *Classifier) Parse(text string) Result {
	res := Result{
		Kind:     record.KindExpense,
		Category: c.rules.CatchAll,
		RawText:  text,
	}

	amount, ok := c.ExtractAmount(text)
	if !ok {
		return res
	}

	res.Amount = decimal.NewNullDecimal(amount)
	res.Kind = c.DetectKind(text)
	res.Category = c.DetectCategory(text, res.Kind)
	res.Note = c.ExtractNote(text)
	res.Success = true

	return res
}

// ExtractAmount returns the first plausible amount. Only the first match of
// each pattern is looked at.
func (c *Classifier) ExtractAmount(text string) (decimal.Decimal, bool) {
	for _, re := range c.amountPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSuffix(m[1], "."))
		if err != nil {
			continue
		}

		if amount.LessThan(c.rules.MinAmount) || amount.GreaterThan(c.rules.MaxAmount) {
			continue
		}

		return amount, true
	}

	return decimal.Decimal{}, false
}

func countHits(text string, keywords []string) int {
	n := 0

	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			n++
		}
	}

	return n
}

// DetectKind votes on keyword hits. Income needs a strictly higher score.
func (c *Classifier) DetectKind(text string) record.Kind {
	expense := countHits(text, c.rules.KindKeywords[record.KindExpense])
	income := countHits(text, c.rules.KindKeywords[record.KindIncome])

	if c.rules.SuccessMarker != "" && c.rules.CreditMarker != "" &&
		strings.Contains(text, c.rules.SuccessMarker) && strings.Contains(text, c.rules.CreditMarker) {
		income += c.rules.CreditBonus
	}

	if income > expense {
		return record.KindIncome
	}

	return record.KindExpense
}

// DetectCategory picks the category of kind with the most keyword hits.
// The earliest category wins a tie; no hits at all yields the catch-all.
func (c *Classifier) DetectCategory(text string, kind record.Kind) string {
	best, category := 0, c.rules.CatchAll

	for _, rule := range c.rules.Categories[kind] {
		if score := countHits(text, rule.Keywords); score > best {
			best, category = score, rule.Name
		}
	}

	if kind == record.KindIncome && category == c.rules.CatchAll &&
		c.rules.SalaryCategory != "" && countHits(text, c.rules.SalaryKeywords) > 0 {
		category = c.rules.SalaryCategory
	}

	return category
}

// ExtractNote returns the first pattern capture, or a prefix of the text
// when no pattern matches.
func (c *Classifier) ExtractNote(text string) string {
	for _, re := range c.notePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return truncate(m[1], c.rules.NoteLimit)
		}
	}

	prefix := truncate(text, c.rules.FallbackLimit)

	return strings.NewReplacer("\r", " ", "\n", " ").Replace(prefix)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}

	return string(r[:limit])
}
