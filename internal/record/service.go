package record

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=record
type Repository interface {
	LoadRecords(ctx context.Context) ([]Record, error)
	SaveRecords(ctx context.Context, records []Record) error

	LoadCategories(ctx context.Context) ([]json.RawMessage, error)
	SaveCategories(ctx context.Context, categories []json.RawMessage) error
}

// Service owns the local record collection. The repository stores the
// collection as a whole, so every read-modify-write runs under mu.
type Service struct {
	repo    Repository
	catalog Catalog
	now     func() time.Time

	mu sync.Mutex
}

type Option func(*Service)

func WithCatalog(c Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		catalog: DefaultCatalog(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Catalog() Catalog {
	return s.catalog
}

type CreateParams struct {
	Kind       Kind
	Category   string
	Amount     decimal.Decimal
	Note       string
	OccurredAt time.Time
}

type ListFilter struct {
	Kind      *Kind
	StartDate *time.Time
	EndDate   *time.Time
}

func (f ListFilter) matches(r Record) bool {
	if f.Kind != nil && r.Kind != *f.Kind {
		return false
	}

	if f.StartDate != nil && r.OccurredAt.Before(*f.StartDate) {
		return false
	}

	if f.EndDate != nil && r.OccurredAt.After(*f.EndDate) {
		return false
	}

	return true
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Record, error) {
	now := s.now()

	rec := Record{
		Kind:       params.Kind,
		Category:   params.Category,
		Amount:     params.Amount,
		Note:       strings.TrimSpace(params.Note),
		OccurredAt: params.OccurredAt,
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = now
	}

	if err := rec.Validate(s.catalog); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	rec.ID = nextID(records, now)
	records = append(records, rec)

	if err := s.repo.SaveRecords(ctx, records); err != nil {
		return nil, fmt.Errorf("saving records: %w", err)
	}

	return &rec, nil
}

// nextID derives an id from the clock and bumps it past any id already taken.
func nextID(records []Record, now time.Time) int64 {
	taken := make(map[int64]struct{}, len(records))
	for _, r := range records {
		taken[r.ID] = struct{}{}
	}

	id := now.UnixMilli()
	for {
		if _, ok := taken[id]; !ok {
			return id
		}

		id++
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	records, err := s.repo.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	idx := slices.IndexFunc(records, func(r Record) bool { return r.ID == id })
	if idx < 0 {
		return nil, ErrNotFound
	}

	return &records[idx], nil
}

// List returns the records matching filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	records, err := s.repo.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	out := make([]Record, 0, len(records))

	for _, r := range records {
		if filter.matches(r) {
			out = append(out, r)
		}
	}

	sortNewestFirst(out)

	return out, nil
}

// All returns the stored collection in storage order.
func (s *Service) All(ctx context.Context) ([]Record, error) {
	records, err := s.repo.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	return records, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	idx := slices.IndexFunc(records, func(r Record) bool { return r.ID == id })
	if idx < 0 {
		return ErrNotFound
	}

	records = slices.Delete(records, idx, idx+1)

	if err := s.repo.SaveRecords(ctx, records); err != nil {
		return fmt.Errorf("saving records: %w", err)
	}

	return nil
}

// Replace overwrites the whole local collection.
func (s *Service) Replace(ctx context.Context, records []Record) error {
	_, err := s.Update(ctx, func([]Record) []Record { return records })
	return err
}

// Update stores fn's result in place of the current collection. No other
// write can interleave between the load and the save.
func (s *Service) Update(ctx context.Context, fn func(current []Record) []Record) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	next := fn(current)

	if err := s.repo.SaveRecords(ctx, next); err != nil {
		return nil, fmt.Errorf("saving records: %w", err)
	}

	return next, nil
}

// Clear removes every local record. Remote copies are not touched.
func (s *Service) Clear(ctx context.Context) error {
	return s.Replace(ctx, []Record{})
}

func (s *Service) CustomCategories(ctx context.Context) ([]json.RawMessage, error) {
	cats, err := s.repo.LoadCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading custom categories: %w", err)
	}

	return cats, nil
}

func (s *Service) SetCustomCategories(ctx context.Context, categories []json.RawMessage) error {
	if err := s.repo.SaveCategories(ctx, categories); err != nil {
		return fmt.Errorf("saving custom categories: %w", err)
	}

	return nil
}

type Summary struct {
	Expense decimal.Decimal
	Income  decimal.Decimal
	Count   int
}

func (s Summary) Balance() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

func (s *Summary) add(r Record) {
	switch r.Kind {
	case KindExpense:
		s.Expense = s.Expense.Add(r.Amount)
	case KindIncome:
		s.Income = s.Income.Add(r.Amount)
	}

	s.Count++
}

// MonthlySummary totals the records that occurred in the given month.
func (s *Service) MonthlySummary(ctx context.Context, year int, month time.Month) (Summary, error) {
	records, err := s.repo.LoadRecords(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("loading records: %w", err)
	}

	var sum Summary

	for _, r := range records {
		if r.OccurredAt.Year() == year && r.OccurredAt.Month() == month {
			sum.add(r)
		}
	}

	return sum, nil
}

// DayGroup collects the records of one calendar day.
type DayGroup struct {
	Day     string // YYYY-MM-DD
	Records []Record
	Summary
}

// GroupByDay groups records by the day they occurred, newest day first.
func GroupByDay(records []Record) []DayGroup {
	sorted := slices.Clone(records)
	sortNewestFirst(sorted)

	var groups []DayGroup

	for _, r := range sorted {
		day := r.OccurredAt.Format(time.DateOnly)
		if len(groups) == 0 || groups[len(groups)-1].Day != day {
			groups = append(groups, DayGroup{Day: day})
		}

		g := &groups[len(groups)-1]
		g.Records = append(g.Records, r)
		g.add(r)
	}

	return groups
}

func sortNewestFirst(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		if c := b.OccurredAt.Compare(a.OccurredAt); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})
}
