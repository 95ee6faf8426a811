package capture_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/capture"
	"github.com/MrJamesThe3rd/pocket/internal/classifier"
	"github.com/MrJamesThe3rd/pocket/internal/kv"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	recordStore "github.com/MrJamesThe3rd/pocket/internal/record/store"
)

func newService(t *testing.T, c *classifier.Classifier) (*capture.Service, *record.Service) {
	t.Helper()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	records := record.NewService(recordStore.New(kv.NewMemory()), record.WithClock(func() time.Time { return now }))

	return capture.NewService(c, records), records
}

func TestService_Capture(t *testing.T) {
	svc, records := newService(t, classifier.Default())

	got, err := svc.Capture(context.Background(), "¥128.50 餐饮 星巴克 成功")
	require.NoError(t, err)

	assert.Equal(t, record.KindExpense, got.Kind)
	assert.Equal(t, "餐饮", got.Category)
	assert.True(t, decimal.RequireFromString("128.5").Equal(got.Amount))

	all, err := records.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestService_CaptureUnparsed(t *testing.T) {
	svc, records := newService(t, classifier.Default())

	_, err := svc.Capture(context.Background(), "微信支付成功")
	assert.ErrorIs(t, err, capture.ErrUnparsed)

	all, err := records.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestService_DraftUnknownCategory(t *testing.T) {
	rules, err := classifier.LoadRules(strings.NewReader(`
categories:
  expense:
    - name: 宠物
      keywords: [猫粮]
`))
	require.NoError(t, err)

	c, err := classifier.New(rules)
	require.NoError(t, err)

	svc, _ := newService(t, c)

	d, err := svc.Draft("猫粮 45元")
	require.NoError(t, err)
	assert.Equal(t, record.CatchAll, d.Category)
}

func TestService_Prefill(t *testing.T) {
	type testCase struct {
		name         string
		query        string
		wantAmount   string
		wantKind     record.Kind
		wantCategory string
		wantNote     string
	}

	tests := []testCase{
		{
			name:         "AllFields",
			query:        "amount=128.5&type=支出&note=午饭&category=餐饮",
			wantAmount:   "128.5",
			wantKind:     record.KindExpense,
			wantCategory: "餐饮",
			wantNote:     "午饭",
		},
		{
			name:         "IncomeEnglish",
			query:        "amount=8000&type=income&category=工资",
			wantAmount:   "8000",
			wantKind:     record.KindIncome,
			wantCategory: "工资",
		},
		{
			name:         "InvalidTypeIgnored",
			query:        "type=transfer&category=交通",
			wantKind:     record.KindExpense,
			wantCategory: "交通",
		},
		{
			name:         "CategoryOfOtherKindIgnored",
			query:        "type=收入&category=餐饮&amount=-3",
			wantKind:     record.KindIncome,
			wantCategory: "工资",
		},
		{
			name:         "Empty",
			query:        "",
			wantKind:     record.KindExpense,
			wantCategory: "餐饮",
		},
	}

	svc, _ := newService(t, classifier.Default())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			d := svc.Prefill(q)

			assert.Equal(t, tt.wantKind, d.Kind)
			assert.Equal(t, tt.wantCategory, d.Category)
			assert.Equal(t, tt.wantNote, d.Note)

			if tt.wantAmount == "" {
				assert.False(t, d.Amount.Valid)
				return
			}

			require.True(t, d.Amount.Valid)
			assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(d.Amount.Decimal))
		})
	}
}
