package classifier_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/classifier"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

func TestClassifier_ExtractAmount(t *testing.T) {
	type testCase struct {
		name   string
		text   string
		want   string
		wantOK bool
	}

	tests := []testCase{
		{name: "CurrencySymbol", text: "¥128.50 餐饮 星巴克 成功", want: "128.50", wantOK: true},
		{name: "FullWidthSymbol", text: "付款 ￥ 36", want: "36", wantOK: true},
		{name: "UnitWord", text: "支付128.50元", want: "128.5", wantOK: true},
		{name: "TrailingDot", text: "共消费12.元", want: "12", wantOK: true},
		{name: "Labelled", text: "订单号 88888888 金额：66.6", want: "66.6", wantOK: true},
		{name: "Total", text: "订单 共 3 件", want: "3", wantOK: true},
		{name: "TwoDecimals", text: "交易 12.34 已完成", want: "12.34", wantOK: true},
		{name: "BareInteger", text: "100", want: "100", wantOK: true},
		{name: "OutOfRangeFallsThrough", text: "¥0 退款5元", want: "5", wantOK: true},
		{name: "LowerBound", text: "¥0.01", want: "0.01", wantOK: true},
		{name: "UpperBound", text: "¥999999", want: "999999", wantOK: true},
		{name: "AboveUpperBound", text: "¥1000000", wantOK: false},
		{name: "SevenDigitInteger", text: "1234567", wantOK: false},
		{name: "NBSPAfterSymbolBeatsOrderNumber", text: "订单号 654321 ¥\u00a036", want: "36", wantOK: true},
		{name: "IdeographicSpaceAfterLabel", text: "订单号 88888888 金额：\u300066.6", want: "66.6", wantOK: true},
		{name: "IdeographicSpaceBeforeUnit", text: "单号 987654 支付 45\u3000元", want: "45", wantOK: true},
		{name: "NoDigits", text: "微信支付成功", wantOK: false},
		{name: "Empty", text: "", wantOK: false},
	}

	c := classifier.Default()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.ExtractAmount(tt.text)

			require.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
			}
		})
	}
}

func TestClassifier_DetectKind(t *testing.T) {
	type testCase struct {
		name string
		text string
		want record.Kind
	}

	tests := []testCase{
		{name: "ExpenseKeyword", text: "微信支付成功", want: record.KindExpense},
		{name: "IncomeKeywords", text: "收款到账", want: record.KindIncome},
		{name: "CreditBonus", text: "交易成功 +88.00", want: record.KindIncome},
		{name: "CreditBonusNeedsSuccess", text: "余额 +88.00", want: record.KindExpense},
		{name: "CreditBonusOutweighsExpense", text: "支付成功 +5", want: record.KindIncome},
		{name: "TieIsExpense", text: "支付 退款", want: record.KindExpense},
		{name: "NoKeywords", text: "100", want: record.KindExpense},
		{name: "OverlappingKeywordsCountTwice", text: "转账收款 转账给", want: record.KindIncome},
	}

	c := classifier.Default()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.DetectKind(tt.text)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, c.DetectKind(tt.text))
		})
	}
}

func TestClassifier_DetectCategory(t *testing.T) {
	type args struct {
		text string
		kind record.Kind
	}

	type testCase struct {
		name string
		args args
		want string
	}

	tests := []testCase{
		{name: "Food", args: args{text: "星巴克咖啡", kind: record.KindExpense}, want: "餐饮"},
		{name: "HighestScoreWins", args: args{text: "滴滴打车去麦当劳", kind: record.KindExpense}, want: "交通"},
		{name: "TieKeepsFirst", args: args{text: "美团 淘宝", kind: record.KindExpense}, want: "餐饮"},
		{name: "NoHitsIsCatchAll", args: args{text: "转账", kind: record.KindExpense}, want: record.CatchAll},
		{name: "IncomeSalary", args: args{text: "本月工资到账", kind: record.KindIncome}, want: "工资"},
		{name: "IncomeWithoutMatch", args: args{text: "红包", kind: record.KindIncome}, want: record.CatchAll},
		{name: "OtherKindIgnored", args: args{text: "工资", kind: record.KindExpense}, want: record.CatchAll},
	}

	c := classifier.Default()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.DetectCategory(tt.args.text, tt.args.kind))
		})
	}
}

func TestClassifier_DetectCategory_SalaryFallback(t *testing.T) {
	rules := classifier.DefaultRules()
	rules.Categories[record.KindIncome] = []classifier.CategoryRule{
		{Name: "理财", Keywords: []string{"利息", "基金"}},
	}

	c, err := classifier.New(rules)
	require.NoError(t, err)

	assert.Equal(t, "工资", c.DetectCategory("薪资发放", record.KindIncome))
	assert.Equal(t, "理财", c.DetectCategory("基金收益 薪资", record.KindIncome))
	assert.Equal(t, record.CatchAll, c.DetectCategory("薪资发放", record.KindExpense))
}

func TestClassifier_ExtractNote(t *testing.T) {
	type testCase struct {
		name string
		text string
		want string
	}

	tests := []testCase{
		{name: "ASCIIQuotes", text: `收到"张三"的转账`, want: "张三"},
		{name: "CornerBrackets", text: "「星巴克」消费", want: "星巴克"},
		{name: "CurlyQuotes", text: "“全家”便利店", want: "全家"},
		{name: "Preposition", text: "向李四转账100元", want: "李四转账100元"},
		{name: "PrepositionStopsAtPunctuation", text: "来自王五，到账", want: "王五"},
		{name: "Merchant", text: "消费成功 商户：全家便利店，金额20", want: "全家便利店"},
		{name: "PrepositionStopsAtIdeographicSpace", text: "向张三\u3000转账", want: "张三"},
		{name: "PrepositionStopsAtNBSP", text: "来自李四\u00a0的红包", want: "李四"},
		{name: "MerchantAfterIdeographicSpace", text: "商户：\u3000全家\u3000便利店", want: "全家"},
		{name: "Fallback", text: "午饭\r\n20", want: "午饭  20"},
		{name: "FallbackTruncated", text: strings.Repeat("饭", 25), want: strings.Repeat("饭", 20)},
		{name: "QuoteTruncated", text: `"` + strings.Repeat("a", 40) + `"`, want: strings.Repeat("a", 30)},
		{name: "Empty", text: "", want: ""},
	}

	c := classifier.Default()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ExtractNote(tt.text))
		})
	}
}

func TestClassifier_ExtractNote_Bounded(t *testing.T) {
	c := classifier.Default()

	inputs := []string{
		"",
		strings.Repeat("x", 100),
		"向" + strings.Repeat("很长的名字", 20),
		"商家:" + strings.Repeat("店", 50),
		"「" + strings.Repeat("引", 50) + "」",
		"\n\n\n",
	}

	for _, in := range inputs {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.ExtractNote(in)), 30, "input %q", in)
	}
}

func TestClassifier_Parse(t *testing.T) {
	type testCase struct {
		name         string
		text         string
		wantSuccess  bool
		wantAmount   string
		wantKind     record.Kind
		wantCategory string
		wantNote     string
	}

	tests := []testCase{
		{
			name:         "StarbucksReceipt",
			text:         "¥128.50 餐饮 星巴克 成功",
			wantSuccess:  true,
			wantAmount:   "128.50",
			wantKind:     record.KindExpense,
			wantCategory: "餐饮",
			wantNote:     "¥128.50 餐饮 星巴克 成功",
		},
		{
			name:         "BareInteger",
			text:         "100",
			wantSuccess:  true,
			wantAmount:   "100",
			wantKind:     record.KindExpense,
			wantCategory: record.CatchAll,
			wantNote:     "100",
		},
		{
			name:         "SalaryCredit",
			text:         "工资到账成功 +8000.00元",
			wantSuccess:  true,
			wantAmount:   "8000",
			wantKind:     record.KindIncome,
			wantCategory: "工资",
			wantNote:     "工资到账成功 +8000.00元",
		},
		{
			name:         "NoAmount",
			text:         "向张三转账",
			wantSuccess:  false,
			wantKind:     record.KindExpense,
			wantCategory: record.CatchAll,
		},
	}

	c := classifier.Default()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Parse(tt.text)

			assert.Equal(t, tt.wantSuccess, got.Success)
			assert.Equal(t, tt.text, got.RawText)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantNote, got.Note)

			if !tt.wantSuccess {
				assert.False(t, got.Amount.Valid)
				return
			}

			require.True(t, got.Amount.Valid)
			assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(got.Amount.Decimal))
		})
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	rules := classifier.DefaultRules()
	rules.AmountPatterns = []string{`(\d+`}

	_, err := classifier.New(rules)
	assert.Error(t, err)

	rules = classifier.DefaultRules()
	rules.NotePatterns = []string{`no group`}

	_, err = classifier.New(rules)
	assert.Error(t, err)
}

func TestNew_CopiesRules(t *testing.T) {
	rules := classifier.DefaultRules()

	c, err := classifier.New(rules)
	require.NoError(t, err)

	rules.Categories[record.KindExpense][0].Keywords[0] = "不存在"
	rules.KindKeywords[record.KindExpense] = nil

	assert.Equal(t, "餐饮", c.DetectCategory("餐", record.KindExpense))
	assert.Equal(t, record.KindExpense, c.DetectKind("支付"))
}

func TestNew_DefaultsAmountRange(t *testing.T) {
	c, err := classifier.New(classifier.Rules{
		AmountPatterns: []string{`[￥¥]\s*(\d+\.?\d*)`},
	})
	require.NoError(t, err)

	got, ok := c.ExtractAmount("付款 ¥36")
	require.True(t, ok)
	assert.Equal(t, "36", got.String())

	_, ok = c.ExtractAmount("付款 ¥0")
	assert.False(t, ok)

	_, ok = c.ExtractAmount("付款 ¥1000000")
	assert.False(t, ok)
}

func TestNew_EmptyAmountRange(t *testing.T) {
	rules := classifier.DefaultRules()
	rules.MinAmount = decimal.NewFromInt(100)
	rules.MaxAmount = decimal.NewFromInt(10)

	_, err := classifier.New(rules)
	assert.Error(t, err)
}
