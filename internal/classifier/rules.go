package classifier

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// CategoryRule assigns Name to text containing any of Keywords.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Rules configures a Classifier. Patterns are tried in order and must have
// exactly one capture group. Zero amounts, limits and catch-all fall back
// to DefaultRules.
type Rules struct {
	AmountPatterns []string        `yaml:"amount_patterns"`
	MinAmount      decimal.Decimal `yaml:"min_amount"`
	MaxAmount      decimal.Decimal `yaml:"max_amount"`

	KindKeywords  map[record.Kind][]string `yaml:"kind_keywords"`
	SuccessMarker string                   `yaml:"success_marker"`
	CreditMarker  string                   `yaml:"credit_marker"`
	CreditBonus   int                      `yaml:"credit_bonus"`

	Categories     map[record.Kind][]CategoryRule `yaml:"categories"`
	CatchAll       string                         `yaml:"catch_all"`
	SalaryCategory string                         `yaml:"salary_category"`
	SalaryKeywords []string                       `yaml:"salary_keywords"`

	NotePatterns  []string `yaml:"note_patterns"`
	NoteLimit     int      `yaml:"note_limit"`
	FallbackLimit int      `yaml:"fallback_limit"`
}

// DefaultRules returns the rules tuned for Chinese payment notifications.
//
// Whitespace classes include \p{Zs} so that NBSP and the ideographic space,
// common in notifications, separate tokens like ASCII spaces do.
func DefaultRules() Rules {
	return Rules{
		AmountPatterns: []string{
			`[￥¥][\s\p{Zs}]*(\d+\.?\d*)`,
			`(\d+\.?\d*)[\s\p{Zs}]*元`,
			`金额[:：][\s\p{Zs}]*(\d+\.?\d*)`,
			`共[\s\p{Zs}]*(\d+\.?\d*)`,
			`\b(\d{1,6}\.\d{2})\b`,
			`\b(\d{1,6})\b`,
		},
		MinAmount: decimal.RequireFromString("0.01"),
		MaxAmount: decimal.NewFromInt(999999),

		KindKeywords: map[record.Kind][]string{
			record.KindExpense: {"支付", "付款", "消费", "转账给", "支出", "购买", "扣款"},
			record.KindIncome:  {"收款", "到账", "入账", "收入", "转账收款", "红包", "退款"},
		},
		SuccessMarker: "成功",
		CreditMarker:  "+",
		CreditBonus:   2,

		Categories: map[record.Kind][]CategoryRule{
			record.KindExpense: {
				{Name: "餐饮", Keywords: []string{"餐", "饭", "外卖", "美团", "饿了么", "食", "咖啡", "奶茶", "肯德基", "麦当劳", "星巴克"}},
				{Name: "交通", Keywords: []string{"打车", "滴滴", "出租车", "地铁", "公交", "加油", "停车", "高速"}},
				{Name: "购物", Keywords: []string{"淘宝", "京东", "拼多多", "超市", "商场", "购物"}},
				{Name: "娱乐", Keywords: []string{"电影", "游戏", "KTV", "网吧", "健身", "旅游"}},
			},
			record.KindIncome: {
				{Name: "工资", Keywords: []string{"工资", "薪资", "奖金", "提成"}},
			},
		},
		CatchAll:       record.CatchAll,
		SalaryCategory: "工资",
		SalaryKeywords: []string{"工资", "薪资"},

		NotePatterns: []string{
			`["“「『](.+?)["”」』]`,
			`(?:向|给|来自|收到)[\s\p{Zs}]*([^\s\p{Zs}，。！]+)`,
			`(?:商家|店铺|商户)[:：][\s\p{Zs}]*([^\s\p{Zs}，。]+)`,
		},
		NoteLimit:     30,
		FallbackLimit: 20,
	}
}

// LoadRules reads a YAML rules document. Fields missing from the document
// keep their default value; a present list or map entry replaces the default.
func LoadRules(r io.Reader) (Rules, error) {
	rules := DefaultRules()

	if err := yaml.NewDecoder(r).Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, fmt.Errorf("decoding classifier rules: %w", err)
	}

	return rules, nil
}
