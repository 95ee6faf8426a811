package record

import "slices"

// CatchAll is the category assigned when nothing more specific applies.
// It is valid for both kinds.
const CatchAll = "其他"

// DefaultEmoji is shown for categories that are not in the catalog.
const DefaultEmoji = "📦"

// Category is a selectable category for one kind of record.
type Category struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// Catalog holds the ordered categories available for each kind.
type Catalog map[Kind][]Category

// DefaultCatalog returns the built-in categories.
func DefaultCatalog() Catalog {
	return Catalog{
		KindExpense: {
			{Name: "餐饮", Emoji: "🍜"},
			{Name: "交通", Emoji: "🚗"},
			{Name: "购物", Emoji: "🛍️"},
			{Name: "娱乐", Emoji: "🎬"},
			{Name: CatchAll, Emoji: DefaultEmoji},
		},
		KindIncome: {
			{Name: "工资", Emoji: "💰"},
			{Name: "兼职", Emoji: "💼"},
			{Name: "理财", Emoji: "📈"},
			{Name: "红包", Emoji: "🧧"},
			{Name: CatchAll, Emoji: DefaultEmoji},
		},
	}
}

func (c Catalog) Valid(kind Kind, name string) bool {
	return slices.ContainsFunc(c[kind], func(cat Category) bool {
		return cat.Name == name
	})
}

func (c Catalog) Names(kind Kind) []string {
	names := make([]string, 0, len(c[kind]))
	for _, cat := range c[kind] {
		names = append(names, cat.Name)
	}

	return names
}

func (c Catalog) Emoji(kind Kind, name string) string {
	for _, cat := range c[kind] {
		if cat.Name == name {
			return cat.Emoji
		}
	}

	return DefaultEmoji
}

// First returns the category preselected when switching to kind.
func (c Catalog) First(kind Kind) string {
	if len(c[kind]) == 0 {
		return CatchAll
	}

	return c[kind][0].Name
}
