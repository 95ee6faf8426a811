package view

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatSigned prefixes the amount with - for expenses and + for income.
func FormatSigned(kind record.Kind, d decimal.Decimal) string {
	if kind == record.KindIncome {
		return "+" + FormatAmount(d)
	}

	return "-" + FormatAmount(d)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func kindStyle(kind record.Kind) lipgloss.Style {
	if kind == record.KindIncome {
		return incomeStyle
	}

	return expenseStyle
}
