package records

import (
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

type recordResponse struct {
	ID       int64       `json:"id"`
	Type     record.Kind `json:"type"`
	Category string      `json:"category"`
	Emoji    string      `json:"emoji"`
	Amount   string      `json:"amount"`
	Note     string      `json:"note"`
	Date     time.Time   `json:"date"`
}

type summaryResponse struct {
	Expense string `json:"expense"`
	Income  string `json:"income"`
	Balance string `json:"balance"`
	Count   int    `json:"count"`
}

type monthResponse struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	summaryResponse
}

type dayResponse struct {
	Day     string           `json:"day"`
	Summary summaryResponse  `json:"summary"`
	Records []recordResponse `json:"records"`
}

func toResponse(r record.Record, catalog record.Catalog) recordResponse {
	return recordResponse{
		ID:       r.ID,
		Type:     r.Kind,
		Category: r.Category,
		Emoji:    catalog.Emoji(r.Kind, r.Category),
		Amount:   r.Amount.StringFixed(2),
		Note:     r.Note,
		Date:     r.OccurredAt,
	}
}

func toResponseList(recs []record.Record, catalog record.Catalog) []recordResponse {
	resp := make([]recordResponse, len(recs))
	for i, r := range recs {
		resp[i] = toResponse(r, catalog)
	}

	return resp
}

func toSummaryResponse(s record.Summary) summaryResponse {
	return summaryResponse{
		Expense: s.Expense.StringFixed(2),
		Income:  s.Income.StringFixed(2),
		Balance: s.Balance().StringFixed(2),
		Count:   s.Count,
	}
}
