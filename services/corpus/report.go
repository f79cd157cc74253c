package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.opentelemetry.io/otel/codes"
)

// UsageRow is one card's usage across the deck corpus.
type UsageRow struct {
	CardName     string
	Hero         string
	TotalDecks   int64
	AvgPerDeck   float64
	PercentDecks float64
	InCollection int64
}

type UsageOptions struct {
	// Sets restricts the report to cards from these sets. Empty means
	// every set.
	Sets []string
}

// Usage joins the catalog against deck lists and the collection to
// produce per-card usage. Cards appearing in no deck still get a row
// with zeroed usage. This query is assembled by hand because of the
// variable IN list and ordering.
func Usage(ctx context.Context, dbh *sql.DB, opts UsageOptions) ([]UsageRow, error) {
	ctx, span := tracer.Start(ctx, "Usage")
	defer span.End()

	query := `
SELECT cards.cardname,
       cards.hero,
       CASE WHEN deck_lists.cardname IS NULL THEN 0
            ELSE COUNT(*) END AS total,
       AVG(COALESCE(deck_lists.amount, 0)) AS per_deck,
       CASE WHEN deck_lists.cardname IS NULL THEN 0.0
            ELSE COALESCE(
                COUNT(*) * 100.0 / NULLIF((SELECT COUNT(*) FROM decks), 0),
                0.0
            ) END AS percent,
       COALESCE(collection.amount, 0) AS collected
FROM cards
LEFT JOIN deck_lists ON cards.cardname = deck_lists.cardname
LEFT JOIN collection ON cards.cardname = collection.cardname
`
	var args []any
	if len(opts.Sets) > 0 {
		placeholders := strings.TrimSuffix(
			strings.Repeat("?,", len(opts.Sets)), ",",
		)
		query += "WHERE cards.cardset IN (" + placeholders + ")\n"
		for _, set := range opts.Sets {
			args = append(args, set)
		}
	}
	query += "GROUP BY cards.cardname\n"
	if len(opts.Sets) > 0 {
		query += "ORDER BY percent DESC"
	} else {
		query += "ORDER BY total DESC"
	}

	rows, err := dbh.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()

	var report []UsageRow
	for rows.Next() {
		var r UsageRow
		err := rows.Scan(
			&r.CardName,
			&r.Hero,
			&r.TotalDecks,
			&r.AvgPerDeck,
			&r.PercentDecks,
			&r.InCollection,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		report = append(report, r)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return report, nil
}

// WriteCSV prints the report as comma separated lines, one card per
// line. Cards with no recorded usage are dropped unless includeZero is
// set.
func WriteCSV(w io.Writer, rows []UsageRow, includeZero bool) error {
	_, err := fmt.Fprintln(w, "cardname, hero, totaldecks, avgperdeck, percentdecks, incollection")
	if err != nil {
		return err
	}
	for _, r := range rows {
		if !includeZero &&
			(r.TotalDecks == 0 || r.AvgPerDeck == 0 || r.PercentDecks == 0) {
			continue
		}
		_, err := fmt.Fprintf(
			w, "%s, %s, %d, %0.2f, %0.2f%%, %d\n",
			r.CardName, r.Hero, r.TotalDecks,
			r.AvgPerDeck, r.PercentDecks, r.InCollection,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderTable prints the same report as a human readable table.
func RenderTable(w io.Writer, rows []UsageRow, includeZero bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Card", "Hero", "Decks", "Avg/Deck", "% Decks", "Owned"})
	for _, r := range rows {
		if !includeZero && r.TotalDecks == 0 {
			continue
		}
		t.AppendRow(table.Row{
			r.CardName,
			r.Hero,
			r.TotalDecks,
			fmt.Sprintf("%0.2f", r.AvgPerDeck),
			fmt.Sprintf("%0.2f%%", r.PercentDecks),
			r.InCollection,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
