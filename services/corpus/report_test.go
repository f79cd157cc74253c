package corpus

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"hearthcorpus/lib/scrapers/hearthpwn"
	"hearthcorpus/lib/scrapers/mashape"

	"github.com/stretchr/testify/require"
)

func seedReport(t *testing.T, dbh *sql.DB) {
	ctx := context.Background()

	catalog := mashape.Catalog{
		"Classic": {
			{Name: "Execute", PlayerClass: "Warrior", Rarity: "Common", Type: "Spell"},
			{Name: "Fireball", PlayerClass: "Mage", Rarity: "Common", Type: "Spell"},
			{Name: "Chillwind Yeti", Rarity: "Common", Type: "Minion"},
		},
		"Naxxramas": {
			{Name: "Loatheb", Rarity: "Legendary", Type: "Minion"},
		},
	}
	decks := []hearthpwn.Deck{
		{
			DeckStub: hearthpwn.DeckStub{ID: 1, Class: "Warrior", Type: "Ranked Deck"},
			Cards: []hearthpwn.CardEntry{
				{Name: "Execute", Amount: 2},
				{Name: "Chillwind Yeti", Amount: 2},
			},
		},
		{
			DeckStub: hearthpwn.DeckStub{ID: 2, Class: "Mage", Type: "Ranked Deck"},
			Cards: []hearthpwn.CardEntry{
				{Name: "Fireball", Amount: 1},
				{Name: "Chillwind Yeti", Amount: 2},
			},
		},
	}
	inTx(t, dbh, func(tx *sql.Tx) error {
		err := ReplaceCards(ctx, tx, catalog)
		if err != nil {
			return err
		}
		return ReplaceDecks(ctx, tx, decks)
	})
	_, err := dbh.Exec(
		"INSERT INTO collection (cardname, amount) VALUES ('Execute', 2), ('Fireball', 1)",
	)
	require.NoError(t, err)
}

func rowFor(rows []UsageRow, name string) (UsageRow, bool) {
	for _, r := range rows {
		if r.CardName == name {
			return r, true
		}
	}
	return UsageRow{}, false
}

func TestUsage(t *testing.T) {
	dbh := setup(t)
	seedReport(t, dbh)

	rows, err := Usage(context.Background(), dbh, UsageOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	yeti, ok := rowFor(rows, "Chillwind Yeti")
	require.True(t, ok)
	require.EqualValues(t, 2, yeti.TotalDecks)
	require.InDelta(t, 2.0, yeti.AvgPerDeck, 1e-9)
	require.InDelta(t, 100.0, yeti.PercentDecks, 1e-9)
	require.EqualValues(t, 0, yeti.InCollection)

	execute, ok := rowFor(rows, "Execute")
	require.True(t, ok)
	require.EqualValues(t, 1, execute.TotalDecks)
	require.InDelta(t, 50.0, execute.PercentDecks, 1e-9)
	require.EqualValues(t, 2, execute.InCollection)

	// in no deck but still reported
	loatheb, ok := rowFor(rows, "Loatheb")
	require.True(t, ok)
	require.EqualValues(t, 0, loatheb.TotalDecks)
	require.InDelta(t, 0.0, loatheb.PercentDecks, 1e-9)

	// most played card sorts first
	require.Equal(t, "Chillwind Yeti", rows[0].CardName)
}

func TestUsageSetFilter(t *testing.T) {
	dbh := setup(t)
	seedReport(t, dbh)

	rows, err := Usage(context.Background(), dbh, UsageOptions{
		Sets: []string{"Naxxramas"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Loatheb", rows[0].CardName)
}

func TestUsageEmptyCorpus(t *testing.T) {
	dbh := setup(t)
	ctx := context.Background()

	catalog := mashape.Catalog{
		"Classic": {
			{Name: "Execute", PlayerClass: "Warrior", Rarity: "Common", Type: "Spell"},
		},
	}
	inTx(t, dbh, func(tx *sql.Tx) error {
		return ReplaceCards(ctx, tx, catalog)
	})

	rows, err := Usage(ctx, dbh, UsageOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.InDelta(t, 0.0, rows[0].PercentDecks, 1e-9, "no division by a zero deck count")
}

func TestWriteCSV(t *testing.T) {
	rows := []UsageRow{
		{CardName: "Execute", Hero: "Warrior", TotalDecks: 3, AvgPerDeck: 1.5, PercentDecks: 75, InCollection: 2},
		{CardName: "Loatheb", Hero: "Neutral"},
	}

	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, rows, false))
	out := buf.String()
	require.Contains(t, out, "cardname, hero, totaldecks, avgperdeck, percentdecks, incollection")
	require.Contains(t, out, "Execute, Warrior, 3, 1.50, 75.00%, 2")
	require.NotContains(t, out, "Loatheb")

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, rows, true))
	require.Contains(t, buf.String(), "Loatheb")
}

func TestRenderTable(t *testing.T) {
	rows := []UsageRow{
		{CardName: "Execute", Hero: "Warrior", TotalDecks: 3, AvgPerDeck: 1.5, PercentDecks: 75, InCollection: 2},
	}
	var buf strings.Builder
	RenderTable(&buf, rows, false)
	require.Contains(t, buf.String(), "Execute")
	require.Contains(t, buf.String(), "75.00%")
}
