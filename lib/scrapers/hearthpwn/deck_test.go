package hearthpwn

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func cardCells(t *testing.T, page string) []*goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	var cells []*goquery.Selection
	doc.Find("#cards > tbody > tr > td.col-name").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, cell)
	})
	return cells
}

func TestCardEntries(t *testing.T) {
	cells := cardCells(t, `
	<table id="cards"><tbody>
		<tr><td class="col-name">
			<b><a href="/cards/1">Fireball</a></b> &#215; 2
		</td></tr>
		<tr><td class="col-name">
			<b><a href="/cards/2">Pyroblast</a></b> × 1
		</td></tr>
	</tbody></table>`)

	entries, err := cardEntries(context.Background(), 1, cells)
	require.NoError(t, err)
	require.Equal(t, []CardEntry{
		{Name: "Fireball", Amount: 2},
		{Name: "Pyroblast", Amount: 1},
	}, entries)
}

func TestCardEntriesMissingAmount(t *testing.T) {
	cells := cardCells(t, `
	<table id="cards"><tbody>
		<tr><td class="col-name"><a href="/cards/1">Fireball</a></td></tr>
	</tbody></table>`)

	entries, err := cardEntries(context.Background(), 1, cells)
	require.NoError(t, err)
	// the 0 sentinel is recorded rather than the row being dropped
	require.Equal(t, []CardEntry{{Name: "Fireball", Amount: 0}}, entries)
}

func TestCardEntriesDuplicateCollapses(t *testing.T) {
	cells := cardCells(t, `
	<table id="cards"><tbody>
		<tr><td class="col-name"><a href="/cards/1">Fireball</a> × 1</td></tr>
		<tr><td class="col-name"><a href="/cards/1">Fireball</a> × 2</td></tr>
	</tbody></table>`)

	entries, err := cardEntries(context.Background(), 1, cells)
	require.NoError(t, err)
	require.Equal(t, []CardEntry{{Name: "Fireball", Amount: 2}}, entries)
}

func TestCardEntriesOverflowAmount(t *testing.T) {
	cells := cardCells(t, `
	<table id="cards"><tbody>
		<tr><td class="col-name"><a href="/cards/1">Fireball</a> × 99999999999999999999</td></tr>
	</tbody></table>`)

	entries, err := cardEntries(context.Background(), 1, cells)
	require.NoError(t, err)
	// a digit run too long for an int64 reads as unextractable
	require.Equal(t, []CardEntry{{Name: "Fireball", Amount: 0}}, entries)
}

func TestFetchDeckList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/decks/listing/42/class":
			fmt.Fprint(w, `<table id="cards"><tbody>
				<tr><td class="col-name"><b><a href="/cards/1">Fireball</a></b> × 2</td></tr>
				<tr><td class="col-name"><b><a href="/cards/2">Pyroblast</a></b> × 1</td></tr>
			</tbody></table>`)
		case "/decks/listing/42/neutral":
			fmt.Fprint(w, `<table id="cards"><tbody>
				<tr><td class="col-name"><b><a href="/cards/3">Doomsayer</a></b> × 2</td></tr>
			</tbody></table>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{
		BaseUrl:           server.URL,
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)

	// the deck is the union of the class page and the neutral page
	entries, err := client.FetchDeckList(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, []CardEntry{
		{Name: "Fireball", Amount: 2},
		{Name: "Pyroblast", Amount: 1},
		{Name: "Doomsayer", Amount: 2},
	}, entries)
}

func TestCardEntriesMissingName(t *testing.T) {
	cells := cardCells(t, `
	<table id="cards"><tbody>
		<tr><td class="col-name">no anchor here × 2</td></tr>
	</tbody></table>`)

	_, err := cardEntries(context.Background(), 1, cells)
	require.Error(t, err)
}
