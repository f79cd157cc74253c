package hearthpwn

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"sync/atomic"

	"hearthcorpus/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// the copy count is only present as a rendered "× N" glyph in the row
// markup; depending on how the document was serialized it may appear
// as the rune or as an entity
var cardAmountRegex = regexp.MustCompile(`(?:×|&#215;|&times;)\s*(\d+)`)

// FetchDeckList returns the full card list for one deck. The site
// renders a deck across two pages, one with only class cards and one
// with only neutral cards; the deck is the union of both.
func (c *Client) FetchDeckList(ctx context.Context, deckId int64) ([]CardEntry, error) {
	ctx, span := tracer.Start(ctx, "FetchDeckList")
	defer span.End()
	span.SetAttributes(attribute.Int64("deck_id", deckId))

	var cells []*goquery.Selection
	for _, variant := range []string{"class", "neutral"} {
		doc, err := c.document(ctx, fmt.Sprintf("/decks/listing/%d/%s", deckId, variant))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		doc.Find("#cards > tbody > tr > td.col-name").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cell)
		})
	}

	entries, err := cardEntries(ctx, deckId, cells)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return entries, nil
}

func cardEntries(ctx context.Context, deckId int64, cells []*goquery.Selection) ([]CardEntry, error) {
	entries := make([]CardEntry, 0, len(cells))
	index := map[string]int{}

	for _, cell := range cells {
		name := htmlutil.CleanText(cell.Find("a").First().Text())
		if name == "" {
			return nil, fmt.Errorf("deck %d: card row without a name anchor", deckId)
		}

		markup, err := goquery.OuterHtml(cell)
		if err != nil {
			return nil, err
		}

		// keep entries the amount could not be read off of, with the 0
		// sentinel, so the gap stays visible; an unparseable digit run
		// counts as unreadable too
		var amount int64
		if match := cardAmountRegex.FindStringSubmatch(markup); match != nil {
			amount, err = strconv.ParseInt(match[1], 10, 64)
			if err != nil {
				amount = 0
			}
		}
		if amount == 0 {
			slog.WarnContext(ctx, "unable to get amount for card", "deck_id", deckId, "card", name)
		}

		// the site never legitimately splits a card across two rows;
		// a repeated mention collapses to the last one seen
		if at, ok := index[name]; ok {
			entries[at].Amount = amount
			continue
		}
		index[name] = len(entries)
		entries = append(entries, CardEntry{Name: name, Amount: amount})
	}
	return entries, nil
}

// FetchDecks expands deck stubs into full decks. Up to `concurrency`
// decks are in flight at once while the client's shared limiter caps
// the overall request rate; a deck's class and neutral pages always
// belong to the same unit of work. Results preserve stub order.
func (c *Client) FetchDecks(ctx context.Context, stubs []DeckStub, concurrency int) ([]Deck, error) {
	ctx, span := tracer.Start(ctx, "FetchDecks")
	defer span.End()
	span.SetAttributes(attribute.Int("decks", len(stubs)))

	if concurrency <= 0 {
		concurrency = 1
	}

	decks := make([]Deck, len(stubs))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, stub := range stubs {
		i, stub := i, stub
		g.Go(func() error {
			cards, err := c.FetchDeckList(ctx, stub.ID)
			if err != nil {
				return err
			}
			decks[i] = Deck{DeckStub: stub, Cards: cards}
			slog.InfoContext(ctx, "added deck",
				"n", done.Add(1), "total", len(stubs), "deck_id", stub.ID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return decks, nil
}
