package hearthpwn

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"hearthcorpus/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

const decksPerPage = 25

// the default filter removes unreleased cards, forge decks and decks
// built entirely from free cards
const defaultFilter = "filter-is-forge=2&filter-unreleased-cards=f" +
	"&filter-deck-tag=1&filter-deck-type-val=8&filter-deck-type-op=4" +
	"&filter-quality-free-max=29"

const defaultSort = "-viewcount"

// classFilterBits enumerates the site's per-class filter encoding, one
// power-of-two bit per hero class, so discovery can be repeated per
// class for balanced sampling.
func classFilterBits() []int {
	bits := make([]int, 0, 9)
	for shift := 2; shift <= 10; shift++ {
		bits = append(bits, 1<<shift)
	}
	return bits
}

type ListingOptions struct {
	// raw filter expression as seen in the site's listing url
	Filter string
	// sort key, as seen after "&sort="
	Sort string
	// patch/build id; resolved to the newest patch when empty
	Patch string
	// number of decks to discover; 0 defaults to a 10% sample of the
	// decks available under the current filter
	Count int
	// class filter bit; 0 means no class filter
	ClassID int
}

// BuildListingURL merges the patch, class and sort into the filter
// expression in that order, appending "&" (or nothing after a trailing
// "?") as needed.
func BuildListingURL(opts ListingOptions) string {
	filtering := opts.Filter
	if filtering == "" {
		filtering = defaultFilter
	}
	sorting := opts.Sort
	if sorting == "" {
		sorting = defaultSort
	}

	if opts.Patch != "" {
		filtering = appendParam(filtering, "filter-build="+opts.Patch)
	}
	if opts.ClassID != 0 {
		filtering = appendParam(filtering, "filter-class="+strconv.Itoa(opts.ClassID))
	}
	filtering = appendParam(filtering, "sort="+sorting)

	if filtering == "" {
		return "/decks"
	}
	return "/decks?" + filtering
}

func appendParam(filtering, param string) string {
	if filtering != "" {
		last := filtering[len(filtering)-1]
		if last != '?' && last != '&' {
			filtering += "&"
		}
	}
	return filtering + param
}

// LatestPatch reads the site's own patch selector and returns the
// numerically largest build offered.
func (c *Client) LatestPatch(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "LatestPatch")
	defer span.End()

	doc, err := c.document(ctx, "/decks")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	var options []string
	doc.Find("#filter-build > option").Each(func(_ int, opt *goquery.Selection) {
		options = append(options, opt.AttrOr("value", ""))
	})
	return maxPatch(options)
}

func pageCount(doc *goquery.Document) (int, error) {
	sel := doc.Find("div.b-pagination.b-pagination-a > ul > li:nth-child(7) > a")
	if len(sel.Nodes) == 0 {
		return 0, fmt.Errorf("pagination indicator not found")
	}
	return strconv.Atoi(strings.TrimSpace(sel.First().Text()))
}

func pagesFor(count int) int {
	return (count + decksPerPage - 1) / decksPerPage
}

// defaultSampleSize is a tenth of the decks available, split over the
// given number of shares, rounded up so small corpora still sample
// something.
func defaultSampleSize(pages, shares int) int {
	total := pages * decksPerPage
	size := (total + 10*shares - 1) / (10 * shares)
	if size < 1 {
		size = 1
	}
	return size
}

var deckHrefRegex = regexp.MustCompile(`^\s*/decks/(\d+)`)

func extractStub(row *goquery.Selection) (DeckStub, error) {
	href := row.Find("td.col-name > div > span > a").First().AttrOr("href", "")
	match := deckHrefRegex.FindStringSubmatch(href)
	if match == nil {
		// there is no fallback identifier source, give up on the row
		return DeckStub{}, fmt.Errorf("no deck id in href %q", href)
	}
	id, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return DeckStub{}, err
	}

	classCell := row.Find("td.col-class").First()
	if len(classCell.Nodes) == 0 {
		return DeckStub{}, fmt.Errorf("deck %d: class column missing", id)
	}
	class := htmlutil.CleanText(htmlutil.DirectText(classCell.Nodes[0]))

	deckType := htmlutil.CleanText(row.Find("td.col-deck-type > span").First().Text())

	rating, err := ParseRating(row.Find("td.col-ratings > div").First().Text())
	if err != nil {
		return DeckStub{}, fmt.Errorf("deck %d: rating: %w", id, err)
	}

	dustCell := row.Find("td.col-dust-cost").First()
	if len(dustCell.Nodes) == 0 {
		return DeckStub{}, fmt.Errorf("deck %d: dust column missing", id)
	}
	dust, err := ParseDust(htmlutil.DirectText(dustCell.Nodes[0]))
	if err != nil {
		return DeckStub{}, fmt.Errorf("deck %d: dust: %w", id, err)
	}

	updated, err := ParseEpoch(row.Find("td.col-updated > abbr").First().AttrOr("data-epoch", ""))
	if err != nil {
		return DeckStub{}, fmt.Errorf("deck %d: updated: %w", id, err)
	}

	return DeckStub{
		ID:      id,
		Class:   class,
		Type:    deckType,
		Rating:  rating,
		Dust:    dust,
		Updated: updated,
	}, nil
}

// extractStubs pulls every deck row off a listing page. Each field is
// sub-selected from its row root, so a malformed page with uneven
// columns fails loudly instead of silently pairing values across rows.
func extractStubs(doc *goquery.Document) ([]DeckStub, error) {
	var stubs []DeckStub
	var rowErr error

	doc.Find("#decks > tbody > tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		stub, err := extractStub(row)
		if err != nil {
			rowErr = fmt.Errorf("row %d: %w", i, err)
			return false
		}
		stubs = append(stubs, stub)
		return true
	})

	if rowErr != nil {
		return nil, rowErr
	}
	return stubs, nil
}

// DiscoverDecks walks the paginated deck listing and returns up to
// opts.Count deck stubs, in listing order.
func (c *Client) DiscoverDecks(ctx context.Context, opts ListingOptions) ([]DeckStub, error) {
	ctx, span := tracer.Start(ctx, "DiscoverDecks")
	defer span.End()

	if opts.Patch == "" {
		patch, err := c.LatestPatch(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("resolving latest patch: %w", err)
		}
		slog.InfoContext(ctx, "defaulting to latest patch", "patch", patch)
		opts.Patch = patch
	}
	listingUrl := BuildListingURL(opts)

	count := opts.Count
	if count <= 0 {
		doc, err := c.document(ctx, listingUrl)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		pages, err := pageCount(doc)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		count = defaultSampleSize(pages, 1)
		slog.InfoContext(ctx, "defaulting deck count to a 10% sample", "pagecount", pages, "count", count)
	}

	var stubs []DeckStub
	for page := 1; page <= pagesFor(count); page++ {
		pageUrl := listingUrl
		if page > 1 {
			pageUrl += "&page=" + strconv.Itoa(page)
		}

		doc, err := c.document(ctx, pageUrl)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		pageStubs, err := extractStubs(doc)
		if err != nil {
			err = fmt.Errorf("listing page %d: %w", page, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		slog.InfoContext(ctx, "discovered listing page", "page", page, "decks", len(pageStubs))
		stubs = append(stubs, pageStubs...)
	}

	// the last page may over-fetch
	if len(stubs) > count {
		stubs = stubs[:count]
	}
	return stubs, nil
}

// DiscoverDecksPerClass repeats listing discovery once per hero class
// so every class is equally represented, at the cost of one listing
// crawl per class.
func (c *Client) DiscoverDecksPerClass(ctx context.Context, opts ListingOptions) ([]DeckStub, error) {
	ctx, span := tracer.Start(ctx, "DiscoverDecksPerClass")
	defer span.End()

	classes := classFilterBits()

	if opts.Patch == "" {
		patch, err := c.LatestPatch(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("resolving latest patch: %w", err)
		}
		opts.Patch = patch
	}

	count := opts.Count
	if count <= 0 {
		// size the per-class share off the unfiltered listing so all
		// classes return the same number of decks
		doc, err := c.document(ctx, BuildListingURL(opts))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		pages, err := pageCount(doc)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		count = defaultSampleSize(pages, len(classes))
		slog.InfoContext(ctx, "defaulting per-class deck count", "pagecount", pages, "count", count)
	}

	var stubs []DeckStub
	for _, classId := range classes {
		classOpts := opts
		classOpts.ClassID = classId
		classOpts.Count = count

		classStubs, err := c.DiscoverDecks(ctx, classOpts)
		if err != nil {
			err = fmt.Errorf("class filter %d: %w", classId, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		stubs = append(stubs, classStubs...)
	}
	return stubs, nil
}
