package hearthpwn

import (
	"context"
	"encoding/json"
	"fmt"

	"hearthcorpus/lib/htmlutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FetchCollection pulls the operator's owned-card list. The client must
// have been built with an Auth.Session credential or the site will
// answer with an empty body.
func (c *Client) FetchCollection(ctx context.Context) (Collection, error) {
	ctx, span := tracer.Start(ctx, "FetchCollection")
	defer span.End()

	res, err := c.get(ctx, "/ajax/collection")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Collection{}, err
	}

	var collection Collection
	err = json.Unmarshal(res.Body(), &collection)
	if err != nil {
		// echo the (possibly empty) body, it is the only diagnostic
		err = fmt.Errorf("undecodable collection response: %w (body: %q)", err, res.String())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Collection{}, err
	}
	return collection, nil
}

// CardName resolves a raw site card id to the card's display name by
// scraping the header off the card's own page.
func (c *Client) CardName(ctx context.Context, cardId int64) (string, error) {
	ctx, span := tracer.Start(ctx, "CardName")
	defer span.End()
	span.SetAttributes(attribute.Int64("card_id", cardId))

	doc, err := c.document(ctx, fmt.Sprintf("/cards/%d", cardId))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	name := htmlutil.CleanText(doc.Find("#content > section > div > header.h2.no-sub.with-nav > h2").First().Text())
	if name == "" {
		err := fmt.Errorf("card %d: name header not found", cardId)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return name, nil
}
