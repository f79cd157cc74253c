// Package mashape talks to omgvamp's Hearthstone API, the authoritative
// catalog of collectible cards.
package mashape

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hearthcorpus/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/mashape")

const DefaultBaseUrl = "https://omgvamp-hearthstone-v1.p.mashape.com"

// Card is one card definition as returned by the catalog. PlayerClass
// is empty for neutral cards.
type Card struct {
	Name        string `json:"name"`
	CardSet     string `json:"cardSet"`
	PlayerClass string `json:"playerClass"`
	Rarity      string `json:"rarity"`
	Type        string `json:"type"`
}

// Catalog maps a card set's name to the cards it contains.
type Catalog map[string][]Card

type ClientOptions struct {
	BaseUrl string
	// vendor api key, sent as the X-Mashape-Key header
	ApiKey string
}

type Client struct {
	Http *resty.Client
}

func NewClient(opts ClientOptions) *Client {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetHeader("X-Mashape-Key", opts.ApiKey)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/mashape/http")

	return &Client{Http: client}
}

// FetchCards pulls every collectible card definition, grouped by set.
// The catalog is returned as-is; filtering of non-playable entries
// happens at ingest time.
func (c *Client) FetchCards(ctx context.Context) (Catalog, error) {
	ctx, span := tracer.Start(ctx, "FetchCards")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("collectible", "1").
		Get("/cards")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("GET /cards: %s", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var catalog Catalog
	err = json.Unmarshal(res.Body(), &catalog)
	if err != nil {
		// echo the (possibly empty) body, it is the only diagnostic
		err = fmt.Errorf("undecodable catalog response: %w (body: %q)", err, res.String())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return catalog, nil
}
