package corpus

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"hearthcorpus/services/corpus/db"
)

// CardNameFetcher resolves a site card id to a card name over the
// network.
type CardNameFetcher interface {
	CardName(ctx context.Context, cardId int64) (string, error)
}

// CardNames is a read-through cache over the card_ids table. A card id
// never changes its name so hits are kept forever and the table
// survives corpus refreshes.
type CardNames struct {
	qry   *db.Queries
	fetch CardNameFetcher
}

func NewCardNames(qry *db.Queries, fetch CardNameFetcher) *CardNames {
	return &CardNames{qry: qry, fetch: fetch}
}

func (c *CardNames) Resolve(ctx context.Context, cardId int64) (string, error) {
	name, err := c.qry.GetCardName(ctx, cardId)
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	slog.InfoContext(ctx, "card id not cached, fetching", "card_id", cardId)
	name, err = c.fetch.CardName(ctx, cardId)
	if err != nil {
		return "", err
	}
	err = c.qry.InsertCardId(ctx, db.InsertCardIdParams{
		Cardid:   cardId,
		Cardname: name,
	})
	if err != nil {
		return "", err
	}
	return name, nil
}
