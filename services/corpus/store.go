// Package corpus persists scraped deck, catalog and collection data
// and derives card usage reports from it.
package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"hearthcorpus/lib/scrapers/hearthpwn"
	"hearthcorpus/lib/scrapers/mashape"
	"hearthcorpus/services/corpus/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/corpus")

// recreate drops the given tables and re-runs the schema. the schema
// only creates missing tables so everything else, card_ids included,
// is left alone.
func recreate(ctx context.Context, tx *sql.Tx, tables ...string) error {
	for _, table := range tables {
		_, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table)
		if err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	_, err := tx.ExecContext(ctx, db.Schema)
	if err != nil {
		return fmt.Errorf("recreate schema: %w", err)
	}
	return nil
}

// ReplaceDecks rebuilds the decks and deck_lists tables from the given
// decks. The refresh is destructive, the previous corpus is dropped
// rather than merged. The caller owns the transaction.
func ReplaceDecks(ctx context.Context, tx *sql.Tx, decks []hearthpwn.Deck) error {
	ctx, span := tracer.Start(ctx, "ReplaceDecks")
	defer span.End()

	err := recreate(ctx, tx, "decks", "deck_lists")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	qry := db.New(tx)
	for _, deck := range decks {
		err := qry.InsertDeck(ctx, db.InsertDeckParams{
			Deckid:  deck.ID,
			Class:   deck.Class,
			Type:    deck.Type,
			Rating:  deck.Rating,
			Dust:    deck.Dust,
			Updated: deck.Updated,
		})
		if err != nil {
			err = fmt.Errorf("insert deck %d: %w", deck.ID, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		for _, card := range deck.Cards {
			err := qry.InsertDeckCard(ctx, db.InsertDeckCardParams{
				Deckid:   deck.ID,
				Cardname: card.Name,
				Amount:   card.Amount,
			})
			if err != nil {
				err = fmt.Errorf("insert deck %d card %q: %w", deck.ID, card.Name, err)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
		}
	}

	slog.InfoContext(ctx, "replaced deck corpus", "decks", len(decks))
	return nil
}

// ReplaceCards rebuilds the cards table from the catalog. Hero cards
// and the "Hero Skins" set are not playable deck cards so they are
// skipped, as are sets with nothing in them. Cards without a class
// are filed under Neutral.
func ReplaceCards(ctx context.Context, tx *sql.Tx, catalog mashape.Catalog) error {
	ctx, span := tracer.Start(ctx, "ReplaceCards")
	defer span.End()

	err := recreate(ctx, tx, "cards")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	qry := db.New(tx)
	count := 0
	for cardset, cards := range catalog {
		if len(cards) == 0 || cardset == "Hero Skins" {
			continue
		}
		for _, card := range cards {
			if card.Type == "Hero" {
				continue
			}
			hero := card.PlayerClass
			if hero == "" {
				hero = "Neutral"
			}
			err := qry.InsertCard(ctx, db.InsertCardParams{
				Cardname: card.Name,
				Cardset:  cardset,
				Hero:     hero,
				Rarity:   card.Rarity,
			})
			if err != nil {
				err = fmt.Errorf("insert card %q: %w", card.Name, err)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			count++
		}
	}

	slog.InfoContext(ctx, "replaced card catalog", "cards", count)
	return nil
}

// ReplaceCollection rebuilds the collection table. Card ids coming off
// the wire are resolved to names through the given cache. Amounts are
// clamped to 2 since extra copies cannot go in a deck.
func ReplaceCollection(
	ctx context.Context,
	tx *sql.Tx,
	collection hearthpwn.Collection,
	names *CardNames,
) error {
	ctx, span := tracer.Start(ctx, "ReplaceCollection")
	defer span.End()

	err := recreate(ctx, tx, "collection")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	qry := db.New(tx)
	total := len(collection.Cards)
	for i, card := range collection.Cards {
		name, err := names.Resolve(ctx, card.ExternalID)
		if err != nil {
			err = fmt.Errorf("resolve card id %d: %w", card.ExternalID, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		amount := card.Count
		if amount > 2 {
			amount = 2
		}
		err = qry.InsertCollectionCard(ctx, db.InsertCollectionCardParams{
			Cardname: name,
			Amount:   amount,
		})
		if err != nil {
			err = fmt.Errorf("insert collection card %q: %w", name, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		slog.DebugContext(
			ctx, "added card to collection",
			"n", i+1,
			"total", total,
			"card", name,
		)
	}

	slog.InfoContext(ctx, "replaced collection", "cards", total)
	return nil
}
