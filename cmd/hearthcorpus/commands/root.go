package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"hearthcorpus/lib/configutil"
	"hearthcorpus/lib/scrapers/hearthpwn"
	"hearthcorpus/lib/scrapers/mashape"
	"hearthcorpus/lib/serviceutil"
	"hearthcorpus/lib/sqlutil"
	"hearthcorpus/services/corpus"
	"hearthcorpus/services/corpus/db"

	"github.com/spf13/cobra"
)

type Config struct {
	// api key for the mashape card catalog
	MashapeKey string `json:"mashape_key"`
	// hearthpwn Auth.Session cookie, required for the collection
	AuthSession string `json:"auth_session"`
}

var (
	buildDecks      *bool
	buildCards      *bool
	buildCollection *bool
	results         *bool
	all             *bool

	perClass  *bool
	count     *int
	filtering *string
	sorting   *string
	patch     *string

	dbPath      *string
	configPath  *string
	pretty      *bool
	concurrency *int
)

func init() {
	flags := rootCmd.Flags()
	buildDecks = flags.Bool("builddecks", false, "Scrape the deck listing and rebuild the deck corpus.")
	buildCards = flags.Bool("buildcards", false, "Rebuild the card catalog from the mashape api.")
	buildCollection = flags.Bool("buildcollection", false, "Rebuild the owned-card collection (needs auth_session).")
	results = flags.Bool("results", false, "Print the card usage report. Positional arguments restrict it to those card sets.")
	all = flags.Bool("all", false, "Shorthand for --builddecks --buildcards --buildcollection --results.")

	perClass = flags.Bool("perclass", false, "Discover the same number of decks for every class instead of one global listing.")
	count = flags.Int("count", 0, "Number of decks to discover. 0 samples 10% of what the filter matches.")
	filtering = flags.String("filtering", "", "Raw listing filter expression, as seen in the site's url.")
	sorting = flags.String("sorting", "", "Listing sort key. Defaults to -viewcount.")
	patch = flags.String("patch", "", "Patch/build id to filter decks by. Defaults to the newest patch.")

	dbPath = flags.String("db", "hearthstats.db", "The database to build the corpus in.")
	configPath = flags.String("config", "config.json5", "Path to the configuration file.")
	pretty = flags.Bool("pretty", false, "Render the report as a table instead of csv lines.")
	concurrency = flags.Int("concurrency", 4, "Deck pages fetched in parallel.")
}

var rootCmd = &cobra.Command{
	Use:   "hearthcorpus [--all] [--builddecks] [--buildcards] [--buildcollection] [--results [set ...]]",
	Short: "hearthcorpus builds a deck corpus off hearthpwn and reports card usage against your collection.",
	Run:   run,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	if *all {
		*buildDecks = true
		*buildCards = true
		*buildCollection = true
		*results = true
	}
	if !*buildDecks && !*buildCards && !*buildCollection && !*results {
		cmd.Usage()
		os.Exit(1)
	}

	cfg, err := configutil.ReadConfig[Config](*configPath)
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	// credential checks come before any network traffic
	if *buildCards && cfg.MashapeKey == "" {
		serviceutil.Fatal("--buildcards needs mashape_key in the config", os.ErrNotExist)
	}
	if *buildCollection && cfg.AuthSession == "" {
		serviceutil.Fatal("--buildcollection needs auth_session in the config", os.ErrNotExist)
	}

	dbh, err := sqlutil.Open(db.Schema, *dbPath)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	defer dbh.Close()

	if *buildDecks || *buildCards || *buildCollection {
		err := build(ctx, dbh, cfg)
		if err != nil {
			serviceutil.Fatal("failed to build corpus", err)
		}
	}

	if *results {
		report, err := corpus.Usage(ctx, dbh, corpus.UsageOptions{Sets: args})
		if err != nil {
			serviceutil.Fatal("failed to compute usage report", err)
		}
		// a set-filtered or --all report keeps unplayed cards visible
		includeZero := len(args) > 0 || *all
		if *pretty {
			corpus.RenderTable(os.Stdout, report, includeZero)
		} else {
			err := corpus.WriteCSV(os.Stdout, report, includeZero)
			if err != nil {
				serviceutil.Fatal("failed to write report", err)
			}
		}
	}
}

// build runs every selected ingestion inside one transaction so a
// failure halfway leaves the previous corpus untouched.
func build(ctx context.Context, dbh *sql.DB, cfg Config) error {
	var site *hearthpwn.Client
	if *buildDecks || *buildCollection {
		var err error
		site, err = hearthpwn.NewClient(hearthpwn.ClientOptions{
			AuthSession: cfg.AuthSession,
		})
		if err != nil {
			return fmt.Errorf("hearthpwn client: %w", err)
		}
	}

	tx, err := dbh.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if *buildDecks {
		opts := hearthpwn.ListingOptions{
			Filter: *filtering,
			Sort:   *sorting,
			Patch:  *patch,
			Count:  *count,
		}
		var stubs []hearthpwn.DeckStub
		if *perClass {
			stubs, err = site.DiscoverDecksPerClass(ctx, opts)
		} else {
			stubs, err = site.DiscoverDecks(ctx, opts)
		}
		if err != nil {
			return fmt.Errorf("discovering decks: %w", err)
		}

		decks, err := site.FetchDecks(ctx, stubs, *concurrency)
		if err != nil {
			return fmt.Errorf("fetching decks: %w", err)
		}
		err = corpus.ReplaceDecks(ctx, tx, decks)
		if err != nil {
			return err
		}
	}

	if *buildCards {
		catalog, err := mashape.NewClient(mashape.ClientOptions{
			ApiKey: cfg.MashapeKey,
		}).FetchCards(ctx)
		if err != nil {
			return fmt.Errorf("fetching card catalog: %w", err)
		}
		err = corpus.ReplaceCards(ctx, tx, catalog)
		if err != nil {
			return err
		}
	}

	if *buildCollection {
		collection, err := site.FetchCollection(ctx)
		if err != nil {
			return fmt.Errorf("fetching collection: %w", err)
		}
		names := corpus.NewCardNames(db.New(tx), site)
		err = corpus.ReplaceCollection(ctx, tx, collection, names)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
