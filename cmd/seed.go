package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/killallgit/blog-discovery-api/internal/services/cache"
	"github.com/killallgit/blog-discovery-api/internal/services/seed"
	"github.com/killallgit/blog-discovery-api/pkg/config"
	"github.com/killallgit/blog-discovery-api/pkg/logger"
	"github.com/spf13/cobra"
)

// seedCmd imports fixture data
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import authors and posts from a JSON file",
	Long: `Import authors and posts from a JSON fixture file.

Authors are matched by handle, so existing authors are reused. Tags are
trimmed, lower-cased and de-duplicated. The whole file is imported in one
transaction: any invalid entry aborts the import. Cached search responses
are cleared afterwards so a shared Redis cache does not serve stale results.

File format:
  {
    "authors":  [{"name": "Ada", "handle": "ada", "bio": "...", "followerCount": 10}],
    "contents": [{"title": "...", "body": "...", "category": "AI", "tags": ["llm"],
                  "authorHandle": "ada", "status": "published"}]
  }`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringP("file", "f", "", "fixture file to import")
	_ = seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening fixture: %w", err)
	}
	defer file.Close()

	fixture, err := seed.Load(file)
	if err != nil {
		return err
	}

	db, err := openDatabase(appConfig)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := seed.Import(cmd.Context(), db.DB, fixture)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d post(s) with %d tag(s); %d new author(s), %d existing\n",
		res.Contents, res.Tags, res.AuthorsCreated, res.AuthorsExisting)

	clearResponseCache(cmd.Context(), appConfig.Cache)
	return nil
}

// clearResponseCache drops cached search responses so servers sharing the
// cache see the imported posts. Failing to clear only costs staleness.
func clearResponseCache(ctx context.Context, cfg config.CacheConfig) {
	log := logger.Named("seed")

	c, err := cache.New(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("response cache unavailable, cached searches may be stale")
		return
	}
	if c == nil {
		return
	}
	defer c.Close()

	if err := c.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("clearing response cache failed, cached searches may be stale")
		return
	}
	log.Info().Str("backend", cfg.Backend).Msg("response cache cleared")
}
