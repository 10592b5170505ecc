package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/killallgit/blog-discovery-api/internal/services/search"
	"github.com/spf13/cobra"
)

// searchCmd runs a search from the terminal
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a search against the database",
	Long: `Run a search against the configured database and print the results.

Parameters follow the HTTP API: anything unparseable falls back to its
default, and a search without --q, --category or --tag returns nothing.

Example:
  discovery-api search --q react --type blogs
  discovery-api search --category AI --tag llm --sort popular --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	f := searchCmd.Flags()
	f.String("q", "", "search term")
	f.String("type", "all", "result kinds: all, blogs or users")
	f.String("category", "", "exact category")
	f.String("tag", "", "exact tag")
	f.String("from", "", "earliest creation date (YYYY-MM-DD or RFC3339)")
	f.String("to", "", "latest creation date, inclusive")
	f.String("sort", "recent", "recent, popular, liked or oldest")
	f.Int("page", 1, "page number")
	f.Int("limit", 0, "page size (default from config)")
	f.Bool("json", false, "print the raw JSON response")
}

func runSearch(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	str := func(name string) string {
		v, _ := f.GetString(name)
		return v
	}
	page, _ := f.GetInt("page")
	limit, _ := f.GetInt("limit")

	params := search.Params{
		Q:        str("q"),
		Type:     str("type"),
		Category: str("category"),
		Tag:      str("tag"),
		From:     str("from"),
		To:       str("to"),
		Sort:     str("sort"),
		Page:     strconv.Itoa(page),
	}
	if limit > 0 {
		params.Limit = strconv.Itoa(limit)
	}

	db, err := openDatabase(appConfig)
	if err != nil {
		return err
	}
	defer db.Close()

	limits := search.Limits{Default: appConfig.Search.DefaultLimit, Max: appConfig.Search.MaxLimit}
	resp, err := newSearchService(db, appConfig, nil).Search(cmd.Context(), limits.Parse(params))
	if err != nil {
		return err
	}

	if asJSON, _ := f.GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return printResults(cmd.OutOrStdout(), resp)
}

func printResults(out io.Writer, resp *search.Response) error {
	fmt.Fprintf(out, "%d result(s), page %d of %d\n\n", resp.TotalCount, resp.CurrentPage, max(resp.TotalPages, 1))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tID\tTITLE / NAME\tDETAIL")
	for _, r := range resp.Results {
		switch v := r.(type) {
		case search.BlogResult:
			fmt.Fprintf(w, "%s\t%d\t%s\t%s by @%s [%s]\n",
				v.ResultType(), v.ID, v.Title, v.Category, v.AuthorHandle, strings.Join(v.Tags, ", "))
		case search.UserResult:
			fmt.Fprintf(w, "%s\t%d\t%s\t@%s\n", v.ResultType(), v.ID, v.Name, v.Handle)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(resp.Suggestions.Categories) > 0 || len(resp.Suggestions.Tags) > 0 {
		fmt.Fprintf(out, "\ncategories: %s\ntags: %s\n",
			facets(resp.Suggestions.Categories), facets(resp.Suggestions.Tags))
	}
	return nil
}

func facets(fs []search.Facet) string {
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		parts = append(parts, fmt.Sprintf("%s (%d)", f.Value, f.Count))
	}
	return strings.Join(parts, ", ")
}
