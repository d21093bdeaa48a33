package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phantomworx/cq-intel/internal/cache"
	"github.com/phantomworx/cq-intel/internal/entry"
	"github.com/phantomworx/cq-intel/internal/fetch"
	"github.com/phantomworx/cq-intel/internal/logging"
	"github.com/phantomworx/cq-intel/internal/query"
	"github.com/phantomworx/cq-intel/internal/search"
)

// queryFlags are the filter settings shared by get and export.
type queryFlags struct {
	from        string
	to          string
	searchQuery string
	scope       string
	sortOrder   string
	force       bool
	wordsAround int
}

func (qf *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&qf.from, "from", "", "Start month, YYYY-MM (inclusive)")
	cmd.Flags().StringVar(&qf.to, "to", "", "End month, YYYY-MM (inclusive)")
	cmd.Flags().StringVarP(&qf.searchQuery, "search", "s", "", `Search query; quote phrases ("west coast" weather)`)
	cmd.Flags().StringVar(&qf.scope, "scope", string(query.ScopeFiltered), "Search scope: filtered or all")
	cmd.Flags().StringVar(&qf.sortOrder, "sort", "", "Sort order: newest or oldest (default from config)")
	cmd.Flags().BoolVar(&qf.force, "force", false, "Force a network refresh, bypassing the cache")
	cmd.Flags().IntVar(&qf.wordsAround, "words-around", 15, "Words of context around search matches")
}

// options validates the flags and builds query options. Malformed month
// strings become open bounds; a bad scope or sort is an error since the
// user typed it explicitly.
func (qf *queryFlags) options(cmd *cobra.Command) (query.Options, error) {
	scope := query.Scope(strings.ToLower(qf.scope))
	if scope != query.ScopeFiltered && scope != query.ScopeAll {
		return query.Options{}, fmt.Errorf("invalid scope: %s (must be 'filtered' or 'all')", qf.scope)
	}

	sortOrder := qf.sortOrder
	if sortOrder == "" {
		sortOrder = viper.GetString("sort.order")
	}
	order := query.Order(strings.ToLower(sortOrder))
	if order != query.OrderNewest && order != query.OrderOldest {
		return query.Options{}, fmt.Errorf("invalid sort order: %s (must be 'newest' or 'oldest')", sortOrder)
	}

	// An explicit --sort becomes the new persisted preference.
	if cmd.Flags().Changed("sort") {
		viper.Set("sort.order", string(order))
		if err := viper.WriteConfig(); err != nil {
			logging.Log.WithError(err).Warn("saving sort preference")
		}
	}

	return query.Options{
		Range: query.ParseRange(qf.from, qf.to),
		Terms: search.Parse(qf.searchQuery),
		Scope: scope,
		Sort:  order,
	}, nil
}

func newGetCmd() *cobra.Command {
	var qf queryFlags
	var format string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch comment entries and print the filtered result list",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := qf.options(cmd)
			if err != nil {
				return err
			}

			format = strings.ToLower(format)
			if format != string(FormatText) && format != string(FormatJSON) {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", format)
			}

			rep, err := loadWorkingSet(cmd, qf.force)
			if err != nil {
				return err
			}

			result := buildResult(rep, opts, qf.wordsAround)
			return WriteOutput(os.Stdout, result, OutputFormat(format))
		},
	}

	qf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	return cmd
}

// statusReporter is the rendering collaborator handed to the fetch
// orchestrator: it keeps the latest adopted working set and relays
// status messages to stderr, where they don't pollute piped output.
type statusReporter struct {
	entries  []entry.Entry
	source   fetch.Source
	warnings []string
}

func (r *statusReporter) Adopt(entries []entry.Entry, src fetch.Source) {
	r.entries = entries
	r.source = src
}

func (r *statusReporter) Info(message string) {
	fmt.Fprintln(os.Stderr, message)
}

func (r *statusReporter) Warn(message string) {
	r.warnings = append(r.warnings, message)
	fmt.Fprintln(os.Stderr, message)
}

// loadWorkingSet wires up the cache, detector, and orchestrator, then
// loads the configured source URL.
func loadWorkingSet(cmd *cobra.Command, force bool) (*statusReporter, error) {
	store, err := cache.New(dataDir(cmd))
	if err != nil {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}

	rep := &statusReporter{}
	detector := cache.NewRefreshDetector(store.Dir())
	orch := fetch.New(store, detector, viper.GetString("proxy.url"), rep)

	sourceURL := viper.GetString("source.url")
	if err := orch.Load(cmd.Context(), sourceURL, force); err != nil {
		return nil, err
	}

	return rep, nil
}

// buildResult runs the query pipeline over the adopted working set.
func buildResult(rep *statusReporter, opts query.Options, wordsAround int) *Result {
	visible := query.Run(rep.entries, opts)
	return &Result{
		Entries:     visible,
		Total:       query.TotalCandidates(rep.entries, opts),
		Terms:       opts.Terms,
		Source:      rep.source,
		WordsAround: wordsAround,
	}
}
