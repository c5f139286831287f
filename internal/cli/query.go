package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sift"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Table          string
	Where          []string
	Limit          int
	Count          bool
	Pluck          string
	OrderBy        string
	Desc           bool
	NoIndex        bool
	IndexThreshold int
	Config         string
}

// QueryResult is the JSON payload of a query run.
type QueryResult struct {
	Count   int           `json:"count"`
	Records []sift.Record `json:"records,omitempty"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <dataset>",
		Short: "Filter a dataset with condition strings",
		Long: `Filter a JSON, JSON Lines, or SQLite dataset with condition strings.

Conditions are "field op value" strings applied in order; each narrows
the previous result. Membership conditions read the other way around
("peas in favorite.food"). Malformed conditions match nothing and are
reported only under --verbose.

Example:
  sift query heroes.json --where "age > 1000" --where "gender == M"
  sift query events.jsonl --where "payload.kind == click" --count
  sift query app.db --table users --where "plan == pro" --pluck name,email`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "table name (SQLite datasets)")
	cmd.Flags().StringArrayVar(&opts.Where, "where", nil, "condition string, repeatable")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "print at most N records (0 = all)")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "print only the surviving record count")
	cmd.Flags().StringVar(&opts.Pluck, "pluck", "", "comma-separated fields to project")
	cmd.Flags().StringVar(&opts.OrderBy, "order-by", "", "sort surviving records by field")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "sort descending (with --order-by)")
	cmd.Flags().BoolVar(&opts.NoIndex, "no-index", false, "force full scans, never index")
	cmd.Flags().IntVar(&opts.IndexThreshold, "index-threshold", -1, "dataset size at which indexing starts (-1 = default)")
	cmd.Flags().StringVar(&opts.Config, "config", "", "YAML config file")

	return cmd
}

func runQuery(opts *QueryOptions, dataset string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	siftOpts, err := resolveOptions(opts)
	if err != nil {
		return formatter.CommandError(ErrCodeBadConfig, err)
	}

	records, err := LoadRecords(dataset, opts.Table)
	if err != nil {
		return formatter.CommandError(ErrCodeGeneric, err)
	}
	formatter.VerboseLog("loaded %d records from %s", len(records), dataset)

	q := sift.NewWithOptions(records, siftOpts)
	for _, cond := range opts.Where {
		before := q.Count()
		q = q.Where(cond)
		formatter.VerboseLog("where %q: %d -> %d records", cond, before, q.Count())
		if q.Count() == 0 && before > 0 {
			formatter.VerboseLog("condition %q matched nothing (malformed conditions also match nothing)", cond)
		}
	}
	if opts.OrderBy != "" {
		q = q.OrderBy(opts.OrderBy, !opts.Desc)
	}

	if opts.Count {
		return writeCount(formatter, q.Count())
	}

	var out []sift.Record
	if opts.Pluck != "" {
		fields := splitFields(opts.Pluck)
		out = q.Pluck(fields...)
	} else {
		out = q.ToList()
	}
	total := len(out)
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}

	return writeRecords(formatter, out, total)
}

// resolveOptions layers config file and flags over the defaults. Flags
// win over the config file.
func resolveOptions(opts *QueryOptions) (sift.Options, error) {
	siftOpts := sift.DefaultOptions()
	if opts.Config != "" {
		loaded, err := LoadConfig(opts.Config)
		if err != nil {
			return siftOpts, err
		}
		siftOpts = loaded
	}
	if opts.NoIndex {
		siftOpts.UseIndex = false
	}
	if opts.IndexThreshold >= 0 {
		siftOpts.IndexThreshold = opts.IndexThreshold
	}
	return siftOpts, nil
}

func splitFields(list string) []string {
	var out []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func writeCount(formatter *OutputFormatter, count int) error {
	if formatter.Format == "json" {
		return formatter.Success(QueryResult{Count: count})
	}
	_, err := fmt.Fprintln(formatter.Writer, count)
	if err != nil {
		return formatter.CommandError(ErrCodeWriteFailed, fmt.Errorf("writing output: %w", err))
	}
	return nil
}

func writeRecords(formatter *OutputFormatter, records []sift.Record, total int) error {
	if formatter.Format == "json" {
		return formatter.Success(QueryResult{Count: total, Records: records})
	}

	enc := json.NewEncoder(formatter.Writer)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return formatter.CommandError(ErrCodeWriteFailed, fmt.Errorf("writing output: %w", err))
		}
	}
	formatter.VerboseLog("%d of %d records shown", len(records), total)
	return nil
}
