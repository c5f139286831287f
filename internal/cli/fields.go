package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sift"
)

// FieldsOptions holds flags for the fields command.
type FieldsOptions struct {
	*RootOptions
	Table string
}

// FieldInfo describes one top-level field across a dataset.
type FieldInfo struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Types []string `json:"types"`
}

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FieldsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fields <dataset>",
		Short: "List the top-level fields of a dataset",
		Long: `List the top-level field names of a dataset with occurrence counts
and the value types observed under each.

Example:
  sift fields heroes.json
  sift fields app.db --table users`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "table name (SQLite datasets)")

	return cmd
}

func runFields(opts *FieldsOptions, dataset string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	records, err := LoadRecords(dataset, opts.Table)
	if err != nil {
		return formatter.CommandError(ErrCodeGeneric, err)
	}
	formatter.VerboseLog("loaded %d records from %s", len(records), dataset)

	infos := surveyFields(records)
	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	w := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tCOUNT\tTYPES")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\t%s\n", info.Name, info.Count, joinTypes(info.Types))
	}
	if err := w.Flush(); err != nil {
		return formatter.CommandError(ErrCodeWriteFailed, fmt.Errorf("writing output: %w", err))
	}
	return nil
}

func surveyFields(records []sift.Record) []FieldInfo {
	counts := make(map[string]int)
	types := make(map[string]map[string]struct{})
	for _, rec := range records {
		for name, v := range rec {
			counts[name]++
			if types[name] == nil {
				types[name] = make(map[string]struct{})
			}
			types[name][typeName(v)] = struct{}{}
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]FieldInfo, 0, len(names))
	for _, name := range names {
		var seen []string
		for tn := range types[name] {
			seen = append(seen, tn)
		}
		sort.Strings(seen)
		infos = append(infos, FieldInfo{Name: name, Count: counts[name], Types: seen})
	}
	return infos
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "other"
	}
}

func joinTypes(types []string) string {
	out := ""
	for i, tn := range types {
		if i > 0 {
			out += ","
		}
		out += tn
	}
	return out
}
