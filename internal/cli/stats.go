package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
	"github.com/tobin-dev/relq/internal/session"
)

// TeamStats is the aggregated output row for one team.
type TeamStats struct {
	Team   *string  `json:"team"` // nil groups members without a team
	Count  int64    `json:"count"`
	AvgAge *float64 `json:"avg_age"`
	MinAge *int64   `json:"min_age"`
	MaxAge *int64   `json:"max_age"`
}

// StatsResult is the output payload for the stats command.
type StatsResult struct {
	Teams []TeamStats `json:"teams"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <dataset.yaml>",
		Short: "Aggregate member ages per team",
		Long: `Load a dataset and report member count plus age aggregates grouped by
team. Members without a team form their own group.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runStats(rootOpts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	s, _, err := LoadSession(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	// Left join keeps teamless members; their group key is the null name.
	spec := query.From(session.MembersTable, "m").
		LeftJoin(session.TeamsTable, "t",
			query.Eq(query.F("m", "team_id"), query.F("t", "id"))).
		Select(
			query.P("team", query.F("t", "name")),
			query.P("count", query.Count()),
			query.P("avg_age", query.Avg(query.F("m", "age"))),
			query.P("min_age", query.Min(query.F("m", "age"))),
			query.P("max_age", query.Max(query.F("m", "age"))),
		).
		GroupBy(query.F("t", "name")).
		Spec()

	tuples, err := s.FetchTuples(spec)
	if err != nil {
		_ = formatter.Error(ErrCodeBadQuery, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	result := StatsResult{Teams: make([]TeamStats, 0, len(tuples))}
	for _, tuple := range tuples {
		row := TeamStats{}
		if name, ok := tuple.Get("team").(ir.String); ok {
			teamName := string(name)
			row.Team = &teamName
		}
		if n, ok := tuple.Get("count").(ir.Int); ok {
			row.Count = int64(n)
		}
		if avg, ok := tuple.Get("avg_age").(ir.Float); ok {
			f := float64(avg)
			row.AvgAge = &f
		}
		if lo, ok := tuple.Get("min_age").(ir.Int); ok {
			v := int64(lo)
			row.MinAge = &v
		}
		if hi, ok := tuple.Get("max_age").(ir.Int); ok {
			v := int64(hi)
			row.MaxAge = &v
		}
		result.Teams = append(result.Teams, row)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%d group(s)\n", len(result.Teams))
	for _, g := range result.Teams {
		team := "<no team>"
		if g.Team != nil {
			team = *g.Team
		}
		avg := "-"
		if g.AvgAge != nil {
			avg = fmt.Sprintf("%.1f", *g.AvgAge)
		}
		fmt.Fprintf(formatter.Writer, "  %s: count=%d avg=%s\n", team, g.Count, avg)
	}
	return nil
}
