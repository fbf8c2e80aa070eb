package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tobin-dev/relq/internal/entity"
	"github.com/tobin-dev/relq/internal/query"
	"github.com/tobin-dev/relq/internal/session"
)

// QueryOptions holds the flag-driven filters for the query command.
type QueryOptions struct {
	Name     string
	Contains string
	Team     string
	MinAge   int64
	MaxAge   int64
	OrderBy  string
	Desc     bool
	Offset   int64
	Limit    int64
}

// MemberView is the output row for one member.
type MemberView struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
	Age  int64   `json:"age"`
	Team *string `json:"team,omitempty"`
}

// QueryResult is the output payload for the query command.
type QueryResult struct {
	Total   int64        `json:"total"`
	Members []MemberView `json:"members"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{MinAge: -1, MaxAge: -1, Limit: -1}

	cmd := &cobra.Command{
		Use:   "query <dataset.yaml>",
		Short: "Run a member query against a dataset",
		Long: `Load a dataset and list the members matching the given filters.

Filters combine with AND. Paging flags apply after ordering; the
reported total counts matches before paging.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "exact user name")
	cmd.Flags().StringVar(&opts.Contains, "contains", "", "user name substring")
	cmd.Flags().StringVar(&opts.Team, "team", "", "team name")
	cmd.Flags().Int64Var(&opts.MinAge, "min-age", -1, "minimum age (inclusive)")
	cmd.Flags().Int64Var(&opts.MaxAge, "max-age", -1, "maximum age (inclusive)")
	cmd.Flags().StringVar(&opts.OrderBy, "order-by", "", "order by field (name|age)")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "descending order")
	cmd.Flags().Int64Var(&opts.Offset, "offset", 0, "rows to skip")
	cmd.Flags().Int64Var(&opts.Limit, "limit", -1, "maximum rows to return")

	return cmd
}

func runQuery(rootOpts *RootOptions, opts *QueryOptions, path string, cmd *cobra.Command) error {
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

	spec, err := buildMemberSpec(opts)
	if err != nil {
		_ = formatter.Error(ErrCodeBadQuery, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	members, total, err := s.FetchMemberPage(spec)
	if err != nil {
		_ = formatter.Error(ErrCodeBadQuery, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	formatter.VerboseLog("%d of %d member(s) after paging", len(members), total)

	result := QueryResult{Total: total, Members: make([]MemberView, 0, len(members))}
	for _, m := range members {
		view, err := memberView(s, m)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return NewExitError(ExitFailure, err.Error())
		}
		result.Members = append(result.Members, view)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return printMembers(formatter, result)
}

// buildMemberSpec translates the command flags into a query spec rooted at
// the member table.
func buildMemberSpec(opts *QueryOptions) (*query.Spec, error) {
	b := query.From(session.MembersTable, "m")

	if opts.Team != "" {
		b.InnerJoin(session.TeamsTable, "t",
			query.Eq(query.F("m", "team_id"), query.F("t", "id"))).
			Fetch().
			Where(query.Eq(query.F("t", "name"), query.Str(opts.Team)))
	}
	if opts.Name != "" {
		b.Where(query.Eq(query.F("m", "user_name"), query.Str(opts.Name)))
	}
	if opts.Contains != "" {
		b.Where(query.Match{Expr: query.F("m", "user_name"), Mode: query.MatchContains, Text: opts.Contains})
	}
	if opts.MinAge >= 0 {
		b.Where(query.Goe(query.F("m", "age"), query.Num(opts.MinAge)))
	}
	if opts.MaxAge >= 0 {
		b.Where(query.Loe(query.F("m", "age"), query.Num(opts.MaxAge)))
	}

	switch opts.OrderBy {
	case "":
	case "name":
		order := query.Asc(query.F("m", "user_name"))
		if opts.Desc {
			order = query.Desc(query.F("m", "user_name"))
		}
		b.OrderBy(order)
	case "age":
		order := query.Asc(query.F("m", "age"))
		if opts.Desc {
			order = query.Desc(query.F("m", "age"))
		}
		b.OrderBy(order)
	default:
		return nil, fmt.Errorf("unknown order-by field %q: must be name or age", opts.OrderBy)
	}

	if opts.Offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}
	b.Offset(opts.Offset)
	b.Limit(opts.Limit)

	return b.Spec(), nil
}

// memberView renders one member, resolving its team name when a team is
// associated.
func memberView(s *session.Session, m *entity.Member) (MemberView, error) {
	view := MemberView{ID: m.ID(), Age: m.Age()}
	if name, named := m.UserName(); named {
		view.Name = &name
	}
	if m.Team().Present() {
		team, err := s.LoadTeam(m)
		if err != nil {
			return MemberView{}, err
		}
		name := team.Name()
		view.Team = &name
	}
	return view, nil
}

func printMembers(formatter *OutputFormatter, result QueryResult) error {
	fmt.Fprintf(formatter.Writer, "%d member(s) of %d total\n", len(result.Members), result.Total)
	for _, m := range result.Members {
		name := "<unnamed>"
		if m.Name != nil {
			name = *m.Name
		}
		team := "-"
		if m.Team != nil {
			team = *m.Team
		}
		fmt.Fprintf(formatter.Writer, "  #%d %s age=%d team=%s\n", m.ID, name, m.Age, team)
	}
	return nil
}
