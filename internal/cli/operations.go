package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stayscout/internal/server"
	"github.com/matzehuels/stayscout/pkg/errors"
	"github.com/matzehuels/stayscout/pkg/listing"
)

// commandDef names the CLI command for an operation.
type commandDef struct {
	op      listing.Op
	use     string
	example string
}

var commandTable = []commandDef{
	{listing.OpSearch, "search <location>", `  stayscout search "Lisbon, Portugal" --checkin 2026-05-01 --checkout 2026-05-04 --adults 2`},
	{listing.OpDetail, "detail <id>...", `  stayscout detail 12345678 87654321`},
	{listing.OpReviews, "reviews <id>...", `  stayscout reviews 12345678 --cursor 50`},
	{listing.OpCalendar, "calendar <id>...", `  stayscout calendar 12345678 --months 6`},
	{listing.OpHost, "host <id>...", `  stayscout host 12345678`},
	{listing.OpStats, "stats <location>", `  stayscout stats "Kyoto" --property-type "Entire home"`},
	{listing.OpOccupancy, "occupancy <id>...", `  stayscout occupancy 12345678 --months 12`},
}

// operationCommands builds one command per entry of the operation table.
func (c *CLI) operationCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(commandTable))
	for _, def := range commandTable {
		op, ok := server.Lookup(def.op)
		if !ok {
			continue
		}
		cmds = append(cmds, c.operationCommand(op, def))
	}
	return cmds
}

// operationCommand maps an operation's required parameter to positional
// arguments and every other parameter to a flag. Listing commands accept
// several IDs and fetch them concurrently.
func (c *CLI) operationCommand(op server.Operation, def commandDef) *cobra.Command {
	positional := positionalParam(op)
	multi := positional == "id"

	cmd := &cobra.Command{
		Use:     def.use,
		Short:   op.Title,
		Long:    op.Description,
		Example: def.example,
		Args:    cobra.ExactArgs(1),
	}
	if multi {
		cmd.Args = cobra.MinimumNArgs(1)
	}

	flags := make(map[string]any, len(op.Params))
	for _, p := range op.Params {
		if p.Name == positional {
			continue
		}
		name := flagName(p.Name)
		switch p.Type {
		case "integer":
			flags[p.Name] = cmd.Flags().Int(name, 0, p.Description)
		default:
			flags[p.Name] = cmd.Flags().String(name, "", p.Description)
		}
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		fields := make(map[string]any, len(flags)+1)
		for name, v := range flags {
			if !cmd.Flags().Changed(flagName(name)) {
				continue
			}
			switch p := v.(type) {
			case *int:
				fields[name] = *p
			case *string:
				fields[name] = *p
			}
		}
		return c.runOperation(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), op, positional, args, fields)
	}
	return cmd
}

// runOperation runs op once per positional value and prints the results
// in argument order.
func (c *CLI) runOperation(ctx context.Context, out, errOut io.Writer, op server.Operation, positional string, values []string, fields map[string]any) error {
	src, _, closeSrc, err := c.source(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	calls := make([]server.Args, len(values))
	for i, v := range values {
		fields[positional] = v
		if calls[i], err = decodeArgs(fields); err != nil {
			return err
		}
	}

	stop := func() {}
	if c.spinners && !c.jsonOut {
		msg := op.Title + "..."
		if len(values) > 1 {
			msg = fmt.Sprintf("%s (%d)...", op.Title, len(values))
		}
		s := newSpinner(ctx, errOut, msg)
		s.Start()
		stop = s.Stop
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	results := make([]any, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, a := range calls {
		g.Go(func() error {
			res, err := op.Run(gctx, src, a)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	err = g.Wait()
	stop()
	if err != nil {
		return err
	}
	if len(calls) > 1 {
		prog.done(fmt.Sprintf("Fetched %d results", len(calls)))
	}

	return c.print(out, results)
}

// print writes results as JSON or as styled text. A single result is
// printed on its own; several are printed as a JSON array or one after
// another.
func (c *CLI) print(w io.Writer, results []any) error {
	if c.jsonOut {
		if len(results) == 1 {
			return writeJSON(w, results[0])
		}
		return writeJSON(w, results)
	}
	for i, r := range results {
		if i > 0 {
			printNewline(w)
		}
		if err := render(w, r); err != nil {
			return err
		}
	}
	return nil
}

// decodeArgs converts flag values to [server.Args] through the same JSON
// names the MCP tools accept.
func decodeArgs(fields map[string]any) (server.Args, error) {
	var a server.Args
	data, err := json.Marshal(fields)
	if err != nil {
		return a, errors.Wrap(errors.ErrCodeValidation, err, "encode arguments")
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return a, errors.Wrap(errors.ErrCodeValidation, err, "decode arguments")
	}
	return a, nil
}

func positionalParam(op server.Operation) string {
	for _, p := range op.Params {
		if p.Required {
			return p.Name
		}
	}
	return ""
}

func flagName(param string) string {
	return strings.ReplaceAll(param, "_", "-")
}
