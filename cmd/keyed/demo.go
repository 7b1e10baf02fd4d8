package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/keyed/pkg/dom"
	"github.com/vango-dev/keyed/pkg/keyed"
	"github.com/vango-dev/keyed/pkg/reactive"
)

// scenario is a sequence of inputs rendered through one list.
type scenario struct {
	name  string
	steps [][]int
}

var scenarios = []scenario{
	{"append", [][]int{{1, 2}, {1, 2, 3}}},
	{"swap_rows", [][]int{{1, 2, 3, 4, 5}, {1, 4, 3, 2, 5}, {1, 2, 3, 4, 5}}},
	{"update_row", [][]int{{1, 2, 3}, {1, 4, 3}}},
	{"trigger_with_same_data", [][]int{{1, 2, 3}, {1, 2, 3}}},
	{"delete_row", [][]int{{1, 2, 3}, {1, 3}}},
	{"delete_row_from_start", [][]int{{1, 2, 3}, {2, 3}}},
	{"delete_row_from_end", [][]int{{1, 2, 3}, {1, 2}}},
	{"clear", [][]int{{1, 2, 3}, {}}},
	{"insert_front", [][]int{{1, 2}, {0, 1, 2}}},
	{"reverse", [][]int{{1, 2, 3, 4, 5}, {5, 4, 3, 2, 1}}},
	{"replace_all", [][]int{{1, 2}, {3, 4}}},
}

func demoCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Replay the reference scenarios",
		Long: `Replay the reference scenarios through a keyed list and print, for
every pass, the rendered text, the path taken and the structural operations
the document performed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return runDemo(cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every pass")

	return cmd
}

func runDemo(out io.Writer, logger *slog.Logger) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tPASS\tITEMS\tTEXT\tPATH\tCREATED\tREMOVED\tMOVED\tINSERTS\tMOVES\tREMOVES")

	for _, sc := range scenarios {
		playScenario(tw, sc, logger)
	}
	playNested(tw, logger)

	return tw.Flush()
}

func playScenario(w io.Writer, sc scenario, logger *slog.Logger) {
	doc := dom.NewDocument()
	// Every step runs a pass, even when the data is unchanged.
	items := reactive.NewSignal(sc.steps[0]).WithEquals(func(a, b []int) bool { return false })
	root := reactive.NewOwner(nil)
	defer root.Dispose()

	var list *keyed.List[int, int, *dom.Node]
	root.Run(func() {
		list = keyed.New(doc, keyed.Props[int, int, *dom.Node]{
			Iterable: items,
			View: func(_ *reactive.Owner, v int) keyed.View[*dom.Node] {
				return dom.El("li", strconv.Itoa(v))
			},
			Key: func(v int) int { return v },
		}, keyed.WithLogger(logger))
	})
	ul := dom.El("ul", list)

	report(w, sc.name, list, doc, ul, sc.steps[0])
	for _, step := range sc.steps[1:] {
		doc.ResetOps()
		items.Set(step)
		report(w, sc.name, list, doc, ul, step)
	}
}

// playNested shows a row update through a nested signal: the text changes
// without a pass, then a push renders one new row.
func playNested(w io.Writer, logger *slog.Logger) {
	doc := dom.NewDocument()
	counts := []*reactive.Signal[int]{reactive.NewSignal(1), reactive.NewSignal(2), reactive.NewSignal(3)}
	items := reactive.NewSignal(counts)
	root := reactive.NewOwner(nil)
	defer root.Dispose()

	var list *keyed.List[*reactive.Signal[int], *reactive.Signal[int], *dom.Node]
	root.Run(func() {
		list = keyed.New(doc, keyed.Props[*reactive.Signal[int], *reactive.Signal[int], *dom.Node]{
			Iterable: items,
			View: func(_ *reactive.Owner, s *reactive.Signal[int]) keyed.View[*dom.Node] {
				return dom.El("li", dom.DynText(func() string { return strconv.Itoa(s.Get()) }))
			},
			Key: func(s *reactive.Signal[int]) *reactive.Signal[int] { return s },
		}, keyed.WithLogger(logger))
	})
	ul := dom.El("ul", list)

	values := func() []int {
		out := make([]int, 0, len(items.Peek()))
		for _, s := range items.Peek() {
			out = append(out, s.Peek())
		}
		return out
	}

	report(w, "nested_reactivity", list, doc, ul, values())

	doc.ResetOps()
	counts[0].Set(4)
	report(w, "nested_reactivity", list, doc, ul, values())

	doc.ResetOps()
	items.Set(append(counts[:3:3], reactive.NewSignal(5)))
	report(w, "nested_reactivity", list, doc, ul, values())
}

// passCounter is the part of a keyed list the report reads.
type passCounter interface {
	LastPass() keyed.PassStats
	Passes() uint64
}

func report(w io.Writer, name string, list passCounter, doc *dom.Document, ul *dom.Node, items []int) {
	s := list.LastPass()
	ops := doc.Ops()
	fmt.Fprintf(w, "%s\t%d\t%s\t%q\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
		name, list.Passes(), formatInts(items), ul.TextContent(), s.Path,
		s.Created, s.Removed, s.Moved, ops.Inserts, ops.Moves, ops.Removes)
}

func formatInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
