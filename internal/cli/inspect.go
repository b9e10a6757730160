package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/pipeline"
)

// inspectCommand creates the inspect command that prints positioned boxes.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		src sourceFlags
		lf  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [records]",
		Short: "Print the computed box positions as a table",
		Long: `Print the computed box positions as a table.

Every person is listed in preorder, followed by its partners. The table
shows the record id, the parent or partner box, the relationship period and
the top-left corner of each box.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			src.apply(cmd, args, &opts)
			lf.apply(cmd, &opts)
			opts.VizType = graph.VizTypeTree
			return c.runInspect(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	src.register(cmd)
	lf.register(cmd)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, opts pipeline.Options, w io.Writer) error {
	if err := opts.ValidateForLoad(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	recs, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.SourceName(), err)
	}
	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, recs, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	fmt.Fprintln(w, StyleTitle.Render(opts.SourceName()))
	fmt.Fprintln(w, nodeTable(l))
	fmt.Fprintf(w, "%s %s\n", StyleDim.Render("frame"), StyleNumber.Render(fmt.Sprintf("%dx%d", l.Width, l.Height)))
	fmt.Fprintln(w, statsLine(len(recs.Persons), len(recs.Relationships), cacheHit))
	return nil
}

// nodeTable renders the layout nodes in preorder.
func nodeTable(l graph.Layout) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	order := preorder(l)
	rows := make([][]string, 0, len(order))
	for _, n := range order {
		link := "—"
		switch {
		case n.Partner != nil:
			link = "↔ " + l.Nodes[*n.Partner].Name
		case n.Parent != nil:
			link = "↑ " + l.Nodes[*n.Parent].Name
		}
		period := ""
		if n.IsSpouse() {
			period = n.Since + " –"
			if n.Till != "" {
				period += " " + n.Till
			}
		}
		current := ""
		if n.Current {
			current = "●"
		}
		name := n.Name
		if n.IsSpouse() {
			name = "  " + name
		}
		rows = append(rows, []string{
			strconv.Itoa(n.Index), name, n.Sex, strconv.Itoa(n.ID), link, period, current,
			strconv.Itoa(n.X), strconv.Itoa(n.Y),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Name", "Sex", "ID", "Relation", "Period", "Cur", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			switch col {
			case 2:
				return cell.Inherit(sexStyle(rows[row][2]))
			case 0, 3, 7, 8:
				return cell.Foreground(colorCyan).Align(lipgloss.Right)
			case 4, 5:
				return cell.Foreground(colorGray)
			}
			return cell
		})
	return t.Render()
}

// preorder lists every person followed by its partners, then its children
// in index order.
func preorder(l graph.Layout) []*graph.Node {
	children := make(map[int][]int)
	spouses := make(map[int][]int)
	root := -1
	for i := range l.Nodes {
		n := &l.Nodes[i]
		switch {
		case n.Partner != nil:
			spouses[*n.Partner] = append(spouses[*n.Partner], i)
		case n.Parent != nil:
			children[*n.Parent] = append(children[*n.Parent], i)
		case root < 0:
			root = i
		}
	}

	var out []*graph.Node
	var visit func(i int)
	visit = func(i int) {
		out = append(out, &l.Nodes[i])
		for _, s := range spouses[i] {
			out = append(out, &l.Nodes[s])
		}
		for _, ch := range children[i] {
			visit(ch)
		}
	}
	if root >= 0 {
		visit(root)
	}
	return out
}
