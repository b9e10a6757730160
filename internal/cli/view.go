package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/pipeline"
	"github.com/matzehuels/treeprint/pkg/render/sink"
	"github.com/matzehuels/treeprint/pkg/render/styles"
)

// Zoom steps of the terminal viewer. At step n one cell covers n times the
// default pixels in each direction.
const (
	minViewZoom = 1
	maxViewZoom = 4
)

// viewCommand creates the view command, an interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		style string
		src   sourceFlags
		lf    layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "view [records]",
		Short: "Explore a family tree in the terminal",
		Long: `Explore a family tree in the terminal.

The tree is drawn with box-drawing characters. Use the arrow keys to pan and
+/- to zoom. When stdout is not a terminal the drawing is printed instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			src.apply(cmd, args, &opts)
			lf.apply(cmd, &opts)
			opts.VizType = graph.VizTypeTree
			if cmd.Flags().Changed("style") {
				opts.Style = style
			}
			return c.runView(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&style, "style", pipeline.DefaultStyle, "colour palette: classic (default), simple")
	src.register(cmd)
	lf.register(cmd)

	return cmd
}

func (c *CLI) runView(ctx context.Context, opts pipeline.Options, w io.Writer) error {
	if err := opts.ValidateForLoad(); err != nil {
		return err
	}
	st, err := styles.Lookup(opts.Style)
	if err != nil {
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
	l, err := runner.Layout(ctx, recs, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if f, ok := w.(*os.File); !ok || !isTerminal(f) {
		out, err := sink.RenderText(l, sink.WithTextStyle(st))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}

	m, err := newViewModel(l, st, opts.SourceName())
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithOutput(w)).Run()
	return err
}

// =============================================================================
// viewModel - Pan and zoom viewer
// =============================================================================

type viewKeyMap struct {
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Reset   key.Binding
	Quit    key.Binding
}

func newViewKeyMap() viewKeyMap {
	return viewKeyMap{
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k viewKeyMap) ShortHelp() []key.Binding {
	pan := key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("←↑↓→", "pan"))
	return []key.Binding{pan, k.ZoomIn, k.ZoomOut, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k viewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// viewModel is the bubbletea model for the terminal viewer.
type viewModel struct {
	layout graph.Layout
	style  styles.Style
	title  string

	zoom     int
	viewport viewport.Model
	keys     viewKeyMap
	help     help.Model
}

func newViewModel(l graph.Layout, st styles.Style, title string) (viewModel, error) {
	m := viewModel{
		layout:   l,
		style:    st,
		title:    title,
		zoom:     minViewZoom,
		viewport: viewport.New(80, 20),
		keys:     newViewKeyMap(),
		help:     help.New(),
	}
	if err := m.draw(); err != nil {
		return m, err
	}
	return m, nil
}

// draw re-renders the tree at the current zoom.
func (m *viewModel) draw() error {
	out, err := sink.RenderText(m.layout,
		sink.WithTextStyle(m.style),
		sink.WithColor(),
		sink.WithCellSize(m.zoom*sink.CellWidth, m.zoom*sink.CellHeight))
	if err != nil {
		return err
	}
	m.viewport.SetContent(out)
	return nil
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ZoomIn):
			return m.setZoom(m.zoom - 1)
		case key.Matches(msg, m.keys.ZoomOut):
			return m.setZoom(m.zoom + 1)
		case key.Matches(msg, m.keys.Reset):
			m.viewport.GotoTop()
			return m.setZoom(minViewZoom)
		}
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		m.help.Width = msg.Width
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m viewModel) setZoom(z int) (tea.Model, tea.Cmd) {
	z = min(max(z, minViewZoom), maxViewZoom)
	if z == m.zoom {
		return m, nil
	}
	m.zoom = z
	if err := m.draw(); err != nil {
		return m, tea.Quit
	}
	return m, nil
}

func (m viewModel) View() string {
	status := lipgloss.JoinHorizontal(lipgloss.Top,
		StyleTitle.Render(m.title),
		StyleDim.Render(fmt.Sprintf("  zoom 1:%d  %d%%", m.zoom, int(m.viewport.ScrollPercent()*100))),
	)
	return status + "\n" + m.viewport.View() + "\n" + m.help.View(m.keys)
}
