package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treescope/pkg/canvas"
	"github.com/matzehuels/treescope/pkg/nav"
	"github.com/matzehuels/treescope/pkg/pipeline"
	"github.com/matzehuels/treescope/pkg/tree"
)

// statusLines is the number of terminal rows below the drawing.
const statusLines = 1

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		source  sourceFlags
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "browse <file|url|->",
		Short: "Explore a document tree in the terminal",
		Long: `Browse draws the document tree in the terminal. Click a node to drill into
it and click the arrow in the top-left corner to go back.

Keys: b/backspace back, r reset to the document root, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], source, logFile)
		},
	}

	source.register(cmd)
	cmd.Flags().StringVar(&logFile, "log-file", "", "write navigation logs to this file")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, ref string, source sourceFlags, logFile string) error {
	runner, err := c.newRunner(source.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	src, err := runner.Load(ctx, ref, source.options())
	if err != nil {
		return err
	}

	// The alternate screen owns stdout and stderr while the program runs.
	navLog := log.New(io.Discard)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		navLog = newLogger(f, c.Logger.GetLevel())
	}
	runner.Logger = navLog
	installLogHooks(navLog)
	defer installLogHooks(c.Logger)

	m := newBrowseModel(runner, src, ref, c.navOptions(navLog)...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(browseModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

// navOptions returns the controller options shared by the interactive
// front ends.
func (c *CLI) navOptions(l *log.Logger) []nav.Option {
	return []nav.Option{
		nav.WithLogger(l),
		nav.WithTheme(c.Config.RenderTheme()),
		nav.WithBackZone(c.Config.BackZone),
	}
}

// =============================================================================
// browseModel - Interactive tree explorer
// =============================================================================

// browseModel paints the navigation controller onto a character grid and
// forwards left clicks to it through a dispatcher.
type browseModel struct {
	runner  *pipeline.Runner
	src     tree.Source
	ref     string
	navOpts []nav.Option

	cells   *canvas.Cells
	ctrl    *nav.Controller
	pointer *nav.Dispatcher
	err     error
}

func newBrowseModel(runner *pipeline.Runner, src tree.Source, ref string, opts ...nav.Option) browseModel {
	return browseModel{
		runner:  runner,
		src:     src,
		ref:     ref,
		navOpts: opts,
		cells:   canvas.NewCells(0, 0),
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if err := m.resize(msg.Width, msg.Height-statusLines); err != nil {
			m.err = err
			return m, tea.Quit
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "b", "backspace", "left":
			if m.ctrl != nil {
				m.ctrl.Back()
			}
		case "r":
			if m.ctrl != nil {
				m.ctrl.Reset()
			}
		}
	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
			return m, nil
		}
		if m.pointer == nil || msg.Y >= m.cells.Rows() {
			return m, nil
		}
		m.pointer.Click(canvas.CellCenter(msg.X, msg.Y))
	}
	return m, nil
}

// resize fits the grid to the terminal and lays the tree out again at
// the new width. The layout is rebuilt from the snapshot on screen, so
// the drill history starts over.
func (m *browseModel) resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	m.cells.Resize(cols, rows)

	src := m.src
	if m.ctrl != nil {
		src = m.ctrl.Current().Root()
	}
	snap, err := m.runner.Build(src, m.cells.Width())
	if err != nil {
		return err
	}

	opts := append([]nav.Option{nav.WithBuildOptions(m.runner.BuildOptions()...)}, m.navOpts...)
	ctrl, err := nav.Attach(m.cells, snap, opts...)
	if err != nil {
		return err
	}
	pointer := &nav.Dispatcher{}
	if err := ctrl.Bind(pointer); err != nil {
		return err
	}
	m.ctrl, m.pointer = ctrl, pointer
	return nil
}

func (m browseModel) View() string {
	if m.ctrl == nil {
		return StyleDim.Render("Loading " + m.ref + "...")
	}
	var b strings.Builder
	b.WriteString(m.cells.String())
	b.WriteString("\n")
	b.WriteString(m.status())
	return b.String()
}

func (m browseModel) status() string {
	cur := m.ctrl.Current()
	left := StyleTitle.Render(cur.Path()) + " " +
		StyleDim.Render(fmt.Sprintf("%d nodes · depth %d", cur.Len(), m.ctrl.Depth()))
	help := StyleDim.Render("click drill · b back · r reset · q quit")
	return left + "  " + help
}
