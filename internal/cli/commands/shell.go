package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/duckframe/pkg/dataframe"
	"github.com/leapstack-labs/duckframe/pkg/engine"
	"github.com/spf13/cobra"
)

const (
	shellPrompt     = "duckframe> "
	shellContPrompt = "      ...> "
)

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive SQL shell",
		Long: `Start an interactive SQL shell on a new session.

Statements end with a semicolon and may span several lines. Lines starting
with a dot are shell commands; type .help to list them. When stdin is not a
terminal the input is run as a script.`,
		RunE: runShell,
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	sh := &shell{cc: cc, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
	if !isInteractive(cmd.InOrStdin()) {
		return sh.runScript(cmd.Context(), cmd.InOrStdin())
	}
	return sh.runREPL(cmd.Context())
}

// shell accumulates input lines into statements and dispatches dot-commands.
type shell struct {
	cc     *CommandContext
	out    io.Writer
	errOut io.Writer
	buf    strings.Builder
}

func (s *shell) runScript(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if s.feed(ctx, scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	s.flush(ctx)
	return nil
}

func (s *shell) runREPL(ctx context.Context) error {
	historyFile := ""
	if p := s.cc.Cfg.HistoryPath; p != "" {
		historyFile = filepath.Join(filepath.Dir(p), "shell_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newTableCompleter(ctx, s.cc.Session),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          s.out,
		Stderr:          s.errOut,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(s.out, "duckframe %s (engine: %s, session: %s)\n",
		dataframe.Version, s.cc.Cfg.Engine.Type, s.cc.Session.ID())
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.buf.Reset()
			rl.SetPrompt(shellPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if s.feed(ctx, line) {
			break
		}
		if s.buf.Len() > 0 {
			rl.SetPrompt(shellContPrompt)
		} else {
			rl.SetPrompt(shellPrompt)
		}
	}
	return nil
}

// feed consumes one input line and reports whether the shell should exit.
func (s *shell) feed(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if s.buf.Len() == 0 {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return s.dot(ctx, trimmed)
		}
	}

	s.buf.WriteString(line)
	s.buf.WriteByte('\n')
	if engine.IsTerminated(s.buf.String()) {
		s.flush(ctx)
	}
	return false
}

// flush runs every buffered statement.
func (s *shell) flush(ctx context.Context) {
	script := s.buf.String()
	s.buf.Reset()
	for _, stmt := range engine.SplitStatements(script) {
		if err := s.cc.executeAndRender(ctx, s.out, stmt, 0); err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}
	}
}

// dot runs a dot-command and reports whether the shell should exit.
func (s *shell) dot(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printShellHelp(s.out)

	case ".tables":
		schema := ""
		if len(parts) > 1 {
			schema = parts[1]
		}
		tables, err := s.cc.Session.Catalog().ListTables(ctx, schema)
		if err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
			break
		}
		_ = renderRows(s.out, []string{"schema", "name", "type"}, tableRows(tables), s.cc.Cfg.Output)

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .schema <table>")
			break
		}
		cols, err := s.cc.Session.Catalog().ListColumns(ctx, parts[1])
		if err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
			break
		}
		_ = renderRows(s.out, []string{"column", "type", "nullable"}, columnRows(cols), s.cc.Cfg.Output)

	case ".clear":
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .tables [schema]   List tables and views
  .schema <table>    Show the columns of a table or view
  .clear             Clear the screen
  .quit / .exit      Exit the shell

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// newTableCompleter creates a readline completer for table names.
func newTableCompleter(ctx context.Context, sess *dataframe.Session) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	// Completion is best effort.
	if tables, err := sess.Catalog().ListTables(ctx, ""); err == nil {
		for _, t := range tables {
			items = append(items, readline.PcItem(t.Name))
		}
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
