package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/zombor/invoice-capture/internal/bridge"
	"github.com/zombor/invoice-capture/internal/extraction"
	"github.com/zombor/invoice-capture/internal/workflow"
)

const helpText = `Commands:
  scan <file> [file...]      extract invoices from files
  list                       show the documents list
  show [N]                   print document N (default: current)
  set <field> <value>        edit a header field: inn, number, date, total
  item <N> <column> <value>  edit a row: article, name, qty, price
  add                        add an empty row
  delete                     delete the current document
  submit                     send the current document
  back                       return to scanning
  quit                       exit`

// errQuit ends the command loop
var errQuit = errors.New("quit")

// Session is one interactive capture session on a terminal
type Session struct {
	in       *bufio.Reader
	out      io.Writer
	view     *View
	grid     *MemoryGrid
	host     *Host
	workflow *workflow.Workflow
}

// NewSession wires a Workflow to a terminal reading commands from in
func NewSession(ctx context.Context, in io.Reader, out io.Writer, extractor workflow.Extractor, sender Sender) *Session {
	reader := bufio.NewReader(in)
	s := &Session{
		in:   reader,
		out:  out,
		view: NewView(out),
		grid: NewMemoryGrid(),
		host: NewHost(ctx, reader, out, sender),
	}
	s.workflow = workflow.New(extractor, s.view, s.grid, bridge.NewWithFallback(s.host, s.host.Console))
	return s
}

// Workflow returns the session's workflow
func (s *Session) Workflow() *workflow.Workflow {
	return s.workflow
}

// Host returns the session's bridge host
func (s *Session) Host() *Host {
	return s.host
}

// Scan loads paths and runs them through the batch pipeline. Files that
// cannot be read are reported and skipped.
func (s *Session) Scan(ctx context.Context, paths []string) workflow.Summary {
	files := make([]extraction.File, 0, len(paths))
	for _, path := range paths {
		f, err := extraction.LoadFile(path)
		if err != nil {
			slog.Warn("Skipping file", "path", path, "error", err)
			fmt.Fprintf(s.out, "❌ Cannot read %q: %v\n", path, err)
			continue
		}
		files = append(files, f)
	}

	summary := s.workflow.Ingest(ctx, files)
	if summary.Processed > 0 {
		s.printCurrent()
	}
	return summary
}

// Run reads commands until quit, end of input or ctx cancellation
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, `Type "help" for commands.`)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, "> ")
		line, err := s.in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if cmdErr := s.Execute(ctx, line); cmdErr != nil {
				if errors.Is(cmdErr, errQuit) {
					return nil
				}
				fmt.Fprintf(s.out, "error: %v\n", cmdErr)
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}
	}
}

// Execute runs one command line
func (s *Session) Execute(ctx context.Context, line string) error {
	command, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(command) {
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
	case "quit", "exit", "q":
		return errQuit
	case "scan":
		paths := strings.Fields(rest)
		if len(paths) == 0 {
			return errors.New("usage: scan <file> [file...]")
		}
		s.Scan(ctx, paths)
	case "list", "ls":
		s.view.PrintList()
	case "show":
		if rest != "" {
			n, err := s.documentNumber(rest)
			if err != nil {
				return err
			}
			s.workflow.SelectDocument(n)
		}
		s.printCurrent()
	case "set":
		field, value, ok := strings.Cut(rest, " ")
		if !ok {
			return errors.New("usage: set <field> <value>")
		}
		if err := s.requireDocument(); err != nil {
			return err
		}
		if err := s.view.SetField(field, strings.TrimSpace(value)); err != nil {
			return err
		}
		s.workflow.SaveCurrentDocument()
	case "item":
		return s.editItem(rest)
	case "add":
		if err := s.requireDocument(); err != nil {
			return err
		}
		s.workflow.AddItem()
		s.printCurrent()
	case "delete", "rm":
		if err := s.requireDocument(); err != nil {
			return err
		}
		s.workflow.DeleteCurrent()
		if s.view.ReviewVisible() {
			s.printCurrent()
		}
	case "submit":
		if !s.host.Submit() {
			return errors.New("nothing to submit")
		}
	case "back":
		if !s.host.Back() {
			return errors.New("already on the scan screen")
		}
	default:
		return fmt.Errorf("unknown command %q, type \"help\"", command)
	}
	return nil
}

func (s *Session) editItem(args string) error {
	number, rest, _ := strings.Cut(args, " ")
	column, value, ok := strings.Cut(strings.TrimSpace(rest), " ")
	if !ok {
		return errors.New("usage: item <N> <column> <value>")
	}
	if err := s.requireDocument(); err != nil {
		return err
	}

	n, err := strconv.Atoi(number)
	if err != nil {
		return fmt.Errorf("invalid item number %q", number)
	}
	return s.grid.Edit(n-1, column, strings.TrimSpace(value))
}

// documentNumber turns a 1-based list position into a queue index
func (s *Session) documentNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > s.workflow.Queue().Len() {
		return 0, fmt.Errorf("no document %q", arg)
	}
	return n - 1, nil
}

func (s *Session) requireDocument() error {
	if s.workflow.Queue().Len() == 0 {
		return errors.New("no documents, scan some first")
	}
	return nil
}

func (s *Session) printCurrent() {
	s.view.PrintDocument(s.grid.Rows())
	if s.host.main.Visible() {
		fmt.Fprintf(s.out, "[%s]\n", s.host.main.Text())
	}
}
