package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-isatty"
)

// ConfirmResult holds the result of a confirmation prompt.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

type confirmModel struct {
	prompt    string
	confirmed bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "y", "Y":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "n", "N":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case "enter":
			// Default to no
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m confirmModel) render() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s [y/N] ", m.prompt)
}

// Confirm shows a yes/no prompt on the terminal and returns the user's
// choice. The default answer is "no".
func Confirm(prompt string) (ConfirmResult, error) {
	return ConfirmWith(os.Stdin, os.Stdout, prompt)
}

// ConfirmWith prompts on out and reads the answer from in. When in is not a
// terminal a single line is read instead of starting an interactive program.
func ConfirmWith(in io.Reader, out io.Writer, prompt string) (ConfirmResult, error) {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		p := tea.NewProgram(confirmModel{prompt: prompt}, tea.WithInput(in), tea.WithOutput(out))
		finalModel, err := p.Run()
		if err != nil {
			return ConfirmResult{}, err
		}
		m := finalModel.(confirmModel)
		return ConfirmResult{
			Confirmed: m.confirmed,
			Cancelled: m.cancelled,
		}, nil
	}

	return confirmLine(in, out, prompt)
}

func confirmLine(in io.Reader, out io.Writer, prompt string) (ConfirmResult, error) {
	fmt.Fprintf(out, "%s [y/N] ", prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ConfirmResult{}, err
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(out)
		return ConfirmResult{Cancelled: true}, nil
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return ConfirmResult{Confirmed: true}, nil
	default:
		return ConfirmResult{}, nil
	}
}
