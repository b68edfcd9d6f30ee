package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Gurpartap/reactagent/agent"
)

var (
	colorHeader      = lipgloss.Color("244")
	colorThought     = lipgloss.Color("246")
	colorAction      = lipgloss.Color("33")
	colorObservation = lipgloss.Color("42")
	colorSynthetic   = lipgloss.Color("220")
	colorFinal       = lipgloss.Color("39")
	colorFailure     = lipgloss.Color("196")
)

// writeTranscript prints a run the way the model saw it, one marker per line.
func writeTranscript(w io.Writer, run agent.Run, noColor bool) {
	plain := noColor || !shouldUseStyling(w)

	fmt.Fprintln(w, stylize(fmt.Sprintf("> run %s: %s", run.ID, run.Goal), plain, colorHeader))
	for _, step := range run.Transcript {
		if thought := strings.TrimSpace(step.Thought); thought != "" {
			fmt.Fprintln(w, stylize(agent.MarkerThought+" "+thought, plain, colorThought))
		}
		if step.Action != nil {
			fmt.Fprintln(w, stylize(agent.MarkerAction+" "+step.Action.Tool, plain, colorAction))
			fmt.Fprintln(w, stylize(agent.MarkerActionInput+" "+step.Action.Input, plain, colorAction))
		}
		switch {
		case step.Synthetic:
			fmt.Fprintln(w, stylize(agent.MarkerObservation+" "+step.Observation, plain, colorSynthetic))
		case step.Action != nil:
			fmt.Fprintln(w, stylize(agent.MarkerObservation+" "+step.Observation, plain, colorObservation))
		default:
			fmt.Fprintln(w, stylize(agent.MarkerFinalAnswer+" "+step.FinalAnswer, plain, colorFinal))
		}
	}
	if run.Status == agent.RunStatusFailed {
		fmt.Fprintln(w, stylize(fmt.Sprintf("> failed after %d iteration(s): %s", run.Iterations, run.Failure), plain, colorFailure))
	}
}

func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func shouldUseStyling(writer io.Writer) bool {
	if writer == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
