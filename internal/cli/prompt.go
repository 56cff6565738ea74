package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Prompter abstracts the interactive fallback so Execute can be tested
// without a real terminal.
type Prompter interface {
	Input(ctx context.Context, message, help string) (string, error)
}

// SurveyPrompter asks on the controlling terminal via survey.
type SurveyPrompter struct{}

func (SurveyPrompter) Input(ctx context.Context, message, help string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: message,
		Help:    help,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errors.New("cli: prompt interrupted")
		}
		return "", err
	}
	return out, nil
}

// promptMissing fills in each absent required path list interactively.
func promptMissing(ctx context.Context, inv *Invocation, prompter Prompter) error {
	fields := []struct {
		value   *string
		message string
		help    string
	}{
		{&inv.Observations, "Observation file paths", "comma-separated, one per dataset"},
		{&inv.Simulations, "Simulation file paths", "comma-separated, paired with observations"},
		{&inv.Inputs, "Input file path(s)", "a single file broadcasts to every dataset"},
		{&inv.Boundaries, "Boundary-condition file path(s)", "a single file broadcasts to every dataset"},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) != "" {
			continue
		}
		answer, err := prompter.Input(ctx, field.message, field.help)
		if err != nil {
			return err
		}
		*field.value = answer
	}
	return nil
}
