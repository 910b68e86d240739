package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

// New builds the root command. The host application invokes one
// subcommand per request and reads a single JSON envelope from stdout.
func New() *cli.Command {
	cfg := &config{}

	return &cli.Command{
		Name:  "burrow",
		Usage: "Model registry and prediction toolkit",
		Flags: globalFlags(cfg),
		Commands: []*cli.Command{
			trainCommand(cfg),
			predictCommand(cfg),
			modelsCommand(cfg),
			loanCommand(cfg),
			portfolioCommand(cfg),
			retirementCommand(cfg),
			analyzeCommand(cfg),
			regressCommand(cfg),
			classifyCommand(cfg),
			forecastCommand(cfg),
			sampleCommand(cfg),
		},
	}
}

func Run(ctx context.Context, argv []string) *Error {
	if err := New().Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
