package cli

import (
	"context"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/burrow/pkg/usecase/predictor"
	"github.com/urfave/cli/v3"
)

func trainCommand(cfg *config) *cli.Command {
	var inputPath string

	return &cli.Command{
		Name:  "train",
		Usage: "Train a linear regression model and save it to the registry",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "Path to the training request JSON (default: stdin)",
				Destination: &inputPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return emit(ctx, c, nil, err)
			}

			var input predictor.TrainInput
			if err := readInput(c, inputPath, &input); err != nil {
				return emit(ctx, c, nil, err)
			}

			registry, closer, err := cfg.newRegistry(ctx)
			if err != nil {
				return emit(ctx, c, nil, err)
			}
			defer closer()

			// Progress goes to stderr; stdout stays clean for the envelope.
			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
				spinner.WithWriter(os.Stderr))
			sp.Suffix = " training model..."
			sp.Start()

			out, err := predictor.New(registry).Train(ctx, &input)
			sp.Stop()

			return emit(ctx, c, out, err)
		},
	}
}
