package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/burrow/pkg/usecase/predictor"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func predictCommand(cfg *config) *cli.Command {
	var (
		inputPath   string
		modelID     string
		interactive bool
	)

	return &cli.Command{
		Name:  "predict",
		Usage: "Apply a saved model to new feature rows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "Path to the prediction request JSON (default: stdin)",
				Destination: &inputPath,
			},
			&cli.StringFlag{
				Name:        "model-id",
				Aliases:     []string{"m"},
				Usage:       "Model ID (interactive mode)",
				Destination: &modelID,
			},
			&cli.BoolFlag{
				Name:        "interactive",
				Usage:       "Read feature rows from a prompt, one per line",
				Destination: &interactive,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return emit(ctx, c, nil, err)
			}

			registry, closer, err := cfg.newRegistry(ctx)
			if err != nil {
				return emit(ctx, c, nil, err)
			}
			defer closer()

			uc := predictor.New(registry)

			if interactive {
				return runInteractivePredict(ctx, c, uc, modelID)
			}

			var input predictor.PredictInput
			if err := readInput(c, inputPath, &input); err != nil {
				return emit(ctx, c, nil, err)
			}
			if modelID != "" {
				input.ModelID = model.ModelID(modelID)
			}

			out, err := uc.Predict(ctx, &input)
			return emit(ctx, c, out, err)
		},
	}
}

// runInteractivePredict prompts for one comma separated feature row per
// line and emits one envelope per row. An empty line or EOF ends the
// session.
func runInteractivePredict(ctx context.Context, c *cli.Command, uc *predictor.UseCase, modelID string) error {
	if modelID == "" {
		return emit(ctx, c, nil, goerr.Wrap(model.ErrValidation, "model-id is required in interactive mode"))
	}

	rl, err := readline.New("predict> ")
	if err != nil {
		return goerr.Wrap(err, "failed to initialize prompt")
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return nil
		}
		if err != nil {
			return goerr.Wrap(err, "failed to read prompt line")
		}

		line = strings.TrimSpace(line)
		if line == "" || line == "exit" || line == "quit" {
			return nil
		}

		row, parseErr := parseRow(line)
		if parseErr != nil {
			if err := emit(ctx, c, nil, parseErr); err != nil {
				return err
			}
			continue
		}

		out, predictErr := uc.Predict(ctx, &predictor.PredictInput{
			ModelID: model.ModelID(modelID),
			Rows:    [][]float64{row},
		})
		if err := emit(ctx, c, out, predictErr); err != nil {
			return err
		}
	}
}

func parseRow(line string) ([]float64, error) {
	parts := strings.Split(line, ",")
	row := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, goerr.Wrap(model.ErrValidation, "feature values must be numeric",
				goerr.V("value", strings.TrimSpace(part)))
		}
		row = append(row, v)
	}
	return row, nil
}
