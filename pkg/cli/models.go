package cli

import (
	"context"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/burrow/pkg/usecase/predictor"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func modelsCommand(cfg *config) *cli.Command {
	var modelType string

	return &cli.Command{
		Name:  "models",
		Usage: "Manage saved models",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved models, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "type",
						Aliases:     []string{"t"},
						Usage:       "Filter by model type (case insensitive)",
						Destination: &modelType,
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

					out, err := predictor.New(registry).List(ctx, modelType)
					return emit(ctx, c, out, err)
				},
			},
			{
				Name:      "show",
				Usage:     "Show metadata for one model",
				ArgsUsage: "<model-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					ctx, err := cfg.setup(ctx)
					if err != nil {
						return emit(ctx, c, nil, err)
					}

					id, err := requireModelID(c)
					if err != nil {
						return emit(ctx, c, nil, err)
					}

					registry, closer, err := cfg.newRegistry(ctx)
					if err != nil {
						return emit(ctx, c, nil, err)
					}
					defer closer()

					out, err := predictor.New(registry).Show(ctx, id)
					return emit(ctx, c, out, err)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a model and its artifact",
				ArgsUsage: "<model-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					ctx, err := cfg.setup(ctx)
					if err != nil {
						return emit(ctx, c, nil, err)
					}

					id, err := requireModelID(c)
					if err != nil {
						return emit(ctx, c, nil, err)
					}

					registry, closer, err := cfg.newRegistry(ctx)
					if err != nil {
						return emit(ctx, c, nil, err)
					}
					defer closer()

					out, err := predictor.New(registry).Delete(ctx, id)
					return emit(ctx, c, out, err)
				},
			},
		},
	}
}

func requireModelID(c *cli.Command) (model.ModelID, error) {
	id := c.Args().First()
	if id == "" {
		return "", goerr.Wrap(model.ErrValidation, "model ID argument is required")
	}
	return model.ModelID(id), nil
}
