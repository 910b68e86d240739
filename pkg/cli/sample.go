package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/burrow/pkg/usecase/sampledata"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func sampleCommand(cfg *config) *cli.Command {
	var (
		modelID  string
		samples  int64
		scenario string
		seed     int64
	)

	return &cli.Command{
		Name:  "sample",
		Usage: "Generate plausible input rows for a saved model",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "model-id",
				Aliases:     []string{"m"},
				Usage:       "Model whose feature statistics drive generation",
				Required:    true,
				Destination: &modelID,
			},
			&cli.IntFlag{
				Name:        "samples",
				Aliases:     []string{"n"},
				Usage:       "Number of rows to generate",
				Value:       10,
				Destination: &samples,
			},
			&cli.StringFlag{
				Name:        "scenario",
				Usage:       "Named scenario instead of random rows (edge_cases, boundary_values, performance_stress)",
				Destination: &scenario,
			},
			&cli.IntFlag{
				Name:        "seed",
				Usage:       "Random seed (0 uses the current time)",
				Destination: &seed,
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

			id := model.ModelID(modelID)
			rec, err := registry.GetMetadata(ctx, id)
			if err != nil {
				return emit(ctx, c, nil, err)
			}
			if rec == nil {
				return emit(ctx, c, nil, goerr.Wrap(model.ErrModelNotFound, "no such model",
					goerr.V("model_id", id)))
			}
			artifact, err := registry.Load(ctx, id)
			if err != nil {
				return emit(ctx, c, nil, err)
			}

			profile := sampledata.ProfileFromArtifact(artifact, rec.ModelType)
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			gen := sampledata.New(seed)

			var out *sampledata.Result
			if scenario != "" {
				out, err = gen.Scenario(profile, scenario)
			} else {
				out, err = gen.Generate(profile, int(samples))
			}
			return emit(ctx, c, out, err)
		},
	}
}
