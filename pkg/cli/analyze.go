package cli

import (
	"context"

	"github.com/m-mizutani/burrow/pkg/usecase/analyzer"
	"github.com/urfave/cli/v3"
)

func analyzeCommand(cfg *config) *cli.Command {
	var inputPath string

	return &cli.Command{
		Name:  "analyze",
		Usage: "Column statistics, correlations and quality report for a dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "Path to the request JSON (default: stdin)",
				Destination: &inputPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return emit(ctx, c, nil, err)
			}

			var req struct {
				Data []map[string]any `json:"data"`
			}
			if err := readInput(c, inputPath, &req); err != nil {
				return emit(ctx, c, nil, err)
			}

			out, err := analyzer.Analyze(req.Data)
			return emit(ctx, c, out, err)
		},
	}
}

func regressCommand(cfg *config) *cli.Command {
	var inputPath string

	return &cli.Command{
		Name:  "regress",
		Usage: "Simple linear regression over two variables",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "Path to the request JSON (default: stdin)",
				Destination: &inputPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return emit(ctx, c, nil, err)
			}

			var req struct {
				X []float64 `json:"x_values"`
				Y []float64 `json:"y_values"`
			}
			if err := readInput(c, inputPath, &req); err != nil {
				return emit(ctx, c, nil, err)
			}

			out, err := analyzer.Regress(req.X, req.Y)
			return emit(ctx, c, out, err)
		},
	}
}

func classifyCommand(cfg *config) *cli.Command {
	var inputPath string

	return &cli.Command{
		Name:  "classify",
		Usage: "Assign points to the nearest cluster center",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "Path to the request JSON (default: stdin)",
				Destination: &inputPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return emit(ctx, c, nil, err)
			}

			var req struct {
				Points  [][]float64 `json:"data_points"`
				Centers [][]float64 `json:"cluster_centers,omitempty"`
			}
			if err := readInput(c, inputPath, &req); err != nil {
				return emit(ctx, c, nil, err)
			}

			out, err := analyzer.Classify(req.Points, req.Centers)
			return emit(ctx, c, out, err)
		},
	}
}

func forecastCommand(cfg *config) *cli.Command {
	var (
		inputPath string
		periods   int64
	)

	return &cli.Command{
		Name:  "forecast",
		Usage: "Moving average forecast over a time series",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "Path to the request JSON (default: stdin)",
				Destination: &inputPath,
			},
			&cli.IntFlag{
				Name:        "periods",
				Aliases:     []string{"p"},
				Usage:       "Number of future periods to project",
				Value:       5,
				Destination: &periods,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return emit(ctx, c, nil, err)
			}

			var req struct {
				Values  []float64 `json:"time_series"`
				Periods int       `json:"forecast_periods,omitempty"`
			}
			if err := readInput(c, inputPath, &req); err != nil {
				return emit(ctx, c, nil, err)
			}
			if req.Periods == 0 {
				req.Periods = int(periods)
			}

			out, err := analyzer.Forecast(req.Values, req.Periods)
			return emit(ctx, c, out, err)
		},
	}
}
