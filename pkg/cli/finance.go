package cli

import (
	"context"

	"github.com/m-mizutani/burrow/pkg/usecase/finance"
	"github.com/urfave/cli/v3"
)

func loanCommand(cfg *config) *cli.Command {
	var inputPath string

	inputFlag := &cli.StringFlag{
		Name:        "input",
		Aliases:     []string{"i"},
		Usage:       "Path to the request JSON (default: stdin)",
		Destination: &inputPath,
	}

	return &cli.Command{
		Name:  "loan",
		Usage: "Loan calculators",
		Commands: []*cli.Command{
			{
				Name:  "amortize",
				Usage: "Amortization schedule with payoff and risk analysis",
				Flags: []cli.Flag{inputFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					ctx, err := cfg.setup(ctx)
					if err != nil {
						return emit(ctx, c, nil, err)
					}

					var loan finance.Loan
					if err := readInput(c, inputPath, &loan); err != nil {
						return emit(ctx, c, nil, err)
					}

					out, err := finance.Amortize(&loan)
					return emit(ctx, c, out, err)
				},
			},
			{
				Name:  "compare",
				Usage: "Compare loan scenarios and pick the best option",
				Flags: []cli.Flag{inputFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					ctx, err := cfg.setup(ctx)
					if err != nil {
						return emit(ctx, c, nil, err)
					}

					var req struct {
						Loans []*finance.Loan `json:"loans"`
					}
					if err := readInput(c, inputPath, &req); err != nil {
						return emit(ctx, c, nil, err)
					}

					out, err := finance.Compare(req.Loans)
					return emit(ctx, c, out, err)
				},
			},
		},
	}
}

func portfolioCommand(cfg *config) *cli.Command {
	var inputPath string

	return &cli.Command{
		Name:  "portfolio",
		Usage: "Portfolio risk and diversification analysis",
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
				Investments []finance.Investment `json:"investments"`
			}
			if err := readInput(c, inputPath, &req); err != nil {
				return emit(ctx, c, nil, err)
			}

			out, err := finance.AnalyzePortfolio(req.Investments)
			return emit(ctx, c, out, err)
		},
	}
}

func retirementCommand(cfg *config) *cli.Command {
	var inputPath string

	return &cli.Command{
		Name:  "retirement",
		Usage: "Retirement savings projection",
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

			var input finance.RetirementInput
			if err := readInput(c, inputPath, &input); err != nil {
				return emit(ctx, c, nil, err)
			}

			out, err := finance.PlanRetirement(&input)
			return emit(ctx, c, out, err)
		},
	}
}
