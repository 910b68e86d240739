package cli

import (
	"context"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/burrow/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// writerOf returns the destination for response envelopes. The root
// command writer can be swapped in tests; stdout is the default so that
// host applications can parse command output.
func writerOf(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// emit writes the response envelope for a command result. Failures are
// part of the output contract: they become a success=false envelope on
// the same stream, and the command itself exits zero.
func emit(ctx context.Context, c *cli.Command, payload any, err error) error {
	var resp model.Response
	if err != nil {
		logging.From(ctx).Error("command failed", "err", err)
		resp = model.NewErrorResponse(err)
	} else {
		resp, err = model.NewResponse(payload)
		if err != nil {
			resp = model.NewErrorResponse(err)
		}
	}

	enc := json.NewEncoder(writerOf(c))
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(resp); encErr != nil {
		return goerr.Wrap(encErr, "failed to encode response")
	}
	return nil
}

// readInput loads a JSON request body from the --input file, or stdin
// when path is "-" or empty.
func readInput(c *cli.Command, path string, out any) error {
	var raw []byte
	var err error

	switch path {
	case "", "-":
		src := c.Root().Reader
		if src == nil {
			src = os.Stdin
		}
		raw, err = io.ReadAll(src)
		if err != nil {
			return goerr.Wrap(err, "failed to read request from stdin")
		}
	default:
		raw, err = os.ReadFile(path)
		if err != nil {
			return goerr.Wrap(model.ErrValidation, "failed to read input file",
				goerr.V("path", path), goerr.V("cause", err.Error()))
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return goerr.Wrap(model.ErrValidation, "failed to parse request JSON",
			goerr.V("cause", err.Error()))
	}
	return nil
}
