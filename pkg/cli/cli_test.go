package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/m-mizutani/burrow/pkg/cli"
	"github.com/m-mizutani/gt"
)

func runCommand(t *testing.T, argv ...string) map[string]any {
	cmd := cli.New()
	var buf bytes.Buffer
	cmd.Writer = &buf

	args := append([]string{"burrow", "--log-level", "error"}, argv...)
	gt.NoError(t, cmd.Run(context.Background(), args))

	var resp map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	return resp
}

func writeRequest(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "request.json")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoanAmortizeEnvelope(t *testing.T) {
	path := writeRequest(t, `{"principal": 200000, "rate": 4.0, "years": 15}`)

	resp := runCommand(t, "loan", "amortize", "--input", path)

	gt.Equal(t, resp["success"], true)
	gt.V(t, resp["monthly_payment"]).NotNil()
	gt.V(t, resp["risk_assessment"]).NotNil()
}

func TestLoanAmortizeValidationEnvelope(t *testing.T) {
	path := writeRequest(t, `{"principal": -5, "rate": 4.0, "years": 15}`)

	resp := runCommand(t, "loan", "amortize", "--input", path)

	// Failures are data for the host application, not exit codes
	gt.Equal(t, resp["success"], false)
	gt.Equal(t, resp["error_type"], "validation")
	gt.NotEqual(t, resp["error"], "")
}

func TestMalformedRequestEnvelope(t *testing.T) {
	path := writeRequest(t, `{not json`)

	resp := runCommand(t, "loan", "amortize", "--input", path)

	gt.Equal(t, resp["success"], false)
	gt.Equal(t, resp["error_type"], "validation")
}

func TestRetirementEnvelope(t *testing.T) {
	path := writeRequest(t, `{
		"current_age": 30,
		"retirement_age": 65,
		"current_savings": 50000,
		"monthly_contribution": 1000,
		"expected_return": 7
	}`)

	resp := runCommand(t, "retirement", "--input", path)

	gt.Equal(t, resp["success"], true)
	gt.Equal[any](t, resp["years_to_retirement"], float64(35))
}

func TestRegressEnvelope(t *testing.T) {
	path := writeRequest(t, `{"x_values": [1, 2, 3, 4], "y_values": [2, 4, 6, 8]}`)

	resp := runCommand(t, "regress", "--input", path)

	gt.Equal(t, resp["success"], true)
	gt.Equal(t, resp["slope"], 2.0)
	gt.Equal(t, resp["fit"], "excellent")
}

func TestModelsListEnvelope(t *testing.T) {
	dir := t.TempDir()

	resp := runCommand(t, "--storage-dir", dir, "models", "list")

	gt.Equal(t, resp["success"], true)
	gt.Equal[any](t, resp["count"], float64(0))
}

func TestModelsDeleteUnknownEnvelope(t *testing.T) {
	dir := t.TempDir()

	resp := runCommand(t, "--storage-dir", dir, "models", "delete", "no-such-id")

	gt.Equal(t, resp["success"], true)
	gt.Equal(t, resp["deleted"], false)
}
