package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"gitlab.com/shar-workflow/iflowscan/cli/commands"
	"gitlab.com/shar-workflow/iflowscan/cli/output"
)

// Result contains the streams to output CLI execution.
type Result struct {
	Out *strings.Builder
	Err *strings.Builder
}

// ExecTst executes a CLI command against the NATS server at natsURL and decodes its json output.
// The line starts with the program name followed by the sub command.
func ExecTst[rt any](t *testing.T, natsURL string, line string) (rt, error) { // nolint
	t.Helper()
	ty := new(rt)
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return *ty, fmt.Errorf("command line %q has no sub command", line)
	}
	line2 := parts[0] + " " + parts[1] + " --json --server " + natsURL
	if len(parts) == 3 {
		line2 += " " + parts[2]
	}
	r, err := Exec(line2)
	if err != nil {
		return *ty, fmt.Errorf("execute test function: %w", err)
	}
	if err := json.Unmarshal([]byte(r.Out.String()), ty); err != nil {
		return *ty, fmt.Errorf("unmarshal json: %w", err)
	}
	return *ty, nil
}

// Exec executes a CLI command.
func Exec(line string) (*Result, error) {
	ctx := context.Background()
	c := commands.RootCmd
	args := strings.Split(line, " ")
	res := &Result{
		Out: new(strings.Builder),
		Err: new(strings.Builder),
	}
	output.Stream = res.Out
	c.SetArgs(args[1:])
	c.SetContext(ctx)
	c.SetErr(res.Err)
	c.SetOut(res.Out)
	if err := c.Execute(); err != nil {
		return nil, fmt.Errorf("CLI execution failed: %w", err)
	}
	return res, nil
}
