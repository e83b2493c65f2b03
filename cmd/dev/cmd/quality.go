package cmd

import (
	"fmt"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

func TestCmd() *cobra.Command {
	return runnerCmd("test", "Run unit tests (driver, transports, sampling, cli)", "tests", test.Test)
}

func LintCmd() *cobra.Command {
	return runnerCmd("lint", "Run linting", "linting", test.Lint)
}

// IntegrationTestCmd runs the suites that need a sensor attached to the host.
func IntegrationTestCmd() *cobra.Command {
	return runnerCmd("integration-test", "Run integration tests against attached hardware", "integration testing", test.Integ)
}

func runnerCmd(use, short, what string, run func() error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(); err != nil {
				return fmt.Errorf("failed to run %s: %w", what, err)
			}
			return nil
		},
	}
}
