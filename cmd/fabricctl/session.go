package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/fabric"
	"github.com/netfabric/fabricctl/internal/logging"
	"github.com/netfabric/fabricctl/internal/ui"
)

// terminal is the one prompter reading stdin, shared so line mode never
// loses buffered input between prompts
var terminal = sync.OnceValue(func() *ui.Prompter {
	return ui.NewPrompter(os.Stdin, os.Stderr)
})

// passwordPrompter asks for the password when FABRIC_PASSWORD is not set.
// Tests replace it.
var passwordPrompter = func() (string, error) {
	return terminal().Password(fmt.Sprintf("Password for %s", cfg.Controller.Username))
}

// commitPrompter returns the prompter that approves commits, nil when stdin
// is not a terminal. Tests replace it.
var commitPrompter = func() *ui.Prompter {
	if p := terminal(); p.Interactive() {
		return p
	}
	return nil
}

// approveCommit asks before a run writes to the controller. --yes and runs
// without a terminal approve without asking.
func approveCommit(title string, items []string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	p := commitPrompter()
	if p == nil {
		return true, nil
	}
	return p.Confirm(title, items, "Commit these changes?")
}

// failureHints adds a retry note to the troubleshooting tips of transient
// failures
func failureHints(err error) []string {
	hints := controller.GetTroubleshootingHint(err)
	if controller.IsRetryable(err) {
		hints = append(hints, "This failure is usually transient; run the command again once the controller responds")
	}
	return hints
}

// connect validates the configuration, logs in and returns a session whose
// events go to observer
func connect(ctx context.Context, observer fabric.Observer) (*fabric.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Password == "" {
		password, err := passwordPrompter()
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		cfg.Password = password
	}

	client := controller.NewClient(cfg.Controller.Host, cfg.ClientOptions()...)
	logging.Info("Connecting to controller",
		zap.String("url", client.BaseURL),
		zap.String("username", cfg.Controller.Username),
	)
	if err := client.Login(ctx, cfg.Controller.Username, cfg.Password); err != nil {
		return nil, err
	}

	return fabric.NewSession(client, cfg.TaskOptions(), observer), nil
}

// controllerDetail is the header line naming the controller
func controllerDetail() ui.Detail {
	return ui.D("Controller", controller.NormalizeBaseURL(cfg.Controller.Host))
}
