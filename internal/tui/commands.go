package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/ledctl/internal/controller"
	"github.com/muurk/ledctl/internal/discovery"
	"github.com/muurk/ledctl/internal/ledconfig"
)

// Messages for async operations
type stateChangedMsg struct{}

type operationDoneMsg struct {
	op  controller.Operation
	err error
}

type watchEndedMsg struct {
	err error
}

type scanStartMsg struct{}

type scanCompleteMsg struct {
	devices []*discovery.Device
	err     error
}

// Watcher streams configurations pushed by the controller
type Watcher interface {
	WatchConfig(ctx context.Context, fn func(ledconfig.DeviceConfig)) error
}

// listenForChanges waits for the next controller notification. It is
// re-issued after every stateChangedMsg.
func listenForChanges(ctx context.Context, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-changes:
			return stateChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func initializeCmd(ctx context.Context, ctrl *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		return operationDoneMsg{op: controller.OpInitialize, err: ctrl.Initialize(ctx)}
	}
}

func submitCmd(ctx context.Context, ctrl *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		return operationDoneMsg{op: controller.OpSubmit, err: ctrl.Submit(ctx)}
	}
}

func retryCmd(ctx context.Context, ctrl *controller.Controller, op controller.Operation) tea.Cmd {
	return func() tea.Msg {
		return operationDoneMsg{op: op, err: ctrl.Retry(ctx)}
	}
}

// watchCmd applies pushed configurations until ctx is canceled or the
// channel closes.
func watchCmd(ctx context.Context, ctrl *controller.Controller, w Watcher) tea.Cmd {
	return func() tea.Msg {
		err := w.WatchConfig(ctx, func(config ledconfig.DeviceConfig) {
			ctrl.ApplyRemote(config)
		})
		return watchEndedMsg{err: err}
	}
}

func scanDevicesCmd(timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		devices, err := discovery.ScanForDevices(context.Background(), timeout)
		return scanCompleteMsg{devices: devices, err: err}
	}
}
