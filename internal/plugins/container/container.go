// Package container provides a SetUp plug-in that brings up a container
// via internal/containerizer and tears it down by stopping and removing
// it. By default, readiness means the container's own Running state
// (polled via ContainerRuntime.IsContainerRunning); callers needing a
// stronger check (e.g. a port actually accepting connections) can supply
// their own WaitFor.
package container

import (
	"context"
	"fmt"
	"sync"
	"time"

	"itest/internal/containerizer"
	"itest/internal/itestcontext"
	"itest/internal/registry"
	"itest/pkg/logging"
)

const subsystem = "ContainerSetUp"

// newRuntime is overridden in tests to avoid requiring a real docker
// binary, the same seam containerizer.DockerRuntime itself uses for
// execCommandContext.
var newRuntime = containerizer.NewContainerRuntime

// Request describes one container to bring up.
type Request struct {
	Runtime containerizer.RuntimeType
	Config  containerizer.ContainerConfig
	// WaitFor, if non-nil, replaces the default readiness check (polling
	// ContainerRuntime.IsContainerRunning) with a caller-supplied one —
	// e.g. dialing a published port.
	WaitFor func(ctx context.Context, rt containerizer.ContainerRuntime, containerID string) (bool, error)
	// WaitTimeout bounds how long readiness is polled. Defaults to 30s.
	WaitTimeout time.Duration
	// WaitInterval is the delay between readiness polls. Defaults to 500ms.
	WaitInterval time.Duration
	// PublishPort, if set, is resolved via GetContainerPort once the
	// container is ready and written to the parameter store as "port",
	// so dependent tasks can read "{name}.port".
	PublishPort string
}

// SetUp pulls Request.Config.Image, starts the container, waits for it to
// become ready, and publishes its mapped port if requested. The returned
// handle stops and removes the container on Teardown.
func SetUp(req Request) registry.SetUpFunc {
	return func(c *itestcontext.Context) (registry.TearDownHandle, error) {
		rt, err := newRuntime(string(req.Runtime))
		if err != nil {
			return nil, fmt.Errorf("creating container runtime: %w", err)
		}

		ctx := context.Background()
		if err := rt.PullImage(ctx, req.Config.Image); err != nil {
			return nil, fmt.Errorf("pulling image %s: %w", req.Config.Image, err)
		}

		id, err := rt.StartContainer(ctx, req.Config)
		if err != nil {
			return nil, fmt.Errorf("starting container %s: %w", req.Config.Name, err)
		}
		logging.Audit(logging.AuditEvent{Action: "container_start", Outcome: "success", Target: req.Config.Name})

		if err := waitReady(ctx, rt, id, req); err != nil {
			_ = rt.RemoveContainer(ctx, id)
			return nil, fmt.Errorf("waiting for container %s to become ready: %w", req.Config.Name, err)
		}

		if req.PublishPort != "" {
			port, err := rt.GetContainerPort(ctx, id, req.PublishPort)
			if err != nil {
				_ = rt.RemoveContainer(ctx, id)
				return nil, fmt.Errorf("resolving published port %s for %s: %w", req.PublishPort, req.Config.Name, err)
			}
			c.SetParam("port", port)
		}

		return &handle{rt: rt, name: req.Config.Name, id: id}, nil
	}
}

// waitReady polls req.WaitFor (or, by default, rt.IsContainerRunning)
// until it reports ready, the timeout elapses, or it errors.
func waitReady(ctx context.Context, rt containerizer.ContainerRuntime, id string, req Request) error {
	waitFor := req.WaitFor
	if waitFor == nil {
		waitFor = func(ctx context.Context, rt containerizer.ContainerRuntime, id string) (bool, error) {
			return rt.IsContainerRunning(ctx, id)
		}
	}

	timeout := req.WaitTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	interval := req.WaitInterval
	if interval == 0 {
		interval = 500 * time.Millisecond
	}

	deadline := time.Now().Add(timeout)
	for {
		ready, err := waitFor(ctx, rt, id)
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out after %s", timeout)
		}
		time.Sleep(interval)
	}
}

type handle struct {
	once sync.Once
	rt   containerizer.ContainerRuntime
	name string
	id   string
}

// Teardown stops and removes the container. It is safe to call more than
// once; only the first call does any work.
func (h *handle) Teardown(ctx context.Context) error {
	var err error
	h.once.Do(func() {
		stopErr := h.rt.StopContainer(ctx, h.id)
		removeErr := h.rt.RemoveContainer(ctx, h.id)
		outcome := "success"
		if stopErr != nil || removeErr != nil {
			outcome = "failure"
		}
		logging.Audit(logging.AuditEvent{Action: "container_stop", Outcome: outcome, Target: h.name})

		if stopErr != nil {
			err = fmt.Errorf("stopping container %s: %w", h.name, stopErr)
			return
		}
		if removeErr != nil {
			err = fmt.Errorf("removing container %s: %w", h.name, removeErr)
		}
	})
	return err
}
