package containerizer

import "context"

// ContainerRuntime is the set of container operations the container
// plug-in needs from an external container-management collaborator
// (Docker, or any CLI with the same shape). It is intentionally smaller
// than a full client SDK: every method here is exercised by
// internal/plugins/container.
type ContainerRuntime interface {
	// PullImage pulls a container image if not already present.
	PullImage(ctx context.Context, image string) error

	// StartContainer starts a container with the given configuration and
	// returns its ID.
	StartContainer(ctx context.Context, config ContainerConfig) (string, error)

	// StopContainer stops a running container.
	StopContainer(ctx context.Context, containerID string) error

	// IsContainerRunning reports whether containerID is currently
	// running, used by the plug-in's default readiness check.
	IsContainerRunning(ctx context.Context, containerID string) (bool, error)

	// GetContainerPort returns the host port mapped to containerPort, so
	// a task can publish it as a parameter for its dependents.
	GetContainerPort(ctx context.Context, containerID string, containerPort string) (string, error)

	// RemoveContainer removes a container.
	RemoveContainer(ctx context.Context, containerID string) error
}

// ContainerConfig holds configuration for starting a container.
type ContainerConfig struct {
	Name        string            // Container name
	Image       string            // Container image
	Env         map[string]string // Environment variables
	Ports       []string          // Port mappings (host:container)
	Volumes     []string          // Volume mounts (host:container)
	Entrypoint  []string          // Entrypoint override
	User        string            // User to run as
	HealthCheck []string          // Health check command
}
