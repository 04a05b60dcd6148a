package containerizer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"itest/pkg/logging"
)

const dockerSubsystem = "Docker"

// DockerRuntime implements ContainerRuntime by shelling out to the docker
// CLI. It does not talk to the daemon's API directly: the CLI is the
// collaborator this harness depends on, matching how a test author would
// already have docker installed on the machine running the suite.
type DockerRuntime struct{}

// execCommandContext is overridden in tests to avoid invoking a real
// docker binary.
var execCommandContext = exec.CommandContext

// NewDockerRuntime verifies docker is on PATH and the daemon is reachable
// before returning a usable runtime.
func NewDockerRuntime() (*DockerRuntime, error) {
	if _, err := exec.LookPath("docker"); err != nil {
		return nil, fmt.Errorf("docker command not found in PATH: %w", err)
	}
	if err := execCommandContext(context.Background(), "docker", "info").Run(); err != nil {
		return nil, fmt.Errorf("docker daemon not accessible: %w", err)
	}
	return &DockerRuntime{}, nil
}

// PullImage pulls image unless it is already present locally.
func (d *DockerRuntime) PullImage(ctx context.Context, image string) error {
	if err := execCommandContext(ctx, "docker", "image", "inspect", image).Run(); err == nil {
		logging.Debug(dockerSubsystem, "image %s already present", image)
		return nil
	}

	logging.Info(dockerSubsystem, "pulling image %s", image)
	cmd := execCommandContext(ctx, "docker", "pull", image)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pulling image %s: %w", image, err)
	}
	return nil
}

// StartContainer runs config detached and returns the container ID.
func (d *DockerRuntime) StartContainer(ctx context.Context, config ContainerConfig) (string, error) {
	args := runArgs(config)
	logging.Debug(dockerSubsystem, "docker %s", strings.Join(args, " "))

	output, err := execCommandContext(ctx, "docker", args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("starting container %s: %w\noutput: %s", config.Name, err, output)
	}

	id := strings.TrimSpace(string(output))
	logging.Info(dockerSubsystem, "started container %s (%s)", config.Name, shortID(id))
	return id, nil
}

// runArgs builds the "docker run" argument list for config.
func runArgs(config ContainerConfig) []string {
	args := []string{"run", "-d", "--name", config.Name}

	for k, v := range config.Env {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, v))
	}
	for _, port := range config.Ports {
		args = append(args, "-p", port)
	}
	for _, vol := range config.Volumes {
		args = append(args, "-v", expandPath(vol))
	}
	if config.User != "" {
		args = append(args, "--user", config.User)
	}
	if len(config.Entrypoint) > 0 {
		args = append(args, "--entrypoint", config.Entrypoint[0])
	}

	args = append(args, config.Image)
	if len(config.Entrypoint) > 1 {
		args = append(args, config.Entrypoint[1:]...)
	}
	return args
}

// StopContainer stops a running container.
func (d *DockerRuntime) StopContainer(ctx context.Context, containerID string) error {
	logging.Info(dockerSubsystem, "stopping container %s", shortID(containerID))
	if err := execCommandContext(ctx, "docker", "stop", containerID).Run(); err != nil {
		return fmt.Errorf("stopping container %s: %w", shortID(containerID), err)
	}
	return nil
}

// IsContainerRunning reports whether containerID's state is Running.
func (d *DockerRuntime) IsContainerRunning(ctx context.Context, containerID string) (bool, error) {
	output, err := execCommandContext(ctx, "docker", "inspect", "-f", "{{.State.Running}}", containerID).Output()
	if err != nil {
		return false, fmt.Errorf("inspecting container %s: %w", shortID(containerID), err)
	}
	return strings.TrimSpace(string(output)) == "true", nil
}

// GetContainerPort returns the host port mapped to containerPort, e.g.
// "docker port" reporting "0.0.0.0:32768" yields "32768".
func (d *DockerRuntime) GetContainerPort(ctx context.Context, containerID string, containerPort string) (string, error) {
	output, err := execCommandContext(ctx, "docker", "port", containerID, containerPort).Output()
	if err != nil {
		return "", fmt.Errorf("getting port mapping for %s:%s: %w", shortID(containerID), containerPort, err)
	}

	mapping := strings.TrimSpace(string(output))
	if mapping == "" {
		return "", fmt.Errorf("no port mapping found for %s:%s", shortID(containerID), containerPort)
	}
	parts := strings.Split(mapping, ":")
	if len(parts) < 2 {
		return "", fmt.Errorf("unexpected port mapping output: %s", mapping)
	}
	return parts[len(parts)-1], nil
}

// RemoveContainer force-removes a container.
func (d *DockerRuntime) RemoveContainer(ctx context.Context, containerID string) error {
	logging.Debug(dockerSubsystem, "removing container %s", shortID(containerID))
	if err := execCommandContext(ctx, "docker", "rm", "-f", containerID).Run(); err != nil {
		return fmt.Errorf("removing container %s: %w", shortID(containerID), err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// expandPath expands a leading "~/" to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
