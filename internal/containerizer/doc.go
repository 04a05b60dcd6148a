// Package containerizer provides a container runtime abstraction used by
// the container SetUp plug-in to bring up and tear down dependencies the
// tests under the harness need (databases, message brokers, auxiliary
// services).
//
// # Core Components
//
// ContainerRuntime: Interface that abstracts container operations
//   - PullImage: Download container images
//   - StartContainer: Create and start a container with configuration
//   - StopContainer: Stop a running container
//   - IsContainerRunning: Poll a container's Running state
//   - GetContainerPort: Resolve a container's published host port
//   - RemoveContainer: Clean up a stopped container
//
// DockerRuntime: Implementation for the Docker container runtime, driving
// the docker CLI via os/exec rather than a client library.
//
// # Container Configuration
//
// Containers are configured with:
//   - Image: Container image to run
//   - Ports: Port mappings between host and container
//   - Env: Environment variables
//   - Volumes: Volume mounts for persistent data
//   - User: User/group to run container as
//   - Entrypoint: Entrypoint override
//
// # Usage Example
//
//	runtime, err := containerizer.NewContainerRuntime("docker")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := runtime.PullImage(ctx, "postgres:16"); err != nil {
//	    log.Fatal(err)
//	}
//
//	id, err := runtime.StartContainer(ctx, containerizer.ContainerConfig{
//	    Name:  "itest-postgres",
//	    Image: "postgres:16",
//	    Env:   map[string]string{"POSTGRES_PASSWORD": "test"},
//	    Ports: []string{"5432:5432"},
//	})
//
// # Thread Safety
//
// All runtime implementations are safe for concurrent use from multiple
// goroutines.
package containerizer
