package containerizer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDockerCLI swaps execCommandContext for the duration of one test so
// DockerRuntime's CLI-shelling methods can be exercised without a real
// docker binary.
func fakeDockerCLI(t *testing.T) {
	t.Helper()
	prev := execCommandContext
	execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestDockerCLIFixture", "--", name}, args...)
		cmd := exec.Command(os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "ITEST_DOCKER_FIXTURE=1")
		return cmd
	}
	t.Cleanup(func() { execCommandContext = prev })
}

// TestDockerCLIFixture is not a real test: it is re-executed as the
// subprocess standing in for the docker binary, driven by the docker
// subcommand and arguments it was invoked with.
func TestDockerCLIFixture(t *testing.T) {
	if os.Getenv("ITEST_DOCKER_FIXTURE") != "1" {
		return
	}

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	if len(args) < 2 || args[0] != "docker" {
		fmt.Fprintln(os.Stderr, "fixture expects a docker subcommand")
		os.Exit(2)
	}

	switch args[1] {
	case "image": // docker image inspect <image>
		if len(args) >= 4 && args[3] == "known:latest" {
			os.Exit(0)
		}
		os.Exit(1)
	case "pull":
		fmt.Printf("pulling %s\n", args[2])
		os.Exit(0)
	case "run":
		fmt.Println("cid1234567890abcdef")
		os.Exit(0)
	case "stop", "rm":
		os.Exit(0)
	case "inspect":
		fmt.Println("true")
		os.Exit(0)
	case "port":
		fmt.Println("0.0.0.0:32768")
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unhandled docker subcommand %q\n", args[1])
		os.Exit(1)
	}
}

func TestDockerRuntime_PullImageSkipsWhenImagePresent(t *testing.T) {
	fakeDockerCLI(t)
	rt := &DockerRuntime{}
	require.NoError(t, rt.PullImage(context.Background(), "known:latest"))
}

func TestDockerRuntime_PullImagePullsWhenAbsent(t *testing.T) {
	fakeDockerCLI(t)
	rt := &DockerRuntime{}
	require.NoError(t, rt.PullImage(context.Background(), "unknown:latest"))
}

func TestDockerRuntime_StartContainerReturnsID(t *testing.T) {
	fakeDockerCLI(t)
	rt := &DockerRuntime{}
	id, err := rt.StartContainer(context.Background(), ContainerConfig{Name: "db", Image: "postgres:16"})
	require.NoError(t, err)
	assert.Equal(t, "cid1234567890abcdef", id)
}

func TestDockerRuntime_IsContainerRunningParsesTrue(t *testing.T) {
	fakeDockerCLI(t)
	rt := &DockerRuntime{}
	running, err := rt.IsContainerRunning(context.Background(), "cid1234567890abcdef")
	require.NoError(t, err)
	assert.True(t, running)
}

func TestDockerRuntime_GetContainerPortExtractsPort(t *testing.T) {
	fakeDockerCLI(t)
	rt := &DockerRuntime{}
	port, err := rt.GetContainerPort(context.Background(), "cid1234567890abcdef", "5432/tcp")
	require.NoError(t, err)
	assert.Equal(t, "32768", port)
}

func TestDockerRuntime_StopAndRemoveContainer(t *testing.T) {
	fakeDockerCLI(t)
	rt := &DockerRuntime{}
	require.NoError(t, rt.StopContainer(context.Background(), "cid1234567890abcdef"))
	require.NoError(t, rt.RemoveContainer(context.Background(), "cid1234567890abcdef"))
}

func TestRunArgs_IncludesEnvPortsVolumesAndEntrypoint(t *testing.T) {
	args := runArgs(ContainerConfig{
		Name:       "db",
		Image:      "postgres:16",
		Env:        map[string]string{"POSTGRES_PASSWORD": "secret"},
		Ports:      []string{"5432:5432"},
		Volumes:    []string{"/data:/var/lib/postgresql/data"},
		Entrypoint: []string{"docker-entrypoint.sh", "postgres"},
	})
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "POSTGRES_PASSWORD=secret")
	assert.Contains(t, joined, "5432:5432")
	assert.Contains(t, joined, "/data:/var/lib/postgresql/data")
	assert.Contains(t, joined, "--entrypoint docker-entrypoint.sh")
	assert.Contains(t, joined, "postgres")
}

func TestShortID_TruncatesLongIDs(t *testing.T) {
	assert.Equal(t, "cid123456789", shortID("cid1234567890abcdef"))
	assert.Equal(t, "short", shortID("short"))
}
