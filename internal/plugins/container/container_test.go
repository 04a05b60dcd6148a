package container

import (
	"context"
	"errors"
	"testing"

	"itest/internal/containerizer"
	"itest/internal/itestcontext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRuntime struct {
	stopErr   error
	removeErr error
	running   bool
	port      string
	portErr   error
	stopped   []string
	removed   []string
}

func (s *stubRuntime) PullImage(ctx context.Context, image string) error { return nil }

func (s *stubRuntime) StartContainer(ctx context.Context, cfg containerizer.ContainerConfig) (string, error) {
	return "cid-" + cfg.Name, nil
}

func (s *stubRuntime) StopContainer(ctx context.Context, id string) error {
	s.stopped = append(s.stopped, id)
	return s.stopErr
}

func (s *stubRuntime) IsContainerRunning(ctx context.Context, id string) (bool, error) {
	return s.running, nil
}

func (s *stubRuntime) GetContainerPort(ctx context.Context, id, containerPort string) (string, error) {
	return s.port, s.portErr
}

func (s *stubRuntime) RemoveContainer(ctx context.Context, id string) error {
	s.removed = append(s.removed, id)
	return s.removeErr
}

func testContext(t *testing.T) *itestcontext.Context {
	t.Helper()
	g, err := itestcontext.NewGlobalContext()
	require.NoError(t, err)
	return g.CreateComponentContext("db")
}

func TestHandle_TeardownStopsAndRemovesOnce(t *testing.T) {
	rt := &stubRuntime{}
	h := &handle{rt: rt, name: "db", id: "cid-db"}

	require.NoError(t, h.Teardown(context.Background()))
	require.NoError(t, h.Teardown(context.Background()))

	assert.Equal(t, []string{"cid-db"}, rt.stopped)
	assert.Equal(t, []string{"cid-db"}, rt.removed)
}

func TestHandle_TeardownReportsStopFailure(t *testing.T) {
	rt := &stubRuntime{stopErr: errors.New("boom")}
	h := &handle{rt: rt, name: "db", id: "cid-db"}

	err := h.Teardown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestWaitReady_ReturnsErrorOnTimeout(t *testing.T) {
	rt := &stubRuntime{}
	err := waitReady(context.Background(), rt, "cid", Request{
		WaitFor:      func(ctx context.Context, rt containerizer.ContainerRuntime, id string) (bool, error) { return false, nil },
		WaitTimeout:  1,
		WaitInterval: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestWaitReady_DefaultsToIsContainerRunning(t *testing.T) {
	rt := &stubRuntime{running: true}
	err := waitReady(context.Background(), rt, "cid", Request{})
	require.NoError(t, err)
}

func TestWaitReady_DefaultTimesOutWhenNeverRunning(t *testing.T) {
	rt := &stubRuntime{running: false}
	err := waitReady(context.Background(), rt, "cid", Request{WaitTimeout: 1, WaitInterval: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func withStubRuntime(t *testing.T, rt *stubRuntime) {
	t.Helper()
	prev := newRuntime
	newRuntime = func(runtimeType string) (containerizer.ContainerRuntime, error) {
		return rt, nil
	}
	t.Cleanup(func() { newRuntime = prev })
}

func TestSetUp_PublishesMappedPortToParamStore(t *testing.T) {
	withStubRuntime(t, &stubRuntime{running: true, port: "32768"})
	c := testContext(t)

	fn := SetUp(Request{Config: containerizer.ContainerConfig{Name: "db"}, PublishPort: "5432/tcp"})
	th, err := fn(c)
	require.NoError(t, err)
	require.NotNil(t, th)

	got, err := c.GetParam("db.port")
	require.NoError(t, err)
	assert.Equal(t, "32768", got)
}

func TestSetUp_FailsWhenContainerNeverBecomesReady(t *testing.T) {
	rt := &stubRuntime{running: false}
	withStubRuntime(t, rt)
	c := testContext(t)

	fn := SetUp(Request{
		Config:       containerizer.ContainerConfig{Name: "db"},
		WaitTimeout:  1,
		WaitInterval: 1,
	})
	_, err := fn(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Equal(t, []string{"cid-db"}, rt.removed)
}
