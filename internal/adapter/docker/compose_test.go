package docker

import (
	"context"
	"errors"
	"testing"

	"zeckit-faucet/internal/core/ports"
	"zeckit-faucet/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestCompose(t *testing.T, file string) (*Compose, *mocks.MockCommandRunner) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	return NewCompose(file, runner, zerolog.Nop()), runner
}

func TestStartServices_WithProfile(t *testing.T) {
	c, runner := newTestCompose(t, "")
	runner.EXPECT().Run(gomock.Any(), "docker", "compose", "--profile", "zaino", "up", "-d").
		Return(ports.CommandResult{}, nil)

	require.NoError(t, c.StartServices(context.Background(), "zaino", false))
}

func TestStartServices_FreshTearsDownFirst(t *testing.T) {
	c, runner := newTestCompose(t, "docker-compose.yml")
	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), "docker", "compose", "-f", "docker-compose.yml", "down", "-v").
			Return(ports.CommandResult{}, nil),
		runner.EXPECT().Run(gomock.Any(), "docker", "compose", "-f", "docker-compose.yml", "up", "-d").
			Return(ports.CommandResult{}, nil),
	)

	require.NoError(t, c.StartServices(context.Background(), "none", true))
}

func TestStartServices_Failure(t *testing.T) {
	c, runner := newTestCompose(t, "")
	runner.EXPECT().Run(gomock.Any(), "docker", gomock.Any()).
		Return(ports.CommandResult{Stderr: "no such service"}, errors.New("exit status 1"))

	err := c.StartServices(context.Background(), "lwd", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such service")
}

func TestStopServices(t *testing.T) {
	c, runner := newTestCompose(t, "")
	runner.EXPECT().Run(gomock.Any(), "docker", "compose", "down").Return(ports.CommandResult{}, nil)
	runner.EXPECT().Run(gomock.Any(), "docker", "compose", "down", "-v").Return(ports.CommandResult{}, nil)

	require.NoError(t, c.StopServices(context.Background(), false))
	require.NoError(t, c.StopServices(context.Background(), true))
}

func TestListServiceStatus(t *testing.T) {
	c, runner := newTestCompose(t, "")
	runner.EXPECT().Run(gomock.Any(), "docker", "compose", "ps", "--all", "--format", gomock.Any()).
		Return(ports.CommandResult{Stdout: "zeckit-zebra\tUp 2 minutes\n\nzeckit-faucet\tExited (1)\n"}, nil)

	lines, err := c.ListServiceStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"zeckit-zebra\tUp 2 minutes", "zeckit-faucet\tExited (1)"}, lines)
}

func TestIsServiceRunning(t *testing.T) {
	c, runner := newTestCompose(t, "")
	runner.EXPECT().Run(gomock.Any(), "docker", "ps", "--filter", "name=zeckit-zaino", "--format", "{{.Names}}").
		Return(ports.CommandResult{Stdout: "zeckit-zaino\n"}, nil)
	runner.EXPECT().Run(gomock.Any(), "docker", "ps", "--filter", "name=zeckit-lightwalletd", "--format", "{{.Names}}").
		Return(ports.CommandResult{Stdout: ""}, nil)

	running, err := c.IsServiceRunning(context.Background(), "zeckit-zaino")
	require.NoError(t, err)
	assert.True(t, running)

	running, err = c.IsServiceRunning(context.Background(), "zeckit-lightwalletd")
	require.NoError(t, err)
	assert.False(t, running)
}
