package service

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ContainerController starts and stops the benchmark's service containers.
type ContainerController interface {
	Kill(ctx context.Context, target string) error
	Start(ctx context.Context, target string) error
}

// DockerController drives containers through the docker CLI, the same way
// the benchmark environment is composed.
type DockerController struct {
	logger *zap.Logger
}

func NewDockerController(logger *zap.Logger) *DockerController {
	return &DockerController{logger: logger}
}

func (d *DockerController) Kill(ctx context.Context, target string) error {
	return d.run(ctx, "kill", target)
}

func (d *DockerController) Start(ctx context.Context, target string) error {
	return d.run(ctx, "start", target)
}

func (d *DockerController) run(ctx context.Context, command string, target string) error {
	output, err := exec.CommandContext(ctx, "docker", command, target).CombinedOutput()
	if err != nil {
		return fmt.Errorf("docker %s %s failed: %w: %s", command, target, err, strings.TrimSpace(string(output)))
	}
	d.logger.Debug("Ran docker command", zap.String("command", command), zap.String("target", target))
	return nil
}
