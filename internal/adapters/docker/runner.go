package docker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
	log "github.com/sirupsen/logrus"
)

// SmokeRun starts a container from the image with the given port mapped
// to an ephemeral host port, probes it over HTTP, and removes the
// container again. Returned logs cover the whole run.
func (a *Adapter) SmokeRun(ctx context.Context, tag string, port int) (string, error) {
	containerPort := nat.Port(fmt.Sprintf("%d/tcp", port))

	resp, err := a.cli.ContainerCreate(ctx,
		&container.Config{
			Image:        tag,
			ExposedPorts: nat.PortSet{containerPort: struct{}{}},
		},
		&container.HostConfig{
			PortBindings: nat.PortMap{
				containerPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: "0"}},
			},
		},
		nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}
	id := resp.ID
	defer a.remove(id)

	if err := a.cli.ContainerStart(ctx, id, types.ContainerStartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	hostPort, err := a.mappedPort(ctx, id, containerPort)
	if err != nil {
		return a.logs(ctx, id), err
	}

	if err := probe(ctx, fmt.Sprintf("http://127.0.0.1:%s/", hostPort)); err != nil {
		return a.logs(ctx, id), fmt.Errorf("container did not respond on port %d: %w", port, err)
	}

	log.WithFields(log.Fields{"image": tag, "port": hostPort}).Info("smoke run succeeded")
	return a.logs(ctx, id), nil
}

// mappedPort waits briefly for the engine to publish the host binding.
func (a *Adapter) mappedPort(ctx context.Context, id string, port nat.Port) (string, error) {
	for i := 0; i < 10; i++ {
		inspect, err := a.cli.ContainerInspect(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to inspect container: %w", err)
		}
		if bindings := inspect.NetworkSettings.Ports[port]; len(bindings) > 0 {
			return bindings[0].HostPort, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return "", fmt.Errorf("no host binding published for %s", port)
}

// probe retries an HTTP GET until the server answers or the budget runs
// out. Any HTTP status counts as alive.
func probe(ctx context.Context, url string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	var lastErr error
	for i := 0; i < 25; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(400 * time.Millisecond):
		}
	}
	return lastErr
}

func (a *Adapter) logs(ctx context.Context, id string) string {
	reader, err := a.cli.ContainerLogs(ctx, id, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Timestamps: true,
	})
	if err != nil {
		return ""
	}
	defer reader.Close()

	return demuxLogs(reader)
}

// demuxLogs strips the engine's stream-multiplexing frames. Non-TTY
// containers interleave stdout and stderr with 8-byte headers.
func demuxLogs(r io.Reader) string {
	var out strings.Builder
	if _, err := stdcopy.StdCopy(&out, &out, r); err != nil {
		log.WithError(err).Warn("truncated container log stream")
	}
	return out.String()
}

// remove stops and deletes the smoke container on a fresh context so
// cleanup still runs when the caller's context is already cancelled.
func (a *Adapter) remove(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.cli.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
		log.WithError(err).Warn("failed to stop smoke container")
	}
	if err := a.cli.ContainerRemove(ctx, id, types.ContainerRemoveOptions{Force: true}); err != nil {
		log.WithError(err).Warn("failed to remove smoke container")
	}
}
