package main

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptforge/internal/storage"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Manage the Redis container for the redis storage backend",
	Long: `Manage a Docker container running Redis.

This is only needed with storage.backend: redis. The container name and image
come from storage.redis.container_name and storage.redis.image; the host port
comes from storage.redis.addr.

Examples:
  promptforge redis start   # Start the Redis container
  promptforge redis stop    # Stop the container (data preserved)
  promptforge redis status  # Check container status
  promptforge redis logs    # View container logs`,
}

var redisStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Redis container",
	Long: `Start the Redis container.

If the container doesn't exist, it will be created and started.
If it exists but is stopped, it will be started.
If it's already running, this is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getRedisContainer()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Starting Redis...")
		if err := mgr.Start(ctx); err != nil {
			return fmt.Errorf("failed to start Redis: %w", err)
		}

		fmt.Printf("Redis is running at %s\n", mgr.Addr())
		return nil
	},
}

var redisStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the Redis container",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getRedisContainer()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Stopping Redis...")
		if err := mgr.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop Redis: %w", err)
		}

		fmt.Println("Redis stopped")
		return nil
	},
}

var redisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Redis container status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getRedisContainer()
		if err != nil {
			return err
		}
		defer mgr.Close()

		status, err := mgr.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		switch status {
		case storage.StatusRunning:
			fmt.Printf("Status: %s\n", status)
			fmt.Printf("Addr: %s\n", mgr.Addr())

			if err := mgr.WaitReady(ctx, 2*time.Second); err != nil {
				fmt.Printf("Health: unhealthy (%v)\n", err)
			} else {
				fmt.Println("Health: healthy")
			}
		case storage.StatusStopped:
			fmt.Printf("Status: %s (use 'promptforge redis start' to start)\n", status)
		case storage.StatusNotFound:
			fmt.Printf("Status: %s (use 'promptforge redis start' to create)\n", status)
		default:
			fmt.Printf("Status: %s\n", status)
		}

		return nil
	},
}

var logsTail string

var redisLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show Redis container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getRedisContainer()
		if err != nil {
			return err
		}
		defer mgr.Close()

		logs, err := mgr.Logs(ctx, logsTail)
		if err != nil {
			return fmt.Errorf("failed to get logs: %w", err)
		}

		fmt.Print(logs)
		return nil
	},
}

var redisRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the Redis container",
	Long: `Remove the Redis container.

This stops and removes the container. Everything stored in Redis, including
the saved API key and history, is lost with it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getRedisContainer()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Removing Redis container...")
		if err := mgr.Remove(ctx); err != nil {
			return fmt.Errorf("failed to remove container: %w", err)
		}

		fmt.Println("Redis container removed")
		return nil
	},
}

var redisWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for Redis to be ready",
	Long: `Wait for Redis to answer PING.

This is useful in scripts to ensure Redis is fully started
before running other commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getRedisContainer()
		if err != nil {
			return err
		}
		defer mgr.Close()

		timeout, _ := cmd.Flags().GetDuration("timeout")
		fmt.Printf("Waiting for Redis (timeout: %s)...\n", timeout)

		if err := mgr.WaitReady(ctx, timeout); err != nil {
			return fmt.Errorf("Redis not ready: %w", err)
		}

		fmt.Println("Redis is ready")
		return nil
	},
}

func init() {
	redisCmd.AddCommand(redisStartCmd)
	redisCmd.AddCommand(redisStopCmd)
	redisCmd.AddCommand(redisStatusCmd)
	redisCmd.AddCommand(redisLogsCmd)
	redisCmd.AddCommand(redisRemoveCmd)
	redisCmd.AddCommand(redisWaitCmd)

	redisLogsCmd.Flags().StringVar(&logsTail, "tail", "100", "Number of lines to show from the end")
	redisWaitCmd.Flags().Duration("timeout", 30*time.Second, "Timeout waiting for Redis")

	rootCmd.AddCommand(redisCmd)
}

// getRedisContainer creates a container manager from the storage.redis config.
func getRedisContainer() (*storage.RedisContainer, error) {
	h, err := getHome()
	if err != nil {
		return nil, err
	}
	cm, err := getConfig(h)
	if err != nil {
		return nil, err
	}
	rc := cm.Get().Storage.Redis

	port := ""
	if _, p, err := net.SplitHostPort(rc.Addr); err == nil {
		port = p
	}

	return storage.NewRedisContainer(storage.ContainerConfig{
		ContainerName: rc.ContainerName,
		Image:         rc.Image,
		HostPort:      port,
	})
}
