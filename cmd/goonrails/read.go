package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/yourEmotion/goonrails/internal/client"
	"github.com/yourEmotion/goonrails/internal/reader"
	"github.com/yourEmotion/goonrails/internal/rpc"
)

var (
	readGRPC  string
	readStyle string
)

var readCmd = &cobra.Command{
	Use:   "read [route]",
	Short: "Browse posts in the terminal",
	Long: `Opens the terminal reader on route ("/" or "/posts/:id", default "/").
Posts are read from client.base_url over HTTP, or from a gRPC address
given with --grpc.

Keys: up/down select, enter opens a post, esc goes back, q quits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := "/"
		if len(args) == 1 {
			start = args[0]
		}

		var src reader.PostSource = client.New(cfg.Client.BaseURL, cfg.Client.Timeout)
		if readGRPC != "" {
			conn, err := grpc.NewClient(readGRPC, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("dial %s: %w", readGRPC, err)
			}
			defer conn.Close()
			src = rpc.NewClient(conn)
		}

		app, err := reader.New(src, start, reader.Options{GlamourStyle: readStyle})
		if err != nil {
			return err
		}
		zap.L().Info("Reader started", zap.String("route", start))
		if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
			return fmt.Errorf("reader: %w", err)
		}
		return nil
	},
}

func init() {
	readCmd.Flags().StringVar(&readGRPC, "grpc", "", "read over gRPC from this address instead of HTTP")
	readCmd.Flags().StringVar(&readStyle, "style", "dark", "glamour style for post content")
}
