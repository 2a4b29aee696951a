// Package client provides test commands for the battle gRPC service
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	battlev1alpha1 "github.com/KirkDiggler/rpg-campaign/internal/handlers/battle/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the battle service",
	Long:  `Client commands allow you to drive a running server by making real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ClientCmd.AddCommand(createBattleCmd)
	ClientCmd.AddCommand(getBattleCmd)
	ClientCmd.AddCommand(listBattlesCmd)
	ClientCmd.AddCommand(endBattleCmd)
	ClientCmd.AddCommand(addParticipantCmd)
	ClientCmd.AddCommand(grantEffectCmd)
	ClientCmd.AddCommand(resolveRoundCmd)
	ClientCmd.AddCommand(roundHistoryCmd)
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// call sends one request and decodes the response into dst when dst is set
func call(method string, fields map[string]any, dst any) error {
	conn, err := createConnection()
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	req, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := battlev1alpha1.NewBattleServiceClient(conn).Call(ctx, method, req)
	if err != nil {
		return err
	}
	if dst == nil {
		return nil
	}
	return battlev1alpha1.Decode(resp, dst)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
