// Command ws_smoke is a minimal client for exercising a running server:
// it registers an identity, joins a room, sends one message and prints
// every event it receives until the timeout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/beamchat-server/internal/proto"
)

func main() {
	var (
		addr     string
		identity string
		peer     string
		room     string
		text     string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ws_smoke",
		Short: "Smoke-test a running beamchat server over websocket",
		RunE: func(_ *cobra.Command, _ []string) error {
			if room == "" {
				if peer == "" {
					return fmt.Errorf("either --room or --peer is required")
				}
				a, b := identity, peer
				if a > b {
					a, b = b, a
				}
				room = a + "-" + b
			}
			return run(addr, identity, peer, room, text, timeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "ws://localhost:8080/ws", "WebSocket address")
	cmd.Flags().StringVar(&identity, "identity", "tester", "identity to register")
	cmd.Flags().StringVar(&peer, "peer", "", "peer identity for a direct room")
	cmd.Flags().StringVar(&room, "room", "", "explicit room key (overrides --peer)")
	cmd.Flags().StringVar(&text, "text", "hello from smoke test", "message text to send")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "total timeout for the run")

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(addr, identity, peer, room, text string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	send := func(msgType string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return err
		}
		return wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload})
	}

	if err := send(proto.InboundTypeRegisterIdentity, proto.RegisterIdentityData{Identity: identity}); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if err := send(proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: room}); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	if err := send(proto.InboundTypeSendMessage, proto.SendMessageData{
		Room:    room,
		Message: proto.MessageBody{Sender: identity, Receiver: peer, Text: text},
	}); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		raw, _ := json.Marshal(outbound)
		fmt.Printf("<- %s\n", raw)
	}
}
