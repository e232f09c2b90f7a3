package http

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/beamchat-server/internal/proto"
)

// outboundEnvelope mirrors proto.Outbound with raw data for assertions.
type outboundEnvelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error,omitempty"`
}

func dialWS(ctx context.Context, t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(env.ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })

	return conn
}

func sendInbound(ctx context.Context, t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readUntil reads outbound envelopes, skipping unrelated broadcasts,
// until one of the wanted type arrives or the context expires.
func readUntil(ctx context.Context, t *testing.T, conn *websocket.Conn, wantType string) outboundEnvelope {
	t.Helper()

	for {
		var out outboundEnvelope
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("waiting for %s: %v", wantType, err)
		}
		if out.Type == wantType {
			return out
		}
	}
}

// waitForRoster reads online_users_list broadcasts until one includes
// the given identity.
func waitForRoster(ctx context.Context, t *testing.T, conn *websocket.Conn, identity string) {
	t.Helper()

	for {
		out := readUntil(ctx, t, conn, proto.OutboundTypeOnlineUsers)

		var users []string
		if err := json.Unmarshal(out.Data, &users); err != nil {
			t.Fatalf("unmarshal roster: %v", err)
		}
		for _, u := range users {
			if u == identity {
				return
			}
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := startTestServer(t)

	resp, err := env.ts.Client().Get(env.ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketMessageFlow(t *testing.T) {
	env := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(ctx, t, env)
	connB := dialWS(ctx, t, env)

	sendInbound(ctx, t, connA, proto.InboundTypeRegisterIdentity, proto.RegisterIdentityData{Identity: "alice"})
	sendInbound(ctx, t, connB, proto.InboundTypeRegisterIdentity, proto.RegisterIdentityData{Identity: "bob"})

	sendInbound(ctx, t, connA, proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: "alice-bob"})
	sendInbound(ctx, t, connB, proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: "alice-bob"})

	// Both joiners get the (empty) history before any message flows.
	readUntil(ctx, t, connA, proto.OutboundTypeMessageHistory)
	readUntil(ctx, t, connB, proto.OutboundTypeMessageHistory)

	sendInbound(ctx, t, connA, proto.InboundTypeSendMessage, proto.SendMessageData{
		Room: "alice-bob",
		Message: proto.MessageBody{
			Sender:   "alice",
			Receiver: "bob",
			Text:     "hi",
		},
	})

	for _, conn := range []*websocket.Conn{connA, connB} {
		out := readUntil(ctx, t, conn, proto.OutboundTypeMessage)

		var msg proto.MessageData
		if err := json.Unmarshal(out.Data, &msg); err != nil {
			t.Fatalf("unmarshal message data: %v", err)
		}
		if msg.Sender != "alice" || msg.Text != "hi" || msg.Room != "alice-bob" {
			t.Fatalf("unexpected message payload: %+v", msg)
		}
		if msg.SenderName == "" {
			t.Fatalf("expected senderName to be resolved, got empty")
		}
		if msg.CreatedAt.IsZero() {
			t.Fatalf("expected server timestamp on message")
		}
	}

	// Rejoining must not replay history to the already-joined connection.
	sendInbound(ctx, t, connB, proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: "alice-bob"})

	// A third connection joining fresh does get the stored message.
	connC := dialWS(ctx, t, env)
	sendInbound(ctx, t, connC, proto.InboundTypeRegisterIdentity, proto.RegisterIdentityData{Identity: "carol"})
	sendInbound(ctx, t, connC, proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: "alice-bob"})

	out := readUntil(ctx, t, connC, proto.OutboundTypeMessageHistory)
	var history []proto.MessageData
	if err := json.Unmarshal(out.Data, &history); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(history) != 1 || history[0].Text != "hi" {
		t.Fatalf("expected history with one message, got %+v", history)
	}
}

func TestWebSocketStatusRequest(t *testing.T) {
	env := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(ctx, t, env)
	connB := dialWS(ctx, t, env)

	sendInbound(ctx, t, connA, proto.InboundTypeRegisterIdentity, proto.RegisterIdentityData{Identity: "alice"})
	sendInbound(ctx, t, connB, proto.InboundTypeRegisterIdentity, proto.RegisterIdentityData{Identity: "bob"})
	waitForRoster(ctx, t, connA, "bob")

	sendInbound(ctx, t, connA, proto.InboundTypeRequestStatus, proto.RequestStatusData{Target: "bob"})

	out := readUntil(ctx, t, connA, proto.OutboundTypeInitialStatus)

	var status proto.StatusData
	if err := json.Unmarshal(out.Data, &status); err != nil {
		t.Fatalf("unmarshal status data: %v", err)
	}
	if status.Identity != "bob" || status.Status != "online" {
		t.Fatalf("unexpected status payload: %+v", status)
	}
	if status.Timestamp != nil {
		t.Fatalf("online status must not carry a timestamp, got %v", status.Timestamp)
	}
}

func TestWebSocketUnknownTypeReturnsError(t *testing.T) {
	env := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(ctx, t, env)

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: "bogus", Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("write bogus: %v", err)
	}

	out := readUntil(ctx, t, conn, proto.OutboundTypeError)
	if out.Error == nil || out.Error.Code != "invalid_message" {
		t.Fatalf("expected invalid_message error, got %+v", out.Error)
	}
}

func TestWebSocketMissingFieldsReturnError(t *testing.T) {
	env := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(ctx, t, env)

	sendInbound(ctx, t, conn, proto.InboundTypeRegisterIdentity, proto.RegisterIdentityData{})

	out := readUntil(ctx, t, conn, proto.OutboundTypeError)
	if out.Error == nil || out.Error.Code != "bad_request" {
		t.Fatalf("expected bad_request error, got %+v", out.Error)
	}
}

func TestWebSocketCallSignaling(t *testing.T) {
	env := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(ctx, t, env)
	connB := dialWS(ctx, t, env)

	sendInbound(ctx, t, connA, proto.InboundTypeRegisterIdentity, proto.RegisterIdentityData{Identity: "alice"})
	sendInbound(ctx, t, connB, proto.InboundTypeRegisterIdentity, proto.RegisterIdentityData{Identity: "bob"})

	// Make sure bob's registration is visible before alice dials.
	waitForRoster(ctx, t, connA, "bob")

	sendInbound(ctx, t, connA, proto.InboundTypeCallUser, proto.CallUserData{
		Callee:   "bob",
		Room:     "alice-bob",
		Caller:   "alice",
		CallType: "video",
	})

	out := readUntil(ctx, t, connB, proto.OutboundTypeIncomingCall)

	var call proto.IncomingCallData
	if err := json.Unmarshal(out.Data, &call); err != nil {
		t.Fatalf("unmarshal call data: %v", err)
	}
	if call.Caller != "alice" || call.Room != "alice-bob" || call.CallType != "video" {
		t.Fatalf("unexpected call payload: %+v", call)
	}
}
