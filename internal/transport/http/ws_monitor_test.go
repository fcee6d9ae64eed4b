package http

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"live-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

func TestMonitorStreamsStatusFrames(t *testing.T) {
	server := newTestServer(t)

	created := postJSON(t, server.URL+"/api/sessions", map[string]any{"quizId": "quiz-1"})
	code := created["code"].(string)

	u := "ws" + server.URL[len("http"):] + "/ws/monitor?code=" + code
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	frameType, snapshot := readStatusFrame(t, conn)
	if frameType != "status" {
		t.Fatalf("expected status frame, got %s", frameType)
	}
	if snapshot.State != domain.StateWaiting {
		t.Fatalf("expected waiting session, got %+v", snapshot)
	}

	// Start the session out of band; a later frame must reflect it.
	postJSON(t, fmt.Sprintf("%s/api/sessions/%s/start", server.URL, code), map[string]any{})

	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatalf("monitor never reported the active state")
		}
		_, snapshot = readStatusFrame(t, conn)
		if snapshot.State == domain.StateActive {
			break
		}
	}
}

func TestMonitorReportsUnknownSession(t *testing.T) {
	server := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws/monitor?code=NOPE99"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var frame struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if frame.Type != "error" {
		t.Fatalf("expected error frame, got %s", frame.Type)
	}
	var payload map[string]string
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["reason"] != "not_found" {
		t.Fatalf("expected not_found, got %+v", payload)
	}
}

func readStatusFrame(t *testing.T, conn *websocket.Conn) (string, domain.SessionSnapshot) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var snapshot domain.SessionSnapshot
	if frame.Type == "status" {
		if err := json.Unmarshal(frame.Payload, &snapshot); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
	}
	return frame.Type, snapshot
}
