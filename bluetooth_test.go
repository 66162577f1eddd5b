package petkit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_ListBleRelayDevices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ble/ownSupportBleDevices" {
			t.Errorf("path = %q, want /ble/ownSupportBleDevices", r.URL.Path)
		}
		writeResult(w, []map[string]any{
			{"id": 10, "mac": "aa:bb:cc:dd:ee:ff", "name": "snowbox", "typeId": 24},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	relays, err := client.ListBleRelayDevices(context.Background())
	if err != nil {
		t.Fatalf("ListBleRelayDevices() error = %v", err)
	}
	if len(relays) != 1 {
		t.Fatalf("relays = %d, want 1", len(relays))
	}
	if relays[0].Mac != "aa:bb:cc:dd:ee:ff" || relays[0].TypeID != 24 {
		t.Errorf("relay = %+v", relays[0])
	}
}

func TestClient_BleConnectionLifecycle(t *testing.T) {
	pollState := int(BluetoothConnecting)
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		paths = append(paths, r.URL.Path)
		if got := r.PostForm.Get("bleId"); got != "10" {
			t.Errorf("bleId = %q, want 10", got)
		}
		if got := r.PostForm.Get("type"); got != "24" {
			t.Errorf("type = %q, want 24", got)
		}

		switch r.URL.Path {
		case "/ble/poll":
			writeResult(w, pollState)
		default:
			writeResult(w, "success")
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	if err := client.OpenBleConnection(ctx, 10); err != nil {
		t.Fatalf("OpenBleConnection() error = %v", err)
	}

	state, err := client.PollBleConnection(ctx, 10)
	if err != nil {
		t.Fatalf("PollBleConnection() error = %v", err)
	}
	if state != BluetoothConnecting {
		t.Errorf("state = %v, want connecting", state)
	}

	pollState = int(BluetoothConnected)
	state, err = client.PollBleConnection(ctx, 10)
	if err != nil {
		t.Fatalf("PollBleConnection() error = %v", err)
	}
	if state != BluetoothConnected {
		t.Errorf("state = %v, want connected", state)
	}

	if err := client.CloseBleConnection(ctx, 10); err != nil {
		t.Fatalf("CloseBleConnection() error = %v", err)
	}

	want := []string{"/ble/connect", "/ble/poll", "/ble/poll", "/ble/cancel"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestClient_PollBleConnection_OutOfRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, 9)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	state, err := client.PollBleConnection(context.Background(), 10)
	if !errors.Is(err, ErrInvalidResponseFormat) {
		t.Fatalf("error = %v, want ErrInvalidResponseFormat", err)
	}
	if state != BluetoothError {
		t.Errorf("state = %v, want error", state)
	}
}

func TestBluetoothState_String(t *testing.T) {
	tests := []struct {
		state BluetoothState
		want  string
	}{
		{BluetoothNoState, "no-state"},
		{BluetoothNotConnected, "not-connected"},
		{BluetoothConnecting, "connecting"},
		{BluetoothConnected, "connected"},
		{BluetoothError, "error"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.state, got, tt.want)
		}
	}
}
