package petkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// commandServer records the path and form of the last command request and
// replies with a success envelope.
type commandServer struct {
	*httptest.Server
	path string
	form map[string]string
}

func newCommandServer(t *testing.T) *commandServer {
	t.Helper()
	cs := &commandServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		cs.path = r.URL.Path
		cs.form = map[string]string{}
		for k := range r.PostForm {
			cs.form[k] = r.PostForm.Get(k)
		}
		writeResult(w, "success")
	}))
	t.Cleanup(cs.Close)
	return cs
}

func registerDevice(client *Client, id int64, deviceType string) {
	device := &Device{DeviceID: id, DeviceType: deviceType}
	switch {
	case feederDevices[deviceType]:
		f := &Feeder{ID: id}
		f.attachDevice(device)
		client.setEntity(id, f)
	case litterDevices[deviceType]:
		l := &Litter{ID: id}
		l.attachDevice(device)
		client.setEntity(id, l)
	default:
		p := &Pet{PetID: id}
		p.attachDevice(device)
		client.setEntity(id, p)
	}
}

func TestClient_SendAPIRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("update setting encodes a kv blob", func(t *testing.T) {
		server := newCommandServer(t)
		client := newTestClient(t, server.URL)
		registerDevice(client, 10, DeviceTypeT4)

		setting := map[string]any{"lightMode": 1}
		if err := client.SendAPIRequest(ctx, 10, ActionUpdateSetting, setting); err != nil {
			t.Fatalf("SendAPIRequest() error = %v", err)
		}

		if server.path != "/t4/updateSettings" {
			t.Errorf("path = %q, want /t4/updateSettings", server.path)
		}
		if got := server.form["id"]; got != "10" {
			t.Errorf("form id = %q, want 10", got)
		}
		var kv map[string]any
		if err := json.Unmarshal([]byte(server.form["kv"]), &kv); err != nil {
			t.Fatalf("kv blob not JSON: %v", err)
		}
		if kv["lightMode"] != float64(1) {
			t.Errorf("kv = %v, want lightMode 1", kv)
		}
	})

	t.Run("manual feed picks endpoint by generation", func(t *testing.T) {
		tests := []struct {
			deviceType string
			wantPath   string
		}{
			{DeviceTypeFeeder, "/feeder/save_dailyfeed"},
			{DeviceTypeFeederMini, "/feedermini/save_dailyfeed"},
			{DeviceTypeD4, "/d4/saveDailyFeed"},
			{DeviceTypeD4SH, "/d4sh/saveDailyFeed"},
		}
		for _, tt := range tests {
			t.Run(tt.deviceType, func(t *testing.T) {
				server := newCommandServer(t)
				client := newTestClient(t, server.URL)
				registerDevice(client, 10, tt.deviceType)

				err := client.SendAPIRequest(ctx, 10, ActionManualFeed, map[string]any{"amount": 20})
				if err != nil {
					t.Fatalf("SendAPIRequest() error = %v", err)
				}
				if server.path != tt.wantPath {
					t.Errorf("path = %q, want %q", server.path, tt.wantPath)
				}
				if got := server.form["deviceId"]; got != "10" {
					t.Errorf("form deviceId = %q, want 10", got)
				}
				if got := server.form["amount"]; got != "20" {
					t.Errorf("form amount = %q, want 20", got)
				}
			})
		}
	})

	t.Run("desiccant reset picks endpoint by generation", func(t *testing.T) {
		server := newCommandServer(t)
		client := newTestClient(t, server.URL)
		registerDevice(client, 10, DeviceTypeFeederMini)
		registerDevice(client, 20, DeviceTypeD4S)

		if err := client.SendAPIRequest(ctx, 10, ActionDesiccantReset, nil); err != nil {
			t.Fatalf("SendAPIRequest() error = %v", err)
		}
		if server.path != "/feedermini/desiccant_reset" {
			t.Errorf("path = %q, want /feedermini/desiccant_reset", server.path)
		}

		if err := client.SendAPIRequest(ctx, 20, ActionDesiccantReset, nil); err != nil {
			t.Fatalf("SendAPIRequest() error = %v", err)
		}
		if server.path != "/d4s/desiccantReset" {
			t.Errorf("path = %q, want /d4s/desiccantReset", server.path)
		}
	})

	t.Run("pet setting targets updatepetprops", func(t *testing.T) {
		server := newCommandServer(t)
		client := newTestClient(t, server.URL)
		registerDevice(client, 100, DeviceTypePet)

		err := client.SendAPIRequest(ctx, 100, ActionPetUpdateSetting, map[string]any{"weight": 4})
		if err != nil {
			t.Fatalf("SendAPIRequest() error = %v", err)
		}
		if server.path != "/pet/updatepetprops" {
			t.Errorf("path = %q, want /pet/updatepetprops", server.path)
		}
		if got := server.form["petId"]; got != "100" {
			t.Errorf("form petId = %q, want 100", got)
		}
	})

	t.Run("unknown device", func(t *testing.T) {
		client := newTestClient(t, "http://unused")
		err := client.SendAPIRequest(ctx, 99, ActionUpdateSetting, nil)
		if !errors.Is(err, ErrDeviceNotFound) {
			t.Errorf("error = %v, want ErrDeviceNotFound", err)
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		client := newTestClient(t, "http://unused")
		registerDevice(client, 10, DeviceTypeT4)
		err := client.SendAPIRequest(ctx, 10, DeviceAction("self_destruct"), nil)
		if !errors.Is(err, ErrUnsupportedAction) {
			t.Errorf("error = %v, want ErrUnsupportedAction", err)
		}
	})

	t.Run("action unsupported by device type", func(t *testing.T) {
		client := newTestClient(t, "http://unused")
		registerDevice(client, 10, DeviceTypeT4)
		err := client.SendAPIRequest(ctx, 10, ActionManualFeed, nil)
		if !errors.Is(err, ErrUnsupportedDevice) {
			t.Errorf("error = %v, want ErrUnsupportedDevice", err)
		}

		registerDevice(client, 20, DeviceTypeD4)
		err = client.SendAPIRequest(ctx, 20, ActionCallPet, nil)
		if !errors.Is(err, ErrUnsupportedDevice) {
			t.Errorf("call_pet on d4: error = %v, want ErrUnsupportedDevice", err)
		}
	})

	t.Run("call pet on d3", func(t *testing.T) {
		server := newCommandServer(t)
		client := newTestClient(t, server.URL)
		registerDevice(client, 10, DeviceTypeD3)

		if err := client.SendAPIRequest(ctx, 10, ActionCallPet, nil); err != nil {
			t.Fatalf("SendAPIRequest() error = %v", err)
		}
		if server.path != "/d3/callPet" {
			t.Errorf("path = %q, want /d3/callPet", server.path)
		}
	})
}
