package petkit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// BLE relay endpoints. Fountains without Wi-Fi are reached over Bluetooth
// through a relay-capable device on the same account.
const (
	endpointBleRelayDevices = "ble/ownSupportBleDevices"
	endpointBleConnect      = "ble/connect"
	endpointBlePoll         = "ble/poll"
	endpointBleCancel       = "ble/cancel"
	endpointBleControl      = "ble/controlDevice"
)

// BluetoothState is the lifecycle of a relayed BLE connection.
type BluetoothState int

// Bluetooth connection states as reported by the poll endpoint.
const (
	BluetoothNoState BluetoothState = iota
	BluetoothNotConnected
	BluetoothConnecting
	BluetoothConnected
	BluetoothError
)

// String returns the state name.
func (s BluetoothState) String() string {
	switch s {
	case BluetoothNotConnected:
		return "not-connected"
	case BluetoothConnecting:
		return "connecting"
	case BluetoothConnected:
		return "connected"
	case BluetoothError:
		return "error"
	default:
		return "no-state"
	}
}

// BleRelay describes one account device that can relay BLE traffic to a
// nearby non-Wi-Fi device.
type BleRelay struct {
	ID         int64  `json:"id"`
	LowVersion int    `json:"lowVersion"`
	Mac        string `json:"mac"`
	Name       string `json:"name"`
	Pim        int    `json:"pim"`
	SN         string `json:"sn"`
	TypeID     int    `json:"typeId"`
}

// ListBleRelayDevices returns the account's relay-capable devices.
func (c *Client) ListBleRelayDevices(ctx context.Context) ([]BleRelay, error) {
	raw, err := c.getResult(ctx, endpointBleRelayDevices, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ble relay devices: %w", err)
	}

	var relays []BleRelay
	if err := json.Unmarshal(raw, &relays); err != nil {
		return nil, fmt.Errorf("%w: ble relay devices: %v", ErrInvalidResponseFormat, err)
	}
	return relays, nil
}

// OpenBleConnection asks the cloud to establish a relayed BLE link to the
// target device. The link is ready once PollBleConnection reports
// BluetoothConnected.
func (c *Client) OpenBleConnection(ctx context.Context, deviceID int64) error {
	params := url.Values{}
	params.Set("bleId", strconv.FormatInt(deviceID, 10))
	params.Set("type", "24")
	params.Set("mac", "")

	_, err := c.postForm(ctx, endpointBleConnect, params)
	return err
}

// PollBleConnection reports the current state of a relayed BLE link.
func (c *Client) PollBleConnection(ctx context.Context, deviceID int64) (BluetoothState, error) {
	params := url.Values{}
	params.Set("bleId", strconv.FormatInt(deviceID, 10))
	params.Set("type", "24")

	raw, err := c.postForm(ctx, endpointBlePoll, params)
	if err != nil {
		return BluetoothError, err
	}

	var state int
	if err := json.Unmarshal(raw, &state); err != nil {
		return BluetoothError, fmt.Errorf("%w: ble poll: %v", ErrInvalidResponseFormat, err)
	}
	if state < int(BluetoothNoState) || state > int(BluetoothError) {
		return BluetoothError, fmt.Errorf("%w: ble poll state %d", ErrInvalidResponseFormat, state)
	}
	return BluetoothState(state), nil
}

// CloseBleConnection tears down a relayed BLE link.
func (c *Client) CloseBleConnection(ctx context.Context, deviceID int64) error {
	params := url.Values{}
	params.Set("bleId", strconv.FormatInt(deviceID, 10))
	params.Set("type", "24")

	_, err := c.postForm(ctx, endpointBleCancel, params)
	return err
}
