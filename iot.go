package petkit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	iotConnectTimeout    = 10 * time.Second
	iotSubscribeTimeout  = 5 * time.Second
	iotDisconnectQuiesce = 250 // milliseconds, paho's unit
	iotDefaultQoS        = byte(1)
)

// GetIotDeviceInfo fetches the account's MQTT broker configuration from the
// v2 IoT endpoint. The response carries one block per platform; some
// accounts only have the legacy Ali platform provisioned.
func (c *Client) GetIotDeviceInfo(ctx context.Context) (*IotDeviceInfo, error) {
	raw, err := c.getResult(ctx, endpointIotDeviceInfo, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch iot device info: %w", err)
	}

	var info IotDeviceInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("%w: iot device info: %v", ErrInvalidResponseFormat, err)
	}
	return &info, nil
}

// brokerConfig picks the platform block to connect to, preferring the
// native platform over the legacy Ali one.
func (info *IotDeviceInfo) brokerConfig() (*IotInfo, error) {
	switch {
	case info.Petkit != nil && info.Petkit.MqttHost != "":
		return info.Petkit, nil
	case info.Ali != nil && info.Ali.MqttHost != "":
		return info.Ali, nil
	default:
		return nil, ErrNoIotConfig
	}
}

// IotHandler receives one broker message. Handlers run on paho's router
// goroutines and must not block for extended periods.
type IotHandler func(topic string, payload []byte)

// IotListener is a live subscription to the account's IoT event broker.
// Devices publish state transitions here well before the polling API
// reflects them; callers typically trigger RefreshAllDeviceData on receipt.
type IotListener struct {
	client pahomqtt.Client
	topic  string
}

// ListenIotEvents connects to the account's IoT broker and subscribes to
// the device event topics, invoking handler for every message. The returned
// listener keeps the connection alive (with automatic reconnection and
// re-subscription) until Close is called.
func (c *Client) ListenIotEvents(ctx context.Context, handler IotHandler) (*IotListener, error) {
	info, err := c.GetIotDeviceInfo(ctx)
	if err != nil {
		return nil, err
	}
	broker, err := info.brokerConfig()
	if err != nil {
		return nil, err
	}

	topic := fmt.Sprintf("/%s/%s/user/#", broker.ProductKey, broker.DeviceName)

	opts := pahomqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("ssl://%s:443", broker.MqttHost)).
		SetClientID(broker.DeviceName + "-" + uuid.NewString()[:8]).
		SetUsername(broker.DeviceName).
		SetPassword(broker.DeviceSecret).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectTimeout(iotConnectTimeout)

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.logWarn(ctx, "iot_connection_lost", slog.String("error", err.Error()))
	})
	opts.SetOnConnectHandler(func(client pahomqtt.Client) {
		// Paho drops subscriptions on clean-session reconnects.
		client.Subscribe(topic, iotDefaultQoS, func(_ pahomqtt.Client, msg pahomqtt.Message) {
			handler(msg.Topic(), msg.Payload())
		})
	})

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(iotConnectTimeout) {
		return nil, fmt.Errorf("iot broker connect: timeout after %v", iotConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("iot broker connect: %w", err)
	}

	subToken := client.Subscribe(topic, iotDefaultQoS, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	if !subToken.WaitTimeout(iotSubscribeTimeout) {
		client.Disconnect(iotDisconnectQuiesce)
		return nil, fmt.Errorf("iot broker subscribe: timeout after %v", iotSubscribeTimeout)
	}
	if err := subToken.Error(); err != nil {
		client.Disconnect(iotDisconnectQuiesce)
		return nil, fmt.Errorf("iot broker subscribe: %w", err)
	}

	c.logDebug(ctx, "iot_listening",
		slog.String("host", broker.MqttHost),
		slog.String("topic", topic),
	)

	return &IotListener{client: client, topic: topic}, nil
}

// Connected reports whether the broker connection is currently up.
func (l *IotListener) Connected() bool {
	return l.client.IsConnectionOpen()
}

// Close unsubscribes and disconnects from the broker.
func (l *IotListener) Close() {
	if l.client == nil {
		return
	}
	l.client.Unsubscribe(l.topic)
	l.client.Disconnect(iotDisconnectQuiesce)
}
