package petkit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
)

// DeviceAction names a control operation that SendAPIRequest can perform.
type DeviceAction string

// Supported device actions.
const (
	ActionUpdateSetting    DeviceAction = "update_setting"
	ActionControlDevice    DeviceAction = "control_device"
	ActionManualFeed       DeviceAction = "manual_feed"
	ActionCancelManualFeed DeviceAction = "cancel_manual_feed"
	ActionCallPet          DeviceAction = "call_pet"
	ActionDesiccantReset   DeviceAction = "desiccant_reset"
	ActionDeodorantReset   DeviceAction = "deodorant_reset"
	ActionFoodReplenished  DeviceAction = "food_replenished"
	ActionPetUpdateSetting DeviceAction = "pet_update_setting"
)

// Command endpoints. Older feeder generations keep snake_case paths.
const (
	endpointUpdateSetting     = "updateSettings"
	endpointControlDevice     = "controlDevice"
	endpointManualFeedOld     = "save_dailyfeed"
	endpointManualFeedNew     = "saveDailyFeed"
	endpointCancelFeedOld     = "cancel_realtime_feed"
	endpointCancelFeedNew     = "cancelRealtimeFeed"
	endpointCallPet           = "callPet"
	endpointDesiccantResetOld = "desiccant_reset"
	endpointDesiccantResetNew = "desiccantReset"
	endpointDeodorantReset    = "deodorantReset"
	endpointFoodReplenished   = "added"
	endpointPetUpdateSetting  = "updatepetprops"
)

// actionSpec binds a device action to its endpoint and parameter encoding.
// The endpoint may depend on the device generation; params receives the
// caller-provided setting map.
type actionSpec struct {
	endpoint  func(device *Device) string
	params    func(device *Device, setting map[string]any) (url.Values, error)
	supported map[string]bool
}

// legacyFeeders are the generations still served by snake_case endpoints.
var legacyFeeders = map[string]bool{
	DeviceTypeFeeder:     true,
	DeviceTypeFeederMini: true,
}

// defaultActions builds the action dispatch table. Constructed once at
// client creation, like the payload table.
func defaultActions() map[DeviceAction]actionSpec {
	allDeviceTypes := map[string]bool{}
	for _, set := range []map[string]bool{feederDevices, litterDevices, waterFountainDevices, purifierDevices} {
		for t := range set {
			allDeviceTypes[t] = true
		}
	}

	return map[DeviceAction]actionSpec{
		ActionUpdateSetting: {
			endpoint:  staticEndpoint(endpointUpdateSetting),
			params:    kvParams("id"),
			supported: allDeviceTypes,
		},
		ActionControlDevice: {
			endpoint:  staticEndpoint(endpointControlDevice),
			params:    kvParams("id"),
			supported: mergeSets(litterDevices, waterFountainDevices),
		},
		ActionManualFeed: {
			endpoint: func(d *Device) string {
				if legacyFeeders[d.DeviceType] {
					return endpointManualFeedOld
				}
				return endpointManualFeedNew
			},
			params:    settingParams("deviceId"),
			supported: copySet(feederDevices),
		},
		ActionCancelManualFeed: {
			endpoint: func(d *Device) string {
				if legacyFeeders[d.DeviceType] {
					return endpointCancelFeedOld
				}
				return endpointCancelFeedNew
			},
			params:    settingParams("deviceId"),
			supported: copySet(feederDevices),
		},
		ActionCallPet: {
			endpoint:  staticEndpoint(endpointCallPet),
			params:    settingParams("deviceId"),
			supported: map[string]bool{DeviceTypeD3: true},
		},
		ActionDesiccantReset: {
			endpoint: func(d *Device) string {
				if legacyFeeders[d.DeviceType] {
					return endpointDesiccantResetOld
				}
				return endpointDesiccantResetNew
			},
			params:    settingParams("deviceId"),
			supported: copySet(feederDevices),
		},
		ActionDeodorantReset: {
			endpoint:  staticEndpoint(endpointDeodorantReset),
			params:    settingParams("deviceId"),
			supported: copySet(litterDevices),
		},
		ActionFoodReplenished: {
			endpoint:  staticEndpoint(endpointFoodReplenished),
			params:    settingParams("deviceId"),
			supported: copySet(feederDevices),
		},
		ActionPetUpdateSetting: {
			endpoint:  staticEndpoint(endpointPetUpdateSetting),
			params:    kvParams("petId"),
			supported: map[string]bool{DeviceTypePet: true},
		},
	}
}

func staticEndpoint(endpoint string) func(*Device) string {
	return func(*Device) string { return endpoint }
}

// kvParams encodes the setting map as a JSON blob under "kv", the shape the
// settings endpoints expect.
func kvParams(idKey string) func(*Device, map[string]any) (url.Values, error) {
	return func(device *Device, setting map[string]any) (url.Values, error) {
		kv, err := json.Marshal(setting)
		if err != nil {
			return nil, fmt.Errorf("failed to encode setting: %w", err)
		}
		params := url.Values{}
		params.Set(idKey, strconv.FormatInt(device.DeviceID, 10))
		params.Set("kv", string(kv))
		return params, nil
	}
}

// settingParams flattens the setting map into individual form fields next
// to the device id.
func settingParams(idKey string) func(*Device, map[string]any) (url.Values, error) {
	return func(device *Device, setting map[string]any) (url.Values, error) {
		params := url.Values{}
		params.Set(idKey, strconv.FormatInt(device.DeviceID, 10))
		for k, v := range setting {
			params.Set(k, fmt.Sprint(v))
		}
		return params, nil
	}
}

func copySet(src map[string]bool) map[string]bool {
	out := make(map[string]bool, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func mergeSets(sets ...map[string]bool) map[string]bool {
	out := map[string]bool{}
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

// SendAPIRequest performs a control action against a device. The device
// must already be known to the client (after a refresh cycle or account
// load). setting carries action-specific parameters and may be nil.
func (c *Client) SendAPIRequest(ctx context.Context, deviceID int64, action DeviceAction, setting map[string]any) error {
	entity, ok := c.Entity(deviceID)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrDeviceNotFound, deviceID)
	}

	device := entity.DeviceInfo()
	if device == nil {
		return fmt.Errorf("%w: id %d", ErrMissingDeviceInfo, deviceID)
	}

	spec, ok := c.actions[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedAction, action)
	}
	if !spec.supported[device.DeviceType] {
		return fmt.Errorf("%w: %s does not support %s", ErrUnsupportedDevice, device.DeviceType, action)
	}

	params, err := spec.params(device, setting)
	if err != nil {
		return err
	}

	path := device.DeviceType + "/" + spec.endpoint(device)
	c.logDebug(ctx, "device_command",
		slog.Int64("device_id", deviceID),
		slog.String("action", string(action)),
		slog.String("path", path),
	)

	_, err = c.postForm(ctx, path, params)
	return err
}
