package petkit

import (
	"context"
	"log/slog"
)

// dispatch routes one fetched payload to the entity-graph mutation for its
// data category. The switch is closed over the category enum; only the
// main-data handler creates map entries, every other handler mutates the
// existing entity in place and drops the payload (with a warning) when the
// entity is absent or of the wrong variant.
func (c *Client) dispatch(ctx context.Context, category dataCategory, device *Device, payload any) {
	switch category {
	case categoryMainData:
		c.handleDeviceData(ctx, device, payload)
	case categoryRecords:
		c.handleDeviceRecords(ctx, device, payload)
	case categoryStats:
		c.handleDeviceStats(ctx, device, payload)
	case categoryLive:
		c.handleLiveData(ctx, device, payload)
	default:
		c.logWarn(ctx, "dispatch_unknown_category",
			slog.Int64("device_id", device.DeviceID),
			slog.String("category", category.String()),
		)
	}
}

// handleDeviceData replaces the entity map entry wholesale and re-attaches
// the device metadata reference.
func (c *Client) handleDeviceData(ctx context.Context, device *Device, payload any) {
	entity, ok := payload.(Entity)
	if !ok {
		c.logWarn(ctx, "dispatch_drop",
			slog.Int64("device_id", device.DeviceID),
			slog.String("category", categoryMainData.String()),
		)
		return
	}
	entity.attachDevice(device)
	c.setEntity(device.DeviceID, entity)
	c.logDebug(ctx, "device_data_updated",
		slog.Int64("device_id", device.DeviceID),
		slog.String("device_type", device.DeviceType),
	)
}

// handleDeviceRecords sets the records field of a compatible entity.
func (c *Client) handleDeviceRecords(ctx context.Context, device *Device, payload any) {
	entity, found := c.Entity(device.DeviceID)
	if !found {
		c.logDispatchDrop(ctx, device, categoryRecords, entity)
		return
	}

	c.entityMu.Lock()
	defer c.entityMu.Unlock()
	switch e := entity.(type) {
	case *Feeder:
		if records, ok := payload.([]FeederRecord); ok {
			e.DeviceRecords = records
			return
		}
	case *Litter:
		if records, ok := payload.([]LitterRecord); ok {
			e.DeviceRecords = records
			return
		}
	case *WaterFountain:
		if records, ok := payload.([]WaterFountainRecord); ok {
			e.DeviceRecords = records
			return
		}
	}
	c.logDispatchDrop(ctx, device, categoryRecords, entity)
}

// handleDeviceStats routes stats to deviceStats for camera-less litter
// boxes and to devicePetGraphOut for camera-equipped ones. Anything else is
// dropped; the planner never schedules a stats op for a non-litter device,
// but a failed main fetch can leave the entity missing.
func (c *Client) handleDeviceStats(ctx context.Context, device *Device, payload any) {
	entity, _ := c.Entity(device.DeviceID)
	litter, ok := entity.(*Litter)
	if !ok {
		c.logDispatchDrop(ctx, device, categoryStats, entity)
		return
	}

	c.entityMu.Lock()
	defer c.entityMu.Unlock()
	switch stats := payload.(type) {
	case []LitterStats:
		if ClassifyDevice(device.DeviceType) == CategoryLitterNoCamera {
			litter.DeviceStats = stats
			return
		}
	case []PetOutGraph:
		if ClassifyDevice(device.DeviceType) == CategoryLitterWithCamera {
			litter.DevicePetGraphOut = stats
			return
		}
	}
	c.logDispatchDrop(ctx, device, categoryStats, entity)
}

// handleLiveData sets the live feed on feeder and litter entities.
func (c *Client) handleLiveData(ctx context.Context, device *Device, payload any) {
	feed, ok := payload.(*LiveFeed)
	if !ok {
		c.logDispatchDrop(ctx, device, categoryLive, nil)
		return
	}

	entity, _ := c.Entity(device.DeviceID)
	c.entityMu.Lock()
	defer c.entityMu.Unlock()
	switch e := entity.(type) {
	case *Feeder:
		e.LiveFeed = feed
	case *Litter:
		e.LiveFeed = feed
	default:
		c.logDispatchDrop(ctx, device, categoryLive, entity)
	}
}

// logDispatchDrop records a payload dropped because the target entity is
// absent or of an incompatible variant.
func (c *Client) logDispatchDrop(ctx context.Context, device *Device, category dataCategory, entity Entity) {
	kind := "absent"
	if entity != nil {
		kind = string(entity.EntityKind())
	}
	c.logWarn(ctx, "dispatch_drop",
		slog.Int64("device_id", device.DeviceID),
		slog.String("category", category.String()),
		slog.String("entity_kind", kind),
	)
}
