package petkit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// RefreshAllDeviceData runs one full aggregation cycle: it loads account
// data on first use, plans the per-device fetch operations, executes them
// in four ordered batches (main data, records, media, live) and finally
// reconciles derived pet statistics from the fresh litter data.
//
// Individual fetch failures are logged and skipped so one unreachable
// device cannot poison the cycle; only account-level failures return an
// error.
func (c *Client) RefreshAllDeviceData(ctx context.Context) error {
	start := time.Now()

	if len(c.accounts) == 0 {
		if err := c.fetchAccountData(ctx); err != nil {
			return err
		}
	}

	devices := c.collectDevices()
	plan := planFetchOps(devices)

	// Each batch is a barrier: records may reference entities created by
	// main, and media/live decoration requires both to be in place.
	c.runBatch(ctx, "main", plan.main)
	c.runBatch(ctx, "records", plan.records)
	c.runBatch(ctx, "media", plan.media)
	c.runBatch(ctx, "live", plan.live)

	c.reconcilePetStats(ctx)

	c.logDebug(ctx, "refresh_complete",
		slog.Int("devices", len(devices)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// fetchAccountData loads the account's family groups and seeds the entity
// map with their pets. Devices are materialized lazily by the main-data
// batch; pets have no device endpoint, so they are seeded here with a
// synthetic device descriptor.
func (c *Client) fetchAccountData(ctx context.Context) error {
	raw, err := c.getResult(ctx, endpointFamilyList, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch account data: %w", err)
	}

	var accounts []AccountData
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return fmt.Errorf("%w: family list: %v", ErrInvalidResponseFormat, err)
	}
	c.accounts = accounts

	for i := range c.accounts {
		for j := range c.accounts[i].PetList {
			pet := &c.accounts[i].PetList[j]
			pet.attachDevice(&Device{
				CreatedAt:  pet.CreatedAt,
				DeviceID:   pet.PetID,
				DeviceName: pet.PetName,
				DeviceType: DeviceTypePet,
			})
			c.setEntity(pet.PetID, pet)
		}
	}

	if err := c.fetchPetDetails(ctx); err != nil {
		// Profile decoration is best-effort; the seeded pets remain usable.
		c.logWarn(ctx, "pet_details_failed", slog.String("error", err.Error()))
	}

	c.logDebug(ctx, "account_data_loaded", slog.Int("groups", len(accounts)))
	return nil
}

// fetchPetDetails loads the extended pet profiles from user/details2 and
// attaches them to the seeded pet entities.
func (c *Client) fetchPetDetails(ctx context.Context) error {
	raw, err := c.getResult(ctx, endpointUserDetails, nil)
	if err != nil {
		return err
	}

	var payload struct {
		User struct {
			Dogs []PetDetails `json:"dogs"`
		} `json:"user"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: user details: %v", ErrInvalidResponseFormat, err)
	}

	for i := range payload.User.Dogs {
		details := &payload.User.Dogs[i]
		entity, ok := c.Entity(details.ID)
		if !ok {
			continue
		}
		if pet, ok := entity.(*Pet); ok {
			pet.Details = details
		}
	}
	return nil
}

// collectDevices flattens the account family groups into one device list.
func (c *Client) collectDevices() []*Device {
	var devices []*Device
	for i := range c.accounts {
		for j := range c.accounts[i].DeviceList {
			devices = append(devices, &c.accounts[i].DeviceList[j])
		}
	}
	return devices
}

// Accounts returns the loaded family groups, fetching them on first use.
func (c *Client) Accounts(ctx context.Context) ([]AccountData, error) {
	if len(c.accounts) == 0 {
		if err := c.fetchAccountData(ctx); err != nil {
			return nil, err
		}
	}
	return c.accounts, nil
}
