package petkit

import (
	"context"
	"log/slog"
)

// Pet fields that are seeded rather than left nil when the account has at
// least one litter box. "Unknown" marks a device name never observed.
const unknownDeviceName = "Unknown"

// reconcilePetStats derives per-pet toileting statistics from the litter
// data collected by the current cycle. Camera-less litter boxes carry the
// usage data directly on their event records; camera-equipped ones split it
// between the pet-out-graph (sessions) and event records (health sensor
// metadata), correlated by event id.
//
// Derived fields only ever advance: a record older than the value already
// held is ignored, so repeated cycles and out-of-order record lists are
// harmless.
func (c *Client) reconcilePetStats(ctx context.Context) {
	litters := c.litterEntities()
	pets := c.ListPets()
	if len(litters) == 0 || len(pets) == 0 {
		return
	}

	for _, pet := range pets {
		for _, litter := range litters {
			c.seedPetStats(pet, litter)

			device := litter.DeviceInfo()
			if device == nil {
				c.logWarn(ctx, "stats_litter_missing_device", slog.Int64("litter_id", litter.ID))
				continue
			}

			switch ClassifyDevice(device.DeviceType) {
			case CategoryLitterNoCamera:
				c.applyLitterRecords(pet, litter)
			case CategoryLitterWithCamera:
				c.applyPetOutGraph(pet, litter)
				c.applyHealthMetadata(pet, litter)
			}
		}
	}
}

// seedPetStats initializes the derived fields a litter box can ever
// populate, so consumers see zero values instead of absent attributes. Each
// group is seeded only while it is entirely unset: once any field of a group
// holds data, the whole group is left alone, so a pH reading an event
// explicitly cleared to nil is not re-seeded on the next cycle. The yowling
// and pH groups also require the corresponding sensor to be enabled in the
// device settings.
func (c *Client) seedPetStats(pet *Pet, litter *Litter) {
	if pet.LastLitterUsage == nil && pet.LastDeviceUsed == nil &&
		pet.LastDurationUsage == nil && pet.LastMeasuredWeight == nil {
		pet.LastLitterUsage = ptrInt64(0)
		pet.LastDeviceUsed = ptrString(unknownDeviceName)
		pet.LastDurationUsage = ptrInt64(0)
		pet.LastMeasuredWeight = ptrInt(0)
	}

	if litter.Settings == nil {
		return
	}

	if safeInt(litter.Settings.Voice) == 1 && pet.YowlingDetected == nil {
		pet.YowlingDetected = ptrInt(0)
	}

	if safeInt(litter.Settings.PhDetection) == 1 &&
		pet.AbnormalPhDetected == nil && pet.MeasuredPh == nil &&
		pet.SoftStoolDetected == nil && pet.LastUrination == nil &&
		pet.LastDefecation == nil {
		pet.AbnormalPhDetected = ptrInt(0)
		pet.MeasuredPh = ptrFloat64(7)
		pet.SoftStoolDetected = ptrInt(0)
		pet.LastUrination = ptrInt64(0)
		pet.LastDefecation = ptrInt64(0)
	}
}

// applyLitterRecords scans a camera-less litter box's event records for the
// pet's newest toileting event and updates the usage fields from it. Fields
// the record does not carry keep their previously held values.
func (c *Client) applyLitterRecords(pet *Pet, litter *Litter) {
	for i := range litter.DeviceRecords {
		record := &litter.DeviceRecords[i]
		if record.PetID != pet.PetID || record.Timestamp == nil {
			continue
		}
		if !newerThan(*record.Timestamp, pet.LastLitterUsage) {
			continue
		}

		pet.LastLitterUsage = ptrInt64(*record.Timestamp)
		pet.LastDeviceUsed = ptrString(capitalize(litter.DeviceNfo.DeviceName))
		if record.Content != nil {
			pet.LastDurationUsage = ptrInt64(calculateDuration(record.Content.TimeIn, record.Content.TimeOut))
			if record.Content.PetWeight != nil {
				pet.LastMeasuredWeight = ptrInt(*record.Content.PetWeight)
			}
		}
	}
}

// applyPetOutGraph scans a camera-equipped litter box's pet-out-graph for
// the pet's newest session, updating the usage fields and remembering the
// session's event id for health metadata correlation. The recorded usage
// timestamp comes from the session content, not the entry itself; fields the
// entry does not carry keep their previously held values.
func (c *Client) applyPetOutGraph(pet *Pet, litter *Litter) {
	for i := range litter.DevicePetGraphOut {
		entry := &litter.DevicePetGraphOut[i]
		if entry.PetID != pet.PetID || entry.Time == nil {
			continue
		}
		if !newerThan(*entry.Time, pet.LastLitterUsage) {
			continue
		}

		pet.LastDeviceUsed = ptrString(capitalize(litter.DeviceNfo.DeviceName))
		if entry.Content != nil {
			if entry.Content.Time != nil {
				pet.LastLitterUsage = ptrInt64(*entry.Content.Time)
			}
			if entry.Content.PetWeight != nil {
				pet.LastMeasuredWeight = ptrInt(*entry.Content.PetWeight)
			}
		}
		if entry.ToiletTime != nil {
			pet.LastDurationUsage = ptrInt64(*entry.ToiletTime)
		}
		if entry.EventID != "" {
			pet.LastEventID = ptrString(entry.EventID)
		}
	}
}

// applyHealthMetadata correlates the pet's latest session (by event id)
// with the litter box's event records to extract the health-sensor
// measurements: yowling, pH, stool consistency and elimination times.
func (c *Client) applyHealthMetadata(pet *Pet, litter *Litter) {
	if pet.LastEventID == nil {
		return
	}

	for i := range litter.DeviceRecords {
		record := &litter.DeviceRecords[i]
		if record.PetID != pet.PetID || record.EventID != *pet.LastEventID {
			continue
		}

		if record.Content != nil && record.Content.PetVoice != nil {
			pet.YowlingDetected = ptrInt(*record.Content.PetVoice)
		} else {
			pet.YowlingDetected = ptrInt(0)
		}

		// Only the first sub-event of a record carries the health sensor
		// measurements; later entries repeat camera metadata.
		if len(record.SubContent) == 0 {
			continue
		}
		detail := record.SubContent[0].Content
		if detail == nil {
			continue
		}

		if detail.PhState != nil {
			pet.AbnormalPhDetected = ptrInt(*detail.PhState)
		}
		// An event without samples explicitly clears the reading.
		pet.MeasuredPh = meanPh(detail.DetectionInfo)
		if detail.SoftStools != nil {
			pet.SoftStoolDetected = ptrInt(*detail.SoftStools)
		}

		if record.Timestamp != nil {
			if safeInt(detail.UrineBolus) == 1 {
				pet.LastUrination = ptrInt64(*record.Timestamp)
			}
			if safeInt(detail.HardStools) == 1 {
				pet.LastDefecation = ptrInt64(*record.Timestamp)
			}
		}
	}
}

// newerThan reports whether candidate is strictly newer than the currently
// held timestamp. A nil current value always accepts.
func newerThan(candidate int64, current *int64) bool {
	return current == nil || candidate > *current
}

// meanPh averages the pH samples of one event, or returns nil when the
// event carried none.
func meanPh(samples []PhDetection) *float64 {
	if len(samples) == 0 {
		return nil
	}
	var sum float64
	for _, s := range samples {
		sum += s.Ph
	}
	mean := sum / float64(len(samples))
	return &mean
}
