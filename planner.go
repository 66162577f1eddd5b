package petkit

// fetchOp is one planned fetch operation: a device paired with the payload
// to request for it.
type fetchOp struct {
	device  *Device
	payload payloadType
}

// fetchPlan holds the four ordered operation batches of one refresh cycle.
// Batches execute strictly main -> records -> media -> live; operations
// within a batch run concurrently, in device discovery order.
type fetchPlan struct {
	main    []fetchOp
	records []fetchOp
	media   []fetchOp
	live    []fetchOp
}

// planFetchOps builds the fetch batches for the given devices. Every
// feeder, litter and fountain device gets one main and one records op;
// purifiers get main only; camera-equipped devices additionally get media
// and live ops, and litter boxes a stats or pet-out-graph op depending on
// generation. Devices with an unknown type tag are skipped.
func planFetchOps(devices []*Device) fetchPlan {
	var plan fetchPlan
	for _, device := range devices {
		switch ClassifyDevice(device.DeviceType) {
		case CategoryFeeder:
			plan.main = append(plan.main, fetchOp{device, payloadFeeder})
			plan.records = append(plan.records, fetchOp{device, payloadFeederRecords})

		case CategoryFeederWithCamera:
			plan.main = append(plan.main, fetchOp{device, payloadFeeder})
			plan.records = append(plan.records, fetchOp{device, payloadFeederRecords})
			plan.media = append(plan.media, fetchOp{device, payloadMedia})
			plan.live = append(plan.live, fetchOp{device, payloadLiveFeed})

		case CategoryLitterNoCamera:
			plan.main = append(plan.main, fetchOp{device, payloadLitter})
			plan.records = append(plan.records, fetchOp{device, payloadLitterRecords})
			plan.records = append(plan.records, fetchOp{device, payloadLitterStats})

		case CategoryLitterWithCamera:
			plan.main = append(plan.main, fetchOp{device, payloadLitter})
			plan.records = append(plan.records, fetchOp{device, payloadLitterRecords})
			plan.records = append(plan.records, fetchOp{device, payloadPetOutGraph})
			plan.media = append(plan.media, fetchOp{device, payloadMedia})
			plan.live = append(plan.live, fetchOp{device, payloadLiveFeed})

		case CategoryWaterFountain:
			plan.main = append(plan.main, fetchOp{device, payloadWaterFountain})
			plan.records = append(plan.records, fetchOp{device, payloadWaterFountainRecords})

		case CategoryPurifier:
			plan.main = append(plan.main, fetchOp{device, payloadPurifier})
		}
	}
	return plan
}
