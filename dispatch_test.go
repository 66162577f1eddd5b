package petkit

import (
	"context"
	"reflect"
	"testing"
)

func TestClient_Dispatch_MainData(t *testing.T) {
	client := newTestClient(t, "http://unused")
	device := &Device{DeviceID: 10, DeviceType: DeviceTypeT4}

	litter := &Litter{ID: 10, Name: "snowbox"}
	client.dispatch(context.Background(), categoryMainData, device, litter)

	entity, ok := client.Entity(10)
	if !ok {
		t.Fatal("entity not created by main dispatch")
	}
	if entity.DeviceInfo() != device {
		t.Error("device metadata not re-attached")
	}

	// A second main payload replaces the entry wholesale.
	replacement := &Litter{ID: 10, Name: "newbox"}
	client.dispatch(context.Background(), categoryMainData, device, replacement)
	entity, _ = client.Entity(10)
	if got := entity.(*Litter).Name; got != "newbox" {
		t.Errorf("Name = %q, want newbox", got)
	}
}

func TestClient_Dispatch_Records(t *testing.T) {
	t.Run("sets records on a compatible entity", func(t *testing.T) {
		client := newTestClient(t, "http://unused")
		device := &Device{DeviceID: 11, DeviceType: DeviceTypeT4}
		litter := &Litter{ID: 11}
		litter.attachDevice(device)
		client.setEntity(11, litter)

		records := []LitterRecord{{EventID: "e1"}, {EventID: "e2"}}
		client.dispatch(context.Background(), categoryRecords, device, records)

		if len(litter.DeviceRecords) != 2 {
			t.Errorf("DeviceRecords = %d entries, want 2", len(litter.DeviceRecords))
		}
	})

	t.Run("drops records for an absent entity", func(t *testing.T) {
		client := newTestClient(t, "http://unused")
		device := &Device{DeviceID: 12, DeviceType: DeviceTypeT4}
		client.dispatch(context.Background(), categoryRecords, device, []LitterRecord{{EventID: "e1"}})

		if _, ok := client.Entity(12); ok {
			t.Error("records dispatch created a map entry")
		}
	})

	t.Run("drops records of the wrong variant", func(t *testing.T) {
		client := newTestClient(t, "http://unused")
		device := &Device{DeviceID: 13, DeviceType: DeviceTypeT4}
		litter := &Litter{ID: 13}
		client.setEntity(13, litter)

		client.dispatch(context.Background(), categoryRecords, device, []FeederRecord{{EventID: "f1"}})
		if litter.DeviceRecords != nil {
			t.Error("wrong-variant records were applied")
		}
	})
}

func TestClient_Dispatch_Stats(t *testing.T) {
	t.Run("camera-less litter gets deviceStats", func(t *testing.T) {
		client := newTestClient(t, "http://unused")
		device := &Device{DeviceID: 14, DeviceType: DeviceTypeT4}
		litter := &Litter{ID: 14}
		client.setEntity(14, litter)

		stats := []LitterStats{{PetID: 1, PetName: "mia"}}
		client.dispatch(context.Background(), categoryStats, device, stats)

		if len(litter.DeviceStats) != 1 {
			t.Fatalf("DeviceStats = %d entries, want 1", len(litter.DeviceStats))
		}
		if litter.DevicePetGraphOut != nil {
			t.Error("camera-less litter got a pet-out-graph")
		}
	})

	t.Run("camera litter gets devicePetGraphOut", func(t *testing.T) {
		client := newTestClient(t, "http://unused")
		device := &Device{DeviceID: 15, DeviceType: DeviceTypeT5}
		litter := &Litter{ID: 15}
		client.setEntity(15, litter)

		graph := []PetOutGraph{{PetID: 1, EventID: "e1"}}
		client.dispatch(context.Background(), categoryStats, device, graph)

		if len(litter.DevicePetGraphOut) != 1 {
			t.Fatalf("DevicePetGraphOut = %d entries, want 1", len(litter.DevicePetGraphOut))
		}
		if litter.DeviceStats != nil {
			t.Error("camera litter got deviceStats")
		}
	})

	t.Run("replay is idempotent", func(t *testing.T) {
		client := newTestClient(t, "http://unused")
		device := &Device{DeviceID: 16, DeviceType: DeviceTypeT4}
		litter := &Litter{ID: 16}
		client.setEntity(16, litter)

		stats := []LitterStats{{PetID: 1}, {PetID: 2}}
		client.dispatch(context.Background(), categoryStats, device, stats)
		first := append([]LitterStats(nil), litter.DeviceStats...)

		client.dispatch(context.Background(), categoryStats, device, stats)
		if !reflect.DeepEqual(litter.DeviceStats, first) {
			t.Errorf("stats replay changed state: %+v vs %+v", litter.DeviceStats, first)
		}
		if len(litter.DeviceStats) != 2 {
			t.Errorf("DeviceStats = %d entries after replay, want 2", len(litter.DeviceStats))
		}
	})

	t.Run("drops stats on a non-litter entity", func(t *testing.T) {
		client := newTestClient(t, "http://unused")
		device := &Device{DeviceID: 17, DeviceType: DeviceTypeD4}
		feeder := &Feeder{ID: 17}
		client.setEntity(17, feeder)

		client.dispatch(context.Background(), categoryStats, device, []LitterStats{{PetID: 1}})
		// No panic, no state change; the feeder stays untouched.
		if _, ok := client.Entity(17); !ok {
			t.Error("entity vanished after dropped stats dispatch")
		}
	})

	t.Run("drops stats mismatching the device generation", func(t *testing.T) {
		client := newTestClient(t, "http://unused")
		device := &Device{DeviceID: 18, DeviceType: DeviceTypeT5} // camera
		litter := &Litter{ID: 18}
		client.setEntity(18, litter)

		client.dispatch(context.Background(), categoryStats, device, []LitterStats{{PetID: 1}})
		if litter.DeviceStats != nil {
			t.Error("camera litter accepted camera-less stats")
		}
	})
}

func TestClient_Dispatch_Live(t *testing.T) {
	t.Run("sets live feed on feeder and litter", func(t *testing.T) {
		client := newTestClient(t, "http://unused")

		feederDev := &Device{DeviceID: 20, DeviceType: DeviceTypeD4H}
		feeder := &Feeder{ID: 20}
		client.setEntity(20, feeder)

		litterDev := &Device{DeviceID: 21, DeviceType: DeviceTypeT5}
		litter := &Litter{ID: 21}
		client.setEntity(21, litter)

		feed := &LiveFeed{ChannelID: "ch-1", RtcToken: "tok"}
		client.dispatch(context.Background(), categoryLive, feederDev, feed)
		client.dispatch(context.Background(), categoryLive, litterDev, feed)

		if feeder.LiveFeed == nil || feeder.LiveFeed.ChannelID != "ch-1" {
			t.Errorf("feeder LiveFeed = %+v", feeder.LiveFeed)
		}
		if litter.LiveFeed == nil || litter.LiveFeed.ChannelID != "ch-1" {
			t.Errorf("litter LiveFeed = %+v", litter.LiveFeed)
		}
	})

	t.Run("drops live feed for other variants", func(t *testing.T) {
		client := newTestClient(t, "http://unused")
		device := &Device{DeviceID: 22, DeviceType: DeviceTypeW5}
		client.setEntity(22, &WaterFountain{ID: 22})

		client.dispatch(context.Background(), categoryLive, device, &LiveFeed{ChannelID: "ch"})
		// Fountains have no live feed slot; dispatch must not panic.
	})
}
