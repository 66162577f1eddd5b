package petkit

import (
	"net/url"
	"strconv"
)

// Vendor endpoint paths, relative to the device type segment unless noted.
const (
	endpointRegionServers  = "v1/regionservers"
	endpointLogin          = "user/login"
	endpointLoginCode      = "user/sendcodeforquicklogin"
	endpointRefreshSession = "user/refreshsession"
	endpointUserDetails    = "user/details2"
	endpointIotDeviceInfo  = "user/iotDeviceInfo_v2"
	endpointFamilyList     = "group/family/list"

	endpointDeviceDetail           = "device_detail"
	endpointGetDeviceRecord        = "getDeviceRecord"
	endpointGetDeviceRecordRelease = "getDeviceRecordRelease"
	endpointStatistic              = "statistic"
	endpointGetPetOutGraph         = "getPetOutGraph"
	endpointGetWorkRecord          = "getWorkRecord"
	endpointDailyFeedAndEat        = "dailyFeedAndEat"
	endpointFeedStatistic          = "feedStatistic"
	endpointDailyFeeds             = "dailyFeeds"
	endpointLive                   = "start/live"
)

// dataCategory is the kind of data an operation fetches. Dispatch routes
// payloads to the entity graph by this category.
type dataCategory int

const (
	categoryMainData dataCategory = iota
	categoryRecords
	categoryStats
	categoryLive
	categoryMedia
)

// String returns the category name for logs.
func (c dataCategory) String() string {
	switch c {
	case categoryMainData:
		return "deviceData"
	case categoryRecords:
		return "deviceRecords"
	case categoryStats:
		return "deviceStats"
	case categoryLive:
		return "liveData"
	case categoryMedia:
		return "mediaData"
	default:
		return "unknown"
	}
}

// payloadType identifies the typed payload one fetch operation produces.
type payloadType int

const (
	payloadFeeder payloadType = iota
	payloadFeederRecords
	payloadLitter
	payloadLitterRecords
	payloadLitterStats
	payloadPetOutGraph
	payloadWaterFountain
	payloadWaterFountainRecords
	payloadPurifier
	payloadLiveFeed
	payloadMedia
)

// String returns the payload name for logs.
func (p payloadType) String() string {
	switch p {
	case payloadFeeder:
		return "feeder"
	case payloadFeederRecords:
		return "feederRecords"
	case payloadLitter:
		return "litter"
	case payloadLitterRecords:
		return "litterRecords"
	case payloadLitterStats:
		return "litterStats"
	case payloadPetOutGraph:
		return "petOutGraph"
	case payloadWaterFountain:
		return "waterFountain"
	case payloadWaterFountainRecords:
		return "waterFountainRecords"
	case payloadPurifier:
		return "purifier"
	case payloadLiveFeed:
		return "liveFeed"
	case payloadMedia:
		return "media"
	default:
		return "unknown"
	}
}

// payloadSpec describes how to fetch and decode one payload type: the
// endpoint per device type (empty means the generation does not expose it),
// the query parameters, and the typed decoder.
type payloadSpec struct {
	category dataCategory
	endpoint func(deviceType string) string
	params   func(c *Client, device *Device, existing Entity) url.Values
	decode   func(raw []byte) (any, error)
}

// defaultPayloads builds the payload descriptor table. It is constructed
// once in NewClient and never mutated afterwards.
func defaultPayloads() map[payloadType]payloadSpec {
	return map[payloadType]payloadSpec{
		payloadFeeder: {
			category: categoryMainData,
			endpoint: func(string) string { return endpointDeviceDetail },
			params:   deviceIDParams,
			decode:   decodeEntityPayload[Feeder],
		},
		payloadFeederRecords: {
			category: categoryRecords,
			endpoint: func(deviceType string) string {
				// Record endpoints are generation-specific; first-generation
				// feeders expose none.
				switch deviceType {
				case DeviceTypeD3:
					return endpointDailyFeedAndEat
				case DeviceTypeD4:
					return endpointFeedStatistic
				case DeviceTypeD4S:
					return endpointDailyFeeds
				case DeviceTypeD4H, DeviceTypeD4SH:
					return endpointGetDeviceRecord
				default:
					return ""
				}
			},
			params: dayScopedParams,
			decode: decodeRecordsPayload[FeederRecord],
		},
		payloadLitter: {
			category: categoryMainData,
			endpoint: func(string) string { return endpointDeviceDetail },
			params:   deviceIDParams,
			decode:   decodeEntityPayload[Litter],
		},
		payloadLitterRecords: {
			category: categoryRecords,
			endpoint: func(deviceType string) string {
				if deviceType == DeviceTypeT6 {
					return endpointGetDeviceRecordRelease
				}
				return endpointGetDeviceRecord
			},
			params: dayScopedParams,
			decode: decodeRecordsPayload[LitterRecord],
		},
		payloadLitterStats: {
			category: categoryStats,
			endpoint: func(string) string { return endpointStatistic },
			params: func(c *Client, device *Device, _ Entity) url.Values {
				v := dayScopedParams(c, device, nil)
				v.Set("type", "0")
				return v
			},
			decode: decodeRecordsPayload[LitterStats],
		},
		payloadPetOutGraph: {
			category: categoryStats,
			endpoint: func(string) string { return endpointGetPetOutGraph },
			params:   dayScopedParams,
			decode:   decodeRecordsPayload[PetOutGraph],
		},
		payloadWaterFountain: {
			category: categoryMainData,
			endpoint: func(string) string { return endpointDeviceDetail },
			params:   deviceIDParams,
			decode:   decodeEntityPayload[WaterFountain],
		},
		payloadWaterFountainRecords: {
			category: categoryRecords,
			endpoint: func(string) string { return endpointGetWorkRecord },
			params: func(c *Client, device *Device, existing Entity) url.Values {
				v := dayScopedParams(c, device, existing)
				// Resume from the newest record already held for this device.
				if wf, ok := existing.(*WaterFountain); ok {
					if last := lastFountainRecordTime(wf.DeviceRecords); last > 0 {
						v.Set("startTime", strconv.FormatInt(last, 10))
					}
				}
				return v
			},
			decode: decodeRecordsPayload[WaterFountainRecord],
		},
		payloadPurifier: {
			category: categoryMainData,
			endpoint: func(string) string { return endpointDeviceDetail },
			params:   deviceIDParams,
			decode:   decodeEntityPayload[Purifier],
		},
		payloadLiveFeed: {
			category: categoryLive,
			endpoint: func(string) string { return endpointLive },
			params: func(_ *Client, device *Device, _ Entity) url.Values {
				v := url.Values{}
				v.Set("deviceId", strconv.FormatInt(device.DeviceID, 10))
				v.Set("definition", "2")
				return v
			},
			decode: decodeEntityPayload[LiveFeed],
		},
		// payloadMedia has no endpoint entry: the executor hands it to the
		// media fetcher collaborator instead of the HTTP path.
		payloadMedia: {
			category: categoryMedia,
		},
	}
}

// deviceIDParams is the main-data query: the bare device id.
func deviceIDParams(_ *Client, device *Device, _ Entity) url.Values {
	v := url.Values{}
	v.Set("id", strconv.FormatInt(device.DeviceID, 10))
	return v
}

// dayScopedParams is the record/stat query: device id plus the current day
// in the client's configured timezone.
func dayScopedParams(c *Client, device *Device, _ Entity) url.Values {
	v := url.Values{}
	v.Set("deviceId", strconv.FormatInt(device.DeviceID, 10))
	v.Set("date", c.todayDate())
	return v
}

// lastFountainRecordTime returns the newest record timestamp, or 0.
func lastFountainRecordTime(records []WaterFountainRecord) int64 {
	var last int64
	for _, r := range records {
		if r.Timestamp != nil && *r.Timestamp > last {
			last = *r.Timestamp
		}
	}
	return last
}
