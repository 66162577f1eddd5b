package petkit

// Device type tags as reported by the API (always lowercase).
const (
	DeviceTypeFeeder     = "feeder"
	DeviceTypeFeederMini = "feedermini"
	DeviceTypeD3         = "d3"
	DeviceTypeD4         = "d4"
	DeviceTypeD4S        = "d4s"
	DeviceTypeD4H        = "d4h"
	DeviceTypeD4SH       = "d4sh"
	DeviceTypeT3         = "t3"
	DeviceTypeT4         = "t4"
	DeviceTypeT5         = "t5"
	DeviceTypeT6         = "t6"
	DeviceTypeT7         = "t7"
	DeviceTypeW4         = "w4"
	DeviceTypeW5         = "w5"
	DeviceTypeCTW2       = "ctw2"
	DeviceTypeCTW3       = "ctw3"
	DeviceTypeK2         = "k2"
	DeviceTypeK3         = "k3"
	DeviceTypePet        = "pet"
)

// DeviceCategory is the capability class a device type tag belongs to.
// It determines which data categories the task planner schedules.
type DeviceCategory int

// Device categories.
const (
	CategoryUnknown DeviceCategory = iota
	CategoryFeeder
	CategoryFeederWithCamera
	CategoryLitterNoCamera
	CategoryLitterWithCamera
	CategoryWaterFountain
	CategoryPurifier
)

// String returns the category name.
func (c DeviceCategory) String() string {
	switch c {
	case CategoryFeeder:
		return "feeder"
	case CategoryFeederWithCamera:
		return "feeder-with-camera"
	case CategoryLitterNoCamera:
		return "litter-no-camera"
	case CategoryLitterWithCamera:
		return "litter-with-camera"
	case CategoryWaterFountain:
		return "water-fountain"
	case CategoryPurifier:
		return "purifier"
	default:
		return "unknown"
	}
}

// Static category membership sets. New device generations the library does
// not know about classify as unknown and are skipped, not rejected.
var (
	feederDevices = map[string]bool{
		DeviceTypeFeeder:     true,
		DeviceTypeFeederMini: true,
		DeviceTypeD3:         true,
		DeviceTypeD4:         true,
		DeviceTypeD4S:        true,
		DeviceTypeD4H:        true,
		DeviceTypeD4SH:       true,
	}
	feederCameraDevices = map[string]bool{
		DeviceTypeD4H:  true,
		DeviceTypeD4SH: true,
	}
	litterDevices = map[string]bool{
		DeviceTypeT3: true,
		DeviceTypeT4: true,
		DeviceTypeT5: true,
		DeviceTypeT6: true,
		DeviceTypeT7: true,
	}
	litterCameraDevices = map[string]bool{
		DeviceTypeT5: true,
		DeviceTypeT6: true,
		DeviceTypeT7: true,
	}
	waterFountainDevices = map[string]bool{
		DeviceTypeW4:   true,
		DeviceTypeW5:   true,
		DeviceTypeCTW2: true,
		DeviceTypeCTW3: true,
	}
	purifierDevices = map[string]bool{
		DeviceTypeK2: true,
		DeviceTypeK3: true,
	}
)

// ClassifyDevice maps a device type tag to its capability category.
// Unknown tags return CategoryUnknown; callers skip those devices silently
// for forward compatibility with unseen models.
func ClassifyDevice(deviceType string) DeviceCategory {
	deviceType = normalizeDeviceType(deviceType)
	switch {
	case feederCameraDevices[deviceType]:
		return CategoryFeederWithCamera
	case feederDevices[deviceType]:
		return CategoryFeeder
	case litterCameraDevices[deviceType]:
		return CategoryLitterWithCamera
	case litterDevices[deviceType]:
		return CategoryLitterNoCamera
	case waterFountainDevices[deviceType]:
		return CategoryWaterFountain
	case purifierDevices[deviceType]:
		return CategoryPurifier
	default:
		return CategoryUnknown
	}
}
