package petkit

// WaterFountainSettings holds the user-configurable fountain options.
type WaterFountainSettings struct {
	Lamp      *int `json:"lamp,omitempty"`
	LightMode *int `json:"lightMode,omitempty"`
	Mode      *int `json:"mode,omitempty"`
	Smart     *int `json:"smartTime,omitempty"`
}

// WaterFountainState holds the fountain's reported runtime state.
type WaterFountainState struct {
	Battery        *int  `json:"batteryPower,omitempty"`
	FilterLeftDays *int  `json:"filterLeftDays,omitempty"`
	PumpRunTime    *int  `json:"pumpRunTime,omitempty"`
	Runtime        *int  `json:"runtime,omitempty"`
	WaterLevel     *int  `json:"waterLevel,omitempty"`
	Wifi           *Wifi `json:"wifi,omitempty"`
}

// WaterFountain is the entity for water fountain devices.
type WaterFountain struct {
	ID       int64                  `json:"id"`
	Name     string                 `json:"name,omitempty"`
	SN       string                 `json:"sn,omitempty"`
	Firmware string                 `json:"firmware,omitempty"`
	Settings *WaterFountainSettings `json:"settings,omitempty"`
	State    *WaterFountainState    `json:"state,omitempty"`

	DeviceNfo     *Device               `json:"-"`
	DeviceRecords []WaterFountainRecord `json:"-"`
}

// EntityKind implements Entity.
func (w *WaterFountain) EntityKind() EntityKind { return EntityWaterFountain }

// DeviceInfo implements Entity.
func (w *WaterFountain) DeviceInfo() *Device { return w.DeviceNfo }

func (w *WaterFountain) attachDevice(d *Device) { w.DeviceNfo = d }

// WaterFountainRecord is one pump work record entry.
type WaterFountainRecord struct {
	DeviceID     int64  `json:"deviceId,omitempty"`
	DurationTime *int   `json:"durationTime,omitempty"`
	Timestamp    *int64 `json:"timestamp,omitempty"`
	WorkType     *int   `json:"workType,omitempty"`
}
