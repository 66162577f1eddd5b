package petkit

// FeederSettings holds the user-configurable feeder options.
type FeederSettings struct {
	Camera         *int `json:"camera,omitempty"`
	FeedNotify     *int `json:"feedNotify,omitempty"`
	FoodNotify     *int `json:"foodNotify,omitempty"`
	LightMode      *int `json:"lightMode,omitempty"`
	ManualLock     *int `json:"manualLock,omitempty"`
	Microphone     *int `json:"microphone,omitempty"`
	NightVision    *int `json:"night,omitempty"`
	SurplusControl *int `json:"surplusControl,omitempty"`
	Volume         *int `json:"volume,omitempty"`
}

// FeederState holds the feeder's reported runtime state.
type FeederState struct {
	Battery      *int  `json:"batteryPower,omitempty"`
	BatteryState *int  `json:"batteryStatus,omitempty"`
	Camera       *int  `json:"cameraStatus,omitempty"`
	Desiccant    *int  `json:"desiccantLeftDays,omitempty"`
	Food         *int  `json:"food,omitempty"`
	Ota          *int  `json:"ota,omitempty"`
	Overall      *int  `json:"overall,omitempty"`
	Pim          *int  `json:"pim,omitempty"`
	Runtime      *int  `json:"runtime,omitempty"`
	Wifi         *Wifi `json:"wifi,omitempty"`
}

// Feeder is the entity for feeder devices (with or without camera).
type Feeder struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name,omitempty"`
	SN           string          `json:"sn,omitempty"`
	Firmware     string          `json:"firmware,omitempty"`
	Timezone     float64         `json:"timezone,omitempty"`
	Locale       string          `json:"locale,omitempty"`
	Settings     *FeederSettings `json:"settings,omitempty"`
	State        *FeederState    `json:"state,omitempty"`
	CloudProduct *CloudProduct   `json:"cloudProduct,omitempty"`

	DeviceNfo     *Device        `json:"-"`
	DeviceRecords []FeederRecord `json:"-"`
	LiveFeed      *LiveFeed      `json:"-"`
	Medias        []MediaFile    `json:"-"`
}

// EntityKind implements Entity.
func (f *Feeder) EntityKind() EntityKind { return EntityFeeder }

// DeviceInfo implements Entity.
func (f *Feeder) DeviceInfo() *Device { return f.DeviceNfo }

func (f *Feeder) attachDevice(d *Device) { f.DeviceNfo = d }

// FeederRecordContent is the nested payload of one feeding event.
type FeederRecordContent struct {
	AddAmount  *int   `json:"addAmount,omitempty"`
	RealAmount *int   `json:"realAmount,omitempty"`
	Time       *int64 `json:"time,omitempty"`
	Name       string `json:"name,omitempty"`
}

// FeederRecord is one immutable feeding or eating event.
type FeederRecord struct {
	DeviceID  int64                `json:"deviceId,omitempty"`
	EventID   string               `json:"eventId,omitempty"`
	PetID     int64                `json:"petId,omitempty"`
	Timestamp *int64               `json:"timestamp,omitempty"`
	Duration  *int64               `json:"duration,omitempty"`
	EventType string               `json:"eventType,omitempty"`
	Content   *FeederRecordContent `json:"content,omitempty"`
}
