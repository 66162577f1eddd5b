package petkit

// LitterSettings holds the user-configurable litter box options.
// Voice and PhDetection gate which derived pet fields the reconciler seeds.
type LitterSettings struct {
	AutoWork         *int `json:"autoWork,omitempty"`
	AvoidRepeat      *int `json:"avoidRepeat,omitempty"`
	Camera           *int `json:"camera,omitempty"`
	DeepClean        *int `json:"deepClean,omitempty"`
	KitNotify        *int `json:"kitNotify,omitempty"`
	LightMode        *int `json:"lightMode,omitempty"`
	ManualLock       *int `json:"manualLock,omitempty"`
	PhDetection      *int `json:"phDetection,omitempty"`
	SandType         *int `json:"sandType,omitempty"`
	StillTime        *int `json:"stillTime,omitempty"`
	UnderweightAlert *int `json:"underweight,omitempty"`
	Voice            *int `json:"voice,omitempty"`
}

// LitterState holds the litter box's reported runtime state.
type LitterState struct {
	Box               *int  `json:"box,omitempty"`
	BoxFull           *bool `json:"boxFull,omitempty"`
	DeodorantLeftDays *int  `json:"deodorantLeftDays,omitempty"`
	Error             *int  `json:"error,omitempty"`
	Liquid            *int  `json:"liquid,omitempty"`
	LitterPercent     *int  `json:"litterPercent,omitempty"`
	Ota               *int  `json:"ota,omitempty"`
	Overall           *int  `json:"overall,omitempty"`
	Pim               *int  `json:"pim,omitempty"`
	SandPercent       *int  `json:"sandPercent,omitempty"`
	SandWeight        *int  `json:"sandWeight,omitempty"`
	UsedTimes         *int  `json:"usedTimes,omitempty"`
	Wifi              *Wifi `json:"wifi,omitempty"`
}

// Litter is the entity for litter box devices. DeviceStats is populated for
// camera-less generations and DevicePetGraphOut for camera-equipped ones;
// the two are mutually exclusive by device sub-type.
type Litter struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name,omitempty"`
	SN           string          `json:"sn,omitempty"`
	Firmware     string          `json:"firmware,omitempty"`
	Timezone     float64         `json:"timezone,omitempty"`
	Locale       string          `json:"locale,omitempty"`
	Settings     *LitterSettings `json:"settings,omitempty"`
	State        *LitterState    `json:"state,omitempty"`
	CloudProduct *CloudProduct   `json:"cloudProduct,omitempty"`

	DeviceNfo         *Device        `json:"-"`
	DeviceRecords     []LitterRecord `json:"-"`
	DeviceStats       []LitterStats  `json:"-"`
	DevicePetGraphOut []PetOutGraph  `json:"-"`
	LiveFeed          *LiveFeed      `json:"-"`
	Medias            []MediaFile    `json:"-"`
}

// EntityKind implements Entity.
func (l *Litter) EntityKind() EntityKind { return EntityLitter }

// DeviceInfo implements Entity.
func (l *Litter) DeviceInfo() *Device { return l.DeviceNfo }

func (l *Litter) attachDevice(d *Device) { l.DeviceNfo = d }

// PhDetection is one pH sample from the health sensor.
type PhDetection struct {
	Ph float64 `json:"ph"`
}

// LitterSubContentDetail is the health-sensor payload nested in a toileting
// record's sub-content (camera-equipped generations only).
type LitterSubContentDetail struct {
	DetectionInfo []PhDetection `json:"detectionInfo,omitempty"`
	HardStools    *int          `json:"hardStools,omitempty"`
	PhState       *int          `json:"phState,omitempty"`
	SoftStools    *int          `json:"softStools,omitempty"`
	UrineBolus    *int          `json:"urineBolus,omitempty"`
}

// LitterSubContent wraps one sub-event attached to a toileting record.
type LitterSubContent struct {
	Content   *LitterSubContentDetail `json:"content,omitempty"`
	EventType string                  `json:"eventType,omitempty"`
	Timestamp *int64                  `json:"timestamp,omitempty"`
}

// LitterRecordContent is the nested payload of one toileting event.
type LitterRecordContent struct {
	Area      *int   `json:"area,omitempty"`
	AutoClear *int   `json:"autoClear,omitempty"`
	PetVoice  *int   `json:"petVoice,omitempty"`
	PetWeight *int   `json:"petWeight,omitempty"`
	TimeIn    *int64 `json:"timeIn,omitempty"`
	TimeOut   *int64 `json:"timeOut,omitempty"`
}

// LitterRecord is one immutable point-in-time litter box event.
type LitterRecord struct {
	DeviceID   int64                `json:"deviceId,omitempty"`
	EventID    string               `json:"eventId,omitempty"`
	EventType  string               `json:"eventType,omitempty"`
	PetID      int64                `json:"petId,omitempty"`
	Timestamp  *int64               `json:"timestamp,omitempty"`
	Content    *LitterRecordContent `json:"content,omitempty"`
	SubContent []LitterSubContent   `json:"subContent,omitempty"`
}

// LitterStats is one aggregated usage entry from the statistic endpoint
// (camera-less generations).
type LitterStats struct {
	AvgTime       *int   `json:"avgTime,omitempty"`
	PetID         int64  `json:"petId,omitempty"`
	PetName       string `json:"petName,omitempty"`
	PetWeight     *int   `json:"petWeight,omitempty"`
	StatisticDate string `json:"statisticDate,omitempty"`
	Times         *int   `json:"times,omitempty"`
	TotalTime     *int   `json:"totalTime,omitempty"`
}

// PetOutGraphContent is the nested payload of one pet-out-graph entry.
type PetOutGraphContent struct {
	PetWeight *int   `json:"petWeight,omitempty"`
	Time      *int64 `json:"time,omitempty"`
}

// PetOutGraph is one toileting session entry from the pet-out-graph endpoint
// (camera-equipped generations). EventID correlates the session with the
// health-sensor metadata in the matching LitterRecord.
type PetOutGraph struct {
	Content    *PetOutGraphContent `json:"content,omitempty"`
	EventID    string              `json:"eventId,omitempty"`
	PetID      int64               `json:"petId,omitempty"`
	Time       *int64              `json:"time,omitempty"`
	ToiletTime *int64              `json:"toiletTime,omitempty"`
}
