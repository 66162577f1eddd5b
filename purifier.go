package petkit

// PurifierSettings holds the user-configurable purifier options.
type PurifierSettings struct {
	Lighting *int `json:"lighting,omitempty"`
	Mode     *int `json:"mode,omitempty"`
	Sound    *int `json:"sound,omitempty"`
}

// PurifierState holds the purifier's reported runtime state.
type PurifierState struct {
	Humidity    *int  `json:"humidity,omitempty"`
	LiquidLevel *int  `json:"liquid,omitempty"`
	Ota         *int  `json:"ota,omitempty"`
	Pim         *int  `json:"pim,omitempty"`
	Temperature *int  `json:"temp,omitempty"`
	Wifi        *Wifi `json:"wifi,omitempty"`
}

// Purifier is the entity for air purifier devices. Purifiers expose only
// main state data; no record, stat or live categories apply.
type Purifier struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name,omitempty"`
	SN       string            `json:"sn,omitempty"`
	Firmware string            `json:"firmware,omitempty"`
	Settings *PurifierSettings `json:"settings,omitempty"`
	State    *PurifierState    `json:"state,omitempty"`

	DeviceNfo *Device `json:"-"`
}

// EntityKind implements Entity.
func (p *Purifier) EntityKind() EntityKind { return EntityPurifier }

// DeviceInfo implements Entity.
func (p *Purifier) DeviceInfo() *Device { return p.DeviceNfo }

func (p *Purifier) attachDevice(d *Device) { p.DeviceNfo = d }
