package petkit

// EntityKind identifies the variant held in the entity map.
type EntityKind string

// Entity variants.
const (
	EntityFeeder        EntityKind = "feeder"
	EntityLitter        EntityKind = "litter"
	EntityWaterFountain EntityKind = "waterFountain"
	EntityPurifier      EntityKind = "purifier"
	EntityPet           EntityKind = "pet"
)

// Entity is the unified per-device state object held in the shared map.
// It is a closed sum over Feeder, Litter, WaterFountain, Purifier and Pet;
// the unexported method keeps the set of variants fixed to this package.
type Entity interface {
	// EntityKind reports the variant.
	EntityKind() EntityKind
	// DeviceInfo returns the device metadata the entity was fetched for.
	DeviceInfo() *Device

	attachDevice(*Device)
}

// EntityKind implements Entity.
func (p *Pet) EntityKind() EntityKind { return EntityPet }

// DeviceInfo implements Entity.
func (p *Pet) DeviceInfo() *Device { return p.DeviceNfo }

func (p *Pet) attachDevice(d *Device) { p.DeviceNfo = d }

// Entity returns the entity for the given device id, if present.
// The returned entity is shared; callers must not mutate it during a
// running refresh cycle.
func (c *Client) Entity(deviceID int64) (Entity, bool) {
	c.entityMu.RLock()
	defer c.entityMu.RUnlock()
	e, ok := c.entities[deviceID]
	return e, ok
}

// Entities returns a snapshot of the entity map keyed by device id.
func (c *Client) Entities() map[int64]Entity {
	c.entityMu.RLock()
	defer c.entityMu.RUnlock()
	out := make(map[int64]Entity, len(c.entities))
	for id, e := range c.entities {
		out[id] = e
	}
	return out
}

// ListPets returns every Pet entity known to the client.
func (c *Client) ListPets() []*Pet {
	c.entityMu.RLock()
	defer c.entityMu.RUnlock()
	var pets []*Pet
	for _, e := range c.entities {
		if pet, ok := e.(*Pet); ok {
			pets = append(pets, pet)
		}
	}
	return pets
}

// setEntity replaces the entity map entry for the given device id.
func (c *Client) setEntity(deviceID int64, e Entity) {
	c.entityMu.Lock()
	c.entities[deviceID] = e
	c.entityMu.Unlock()
}

// litterEntities returns every Litter entity in the map.
func (c *Client) litterEntities() []*Litter {
	c.entityMu.RLock()
	defer c.entityMu.RUnlock()
	var litters []*Litter
	for _, e := range c.entities {
		if l, ok := e.(*Litter); ok {
			litters = append(litters, l)
		}
	}
	return litters
}
