package petkit

import (
	"encoding/json"
	"strings"
	"time"
)

// RegionInfo describes one regional API server from /v1/regionservers.
type RegionInfo struct {
	AccountType string `json:"accountType"`
	Gateway     string `json:"gateway"`
	ID          string `json:"id"`
	Name        string `json:"name"`
}

// SessionInfo holds the authenticated session returned by user/login,
// user/sendcodeforquicklogin and user/refreshsession.
type SessionInfo struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	ExpiresIn int    `json:"expiresIn"`
	Region    string `json:"region,omitempty"`
	CreatedAt string `json:"createdAt"`

	// RefreshedAt is set locally when a refresh succeeds; it takes
	// precedence over CreatedAt for expiry accounting.
	RefreshedAt time.Time `json:"-"`
}

// Device is the device metadata entry from the account's family list.
// Identity is DeviceID, globally unique within an account.
type Device struct {
	CreatedAt  int64  `json:"createdAt"`
	DeviceID   int64  `json:"deviceId"`
	DeviceName string `json:"deviceName"`
	DeviceType string `json:"deviceType"`
	GroupID    int64  `json:"groupId"`
	Type       int    `json:"type"`
	TypeCode   int    `json:"typeCode"`
	UniqueID   string `json:"uniqueId"`
}

// UnmarshalJSON normalizes the free-form fields the API returns: deviceType
// and uniqueId are lowercased, and a missing or blank name falls back to
// "unnamed_device" to avoid empty display names downstream.
func (d *Device) UnmarshalJSON(data []byte) error {
	type alias Device
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = Device(a)
	d.DeviceType = strings.ToLower(d.DeviceType)
	d.UniqueID = strings.ToLower(d.UniqueID)
	if strings.TrimSpace(d.DeviceName) == "" {
		d.DeviceName = "unnamed_device"
	} else {
		d.DeviceName = strings.ToLower(d.DeviceName)
	}
	return nil
}

// PetDetails carries the extended pet profile from user/details2.
type PetDetails struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name,omitempty"`
	Avatar        string         `json:"avatar,omitempty"`
	Birth         string         `json:"birth,omitempty"`
	Gender        int            `json:"gender,omitempty"`
	Weight        float64        `json:"weight,omitempty"`
	WeightControl int            `json:"weightControl,omitempty"`
	WeightLabel   string         `json:"weightLabel,omitempty"`
	ActiveDegree  int            `json:"activeDegree,omitempty"`
	DeviceCount   int            `json:"deviceCount,omitempty"`
	FamilyID      int64          `json:"familyId,omitempty"`
	Category      map[string]any `json:"category,omitempty"`
	Size          map[string]any `json:"size,omitempty"`
	CreatedAt     string         `json:"createdAt,omitempty"`
	UpdatedAt     string         `json:"updatedAt,omitempty"`
}

// Pet is the pet entity seeded from the account's family list and decorated
// by the pet-stats reconciler after each refresh cycle.
//
// The derived fields are nil until the reconciler observes data for them and
// only ever advance to strictly newer events afterwards.
type Pet struct {
	Avatar    string `json:"avatar"`
	CreatedAt int64  `json:"createdAt"`
	PetID     int64  `json:"petId"`
	PetName   string `json:"petName"`

	DeviceNfo *Device     `json:"-"`
	Details   *PetDetails `json:"-"`

	// Derived litter stats, populated by the reconciler.
	LastLitterUsage    *int64   `json:"-"`
	LastDeviceUsed     *string  `json:"-"`
	LastDurationUsage  *int64   `json:"-"`
	LastEventID        *string  `json:"-"`
	LastMeasuredWeight *int     `json:"-"`
	YowlingDetected    *int     `json:"-"`
	AbnormalPhDetected *int     `json:"-"`
	MeasuredPh         *float64 `json:"-"`
	SoftStoolDetected  *int     `json:"-"`
	LastUrination      *int64   `json:"-"`
	LastDefecation     *int64   `json:"-"`
}

// User is a member of an account's family group.
type User struct {
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"`
	IsOwner   int    `json:"isOwner,omitempty"`
	UserID    int64  `json:"userId,omitempty"`
	UserName  string `json:"userName,omitempty"`
}

// AccountData is one family group from group/family/list, carrying the
// account's devices and pets.
type AccountData struct {
	DeviceList []Device `json:"deviceList,omitempty"`
	Expired    bool     `json:"expired,omitempty"`
	GroupID    int64    `json:"groupId,omitempty"`
	Name       string   `json:"name,omitempty"`
	Owner      int64    `json:"owner,omitempty"`
	PetList    []Pet    `json:"petList,omitempty"`
	UserList   []User   `json:"userList,omitempty"`
}

// CloudProduct describes the Care+ subscription attached to camera devices.
type CloudProduct struct {
	ChargeType string `json:"chargeType,omitempty"`
	Name       string `json:"name,omitempty"`
	ServiceID  int64  `json:"serviceId,omitempty"`
	Subscribe  int    `json:"subscribe,omitempty"`
	WorkIndate int64  `json:"workIndate,omitempty"`
	WorkTime   int64  `json:"workTime,omitempty"`
}

// Wifi reports the device's Wi-Fi association.
type Wifi struct {
	BSSID string `json:"bssid,omitempty"`
	RSQ   int    `json:"rsq,omitempty"`
	SSID  string `json:"ssid,omitempty"`
}

// FirmwareDetail is one firmware module version entry.
type FirmwareDetail struct {
	Module  string `json:"module,omitempty"`
	Version int    `json:"version,omitempty"`
}

// LiveFeed holds the RTC channel tokens for a camera device's live stream.
type LiveFeed struct {
	ChannelID    string `json:"channelId,omitempty"`
	AppRtmUserID string `json:"appRtmUserId,omitempty"`
	DevRtmUserID string `json:"devRtmUserId,omitempty"`
	RtcToken     string `json:"rtcToken,omitempty"`
	RtmToken     string `json:"rtmToken,omitempty"`
}

// IotInfo holds one platform's MQTT broker configuration from
// user/iotDeviceInfo_v2. The vendor app connects to this broker for
// near-real-time device event notifications.
type IotInfo struct {
	CreatedAt       string `json:"createdAt,omitempty"`
	DeviceName      string `json:"deviceName,omitempty"`
	DeviceSecret    string `json:"deviceSecret,omitempty"`
	ID              int64  `json:"id,omitempty"`
	IotInstanceID   string `json:"iotInstanceId,omitempty"`
	IotPlatform     string `json:"iotPlatform,omitempty"`
	MqttHost        string `json:"mqttHost,omitempty"`
	MqttIP          string `json:"mqttIp,omitempty"`
	ProductKey      string `json:"productKey,omitempty"`
	RegionID        string `json:"regionId,omitempty"`
	StandbyMqttHost string `json:"standbyMqttHost,omitempty"`
	StandbyMqttIP   string `json:"standbyMqttIp,omitempty"`
	Type            int    `json:"type,omitempty"`
}

// IotDeviceInfo is the v2 IoT info response, one entry per platform.
type IotDeviceInfo struct {
	Ali    *IotInfo `json:"ali,omitempty"`
	Petkit *IotInfo `json:"petkit,omitempty"`
}
