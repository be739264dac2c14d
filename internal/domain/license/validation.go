package license

import (
	"strings"
	"time"
)

// Decision is the outcome of validating a key for one device.
type Decision struct {
	OK         bool
	Reason     Reason
	ExpiresAt  time.Time
	NewlyBound bool
	// Changed is true when the key was mutated and must be persisted.
	Changed bool
}

func (d Decision) Message() string {
	return d.Reason.Message()
}

// NotFoundDecision is returned when the key does not exist.
func NotFoundDecision() Decision {
	return Decision{Reason: ReasonNotFound}
}

// Validate runs the admission sequence for deviceID: banned, expired,
// missing device, already bound, admit under the limit, reject. On success
// the key records systemInfo, the device and the login time. Callers must
// hold the per-key lock and persist the key when Changed is set.
func (k *LicenseKey) Validate(deviceID, systemInfo string, now time.Time) Decision {
	if k.banned {
		return Decision{Reason: ReasonBanned}
	}
	if k.IsExpired(now) {
		return Decision{Reason: ReasonExpired}
	}
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return Decision{Reason: ReasonMissingDeviceID}
	}

	newlyBound := false
	if !k.IsBound(deviceID) {
		if len(k.boundDevices) >= k.deviceLimit {
			return Decision{Reason: ReasonDeviceLimitReached}
		}
		k.boundDevices = append(k.boundDevices, deviceID)
		newlyBound = true
	}

	if strings.TrimSpace(systemInfo) == "" {
		systemInfo = SystemInfoDefault
	}
	k.systemInfo = systemInfo
	k.lastDevice = deviceID
	loginAt := now
	k.lastLoginAt = &loginAt

	return Decision{
		OK:         true,
		ExpiresAt:  k.expiresAt,
		NewlyBound: newlyBound,
		Changed:    true,
	}
}
