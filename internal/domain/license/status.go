package license

// Status is the derived state of a key at a point in time.
type Status string

const (
	StatusInactive Status = "Inactive"
	StatusActive   Status = "Active"
	StatusExpired  Status = "Expired"
	StatusBanned   Status = "Banned"
)

func (s Status) String() string {
	return string(s)
}

// Reason explains a failed validation.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonNotFound           Reason = "not_found"
	ReasonBanned             Reason = "banned"
	ReasonExpired            Reason = "expired"
	ReasonMissingDeviceID    Reason = "missing_device_id"
	ReasonDeviceLimitReached Reason = "device_limit_reached"
)

// Client-facing messages. Existing client builds match on these strings.
const (
	MsgLoginSuccessful  = "Login successful!"
	MsgKeyNotFound      = "License key not found!"
	MsgBanned           = "This key has been banned!"
	MsgExpired          = "License has expired!"
	MsgMissingDeviceID  = "Missing hardware ID (HWID)!"
	MsgDeviceLimit      = "Limit reached!"
	MsgKeyLookupMissing = "Key not found!"
)

// Message maps a reason onto its client-facing text.
func (r Reason) Message() string {
	switch r {
	case ReasonNone:
		return MsgLoginSuccessful
	case ReasonNotFound:
		return MsgKeyNotFound
	case ReasonBanned:
		return MsgBanned
	case ReasonExpired:
		return MsgExpired
	case ReasonMissingDeviceID:
		return MsgMissingDeviceID
	case ReasonDeviceLimitReached:
		return MsgDeviceLimit
	default:
		return string(r)
	}
}
