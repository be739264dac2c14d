package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/hopperkey/phatdev/internal/shared/constants"
)

// AuthRequest is the body of POST /auth. Every action reads the subset of
// fields it needs.
type AuthRequest struct {
	Action      string     `json:"action"`
	UserID      FlexString `json:"user_id" validate:"max=128"`
	UserIDAlt   FlexString `json:"userId" validate:"max=128"`
	AppName     string     `json:"app_name" validate:"max=64"`
	API         string     `json:"api" validate:"max=128"`
	Key         string     `json:"key"`
	Prefix      string     `json:"prefix" validate:"omitempty,max=32,printascii"`
	Days        FlexInt    `json:"days"`
	DeviceLimit FlexInt    `json:"device_limit"`
	HWID        FlexString `json:"hwid" validate:"max=256"`
	SystemInfo  string     `json:"system_info" validate:"max=512"`
}

// maxKeyLength bounds the keys worth looking up. Longer keys cannot have
// been issued, so lookups answer as for a missing key.
const maxKeyLength = 128

// LookupKey is the key to look up, and false when it is too long to exist.
func (r *AuthRequest) LookupKey() (string, bool) {
	if len(r.Key) > maxKeyLength {
		return "", false
	}
	return r.Key, true
}

// TargetUserID is the user named in the body, without any default.
func (r *AuthRequest) TargetUserID() string {
	if id := strings.TrimSpace(string(r.UserID)); id != "" {
		return id
	}
	return strings.TrimSpace(string(r.UserIDAlt))
}

// CallerID is the user named in the body, or Guest.
func (r *AuthRequest) CallerID() string {
	if id := r.TargetUserID(); id != "" {
		return id
	}
	return constants.GuestUserID
}

// FlexString accepts a JSON string or number. Telegram-style user ids and
// some device ids arrive as numbers.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	if trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9') {
		*s = FlexString(trimmed)
		return nil
	}
	*s = ""
	return nil
}

// FlexInt accepts a JSON number or a numeric string and reads the leading
// integer, so "30", 30, 30.5 and "30 days" all give 30. Set is false when
// no integer could be read.
type FlexInt struct {
	Value int
	Set   bool
}

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	v, ok := parseLeadingInt(s)
	*n = FlexInt{Value: v, Set: ok}
	return nil
}

func (n FlexInt) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(n.Value)), nil
}

func parseLeadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}
