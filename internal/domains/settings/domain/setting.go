package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Key names a runtime-tunable setting.
type Key string

const (
	KeyGuestLimit         Key = "guest_limit"
	KeyFreeUserLimit      Key = "free_user_limit"
	// KeyGenerationCooldown is expressed in seconds.
	KeyGenerationCooldown Key = "generation_cooldown"
)

var (
	ErrUnknownKey   = errors.New("unknown setting key")
	ErrInvalidValue = errors.New("setting value must be a non-negative integer")
)

// Defaults apply until an admin stores an override.
var Defaults = map[Key]int{
	KeyGuestLimit:         5,
	KeyFreeUserLimit:      10,
	KeyGenerationCooldown: 0,
}

// Keys lists the known settings in display order.
func Keys() []Key {
	return []Key{KeyGuestLimit, KeyFreeUserLimit, KeyGenerationCooldown}
}

// Setting is one stored key/value pair.
type Setting struct {
	ID        int64
	Key       Key
	Value     int
	UpdatedAt time.Time
}

// ParseKey rejects keys outside the known set.
func ParseKey(raw string) (Key, error) {
	key := Key(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := Defaults[key]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, raw)
	}
	return key, nil
}

// ParseValue accepts a non-negative integer given as a JSON number or numeric string.
func ParseValue(raw any) (int, error) {
	switch v := raw.(type) {
	case float64:
		if v < 0 || v != float64(int(v)) {
			return 0, ErrInvalidValue
		}
		return int(v), nil
	case int:
		if v < 0 {
			return 0, ErrInvalidValue
		}
		return v, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return 0, ErrInvalidValue
		}
		return n, nil
	default:
		return 0, ErrInvalidValue
	}
}

// NewSetting validates a key/value pair.
func NewSetting(key string, value any) (Setting, error) {
	k, err := ParseKey(key)
	if err != nil {
		return Setting{}, err
	}
	n, err := ParseValue(value)
	if err != nil {
		return Setting{}, err
	}
	return Setting{Key: k, Value: n}, nil
}
