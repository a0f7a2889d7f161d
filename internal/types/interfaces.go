package types

import "context"

// PayloadFetcher retrieves the raw provider forecast payload for an area.
// Implementations surface transport failures as AppErrors with offline_* or
// api_* codes so callers can distinguish "no network" from "provider broken".
type PayloadFetcher interface {
	FetchForecastPayload(ctx context.Context, areaCode string) ([]byte, error)
}

// PayloadCache stores raw provider payloads keyed by area code with a TTL
// measured from write time. Load returns nil for absent, expired, or
// structurally unusable entries; it never returns an error to the caller.
// Save is an idempotent overwrite; concurrent double-writes are acceptable.
type PayloadCache interface {
	Load(areaCode string) []byte
	Save(areaCode string, payload []byte)
}

// LocationResolver resolves the device's current position to a supported
// forecast area. Failures are typed: permission_location_denied when the OS
// denies access, location_manual_required when the position cannot be mapped
// to a supported region.
type LocationResolver interface {
	ResolveCurrentLocation(ctx context.Context) (*ResolvedLocation, error)
}

// SettingsStore persists the full settings document. Load on an empty store
// returns defaults, not an error; Save replaces the whole document.
type SettingsStore interface {
	Load(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}
