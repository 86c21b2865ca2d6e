package entities

import "encoding/json"

// Summary holds the module-keyed quote summary for one symbol. Module payloads
// stay opaque (the provider's field set varies per module and per symbol); the
// service layer only guarantees their presence, never their inner shape.
// Summary data is never fabricated, so it carries no IsMock marker.
type Summary struct {
	Symbol  string                     `json:"symbol"`
	Modules map[string]json.RawMessage `json:"modules"`

	FromCache bool   `json:"from_cache"`
	Warning   string `json:"warning,omitempty"`
}
