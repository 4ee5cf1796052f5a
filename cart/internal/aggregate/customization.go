package aggregate

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"

	"golang.org/x/crypto/blake2b"
)

// Customization is the user-chosen attribute bag attached to a line item (scent, color, notes).
// The cart never interprets its fields.
type Customization map[string]any

// Canonical returns the serialized form used for identity comparison. Keys are sorted at every nesting
// level, so field order never splits a line item. nil and empty customizations both yield "".
func (c Customization) Canonical() string {
	if len(c) == 0 {
		return ""
	}
	b, err := json.Marshal(map[string]any(c))
	if err != nil {
		// fmt prints maps with sorted keys
		return fmt.Sprintf("%v", map[string]any(c))
	}
	return string(b)
}

// Fingerprint is the BLAKE2b-256 digest of Canonical, hex encoded.
func (c Customization) Fingerprint() string {
	canonical := c.Canonical()
	if canonical == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

func (c Customization) Equal(other Customization) bool {
	return c.Canonical() == other.Canonical()
}

// Clone deep copies c so later caller mutations cannot leak into a stored snapshot.
func (c Customization) Clone() Customization {
	if len(c) == 0 {
		return nil
	}
	b, err := json.Marshal(map[string]any(c))
	if err != nil {
		return maps.Clone(c)
	}
	// UseNumber keeps integers beyond float64 precision intact so Canonical is unchanged by the copy.
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.UseNumber()
	cloned := Customization{}
	if err := decoder.Decode(&cloned); err != nil {
		return maps.Clone(c)
	}
	return cloned
}

// Key identifies a line item. Two adds merge iff their keys are equal.
type Key struct {
	ProductID   string
	Fingerprint string
}

func NewKey(productID string, customization Customization) Key {
	return Key{ProductID: productID, Fingerprint: customization.Fingerprint()}
}
