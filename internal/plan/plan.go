// Package plan maps a tenant's subscription tier to the capabilities it unlocks.
// Tiers are cumulative: each one includes everything below it.
package plan

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTier is returned by ParseTier for names outside the tier ladder
var ErrUnknownTier = errors.New("unknown subscription tier")

// Tier is a subscription level. The zero value is Unknown and grants nothing.
type Tier int

const (
	Unknown Tier = iota
	Starter
	Pro
	Plus
	Custom
)

var tierNames = map[Tier]string{
	Starter: "Starter",
	Pro:     "Pro",
	Plus:    "Plus",
	Custom:  "Custom",
}

// legacy names still stored on older tenant rows
var tierAliases = map[string]Tier{
	"personalizado": Custom,
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether t is on the tier ladder
func (t Tier) Valid() bool {
	_, ok := tierNames[t]
	return ok
}

// AtLeast reports whether t includes everything min does
func (t Tier) AtLeast(min Tier) bool {
	return t.Valid() && min.Valid() && t >= min
}

// ParseTier resolves a stored or submitted tier name, case-insensitively
func ParseTier(s string) (Tier, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for t, name := range tierNames {
		if strings.ToLower(name) == key {
			return t, nil
		}
	}
	if t, ok := tierAliases[key]; ok {
		return t, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// Names lists the canonical tier names in ascending order
func Names() []string {
	return []string{Starter.String(), Pro.String(), Plus.String(), Custom.String()}
}

// Capability is a gated feature
type Capability string

const (
	Reports        Capability = "reports"
	ServiceCatalog Capability = "service_catalog"
	VoiceTone      Capability = "voice_tone"
)

var minimumTier = map[Capability]Tier{
	Reports:        Pro,
	ServiceCatalog: Pro,
	VoiceTone:      Plus,
}

// RequiredTier returns the lowest tier that unlocks c
func RequiredTier(c Capability) Tier {
	return minimumTier[c]
}

// Allows reports whether tier t unlocks c
func Allows(t Tier, c Capability) bool {
	min, ok := minimumTier[c]
	return ok && t.AtLeast(min)
}

func HasReportsAccess(t Tier) bool        { return Allows(t, Reports) }
func HasServiceCatalogAccess(t Tier) bool { return Allows(t, ServiceCatalog) }
func HasVoiceToneAccess(t Tier) bool      { return Allows(t, VoiceTone) }

// Capabilities returns the capability flags for t, keyed by capability name
func Capabilities(t Tier) map[Capability]bool {
	out := make(map[Capability]bool, len(minimumTier))
	for c := range minimumTier {
		out[c] = Allows(t, c)
	}
	return out
}
