package policy

import "strings"

// channelPrefixes are the messaging-channel markers a host runtime may
// prepend to a user identifier before it reaches the gate.
var channelPrefixes = []string{"whatsapp:", "telegram:", "discord:"}

// Normalize strips exactly one leading channel prefix from a raw user
// identifier. Matching is case-sensitive and anchored at position 0;
// identifiers without a known prefix are returned unchanged.
func Normalize(raw string) string {
	for _, prefix := range channelPrefixes {
		if strings.HasPrefix(raw, prefix) {
			return raw[len(prefix):]
		}
	}
	return raw
}
