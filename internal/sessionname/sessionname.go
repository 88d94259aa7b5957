package sessionname

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Lists for friendly name generation
var adjectives = []string{
	"bold", "brave", "bright", "calm", "clever",
	"cool", "cosmic", "crisp", "daring", "eager",
	"fair", "fancy", "fast", "gentle", "glad",
	"grand", "happy", "kind", "lively", "lucky",
	"merry", "noble", "proud", "quick", "quiet",
	"rapid", "smart", "solid", "swift", "warm",
	"wise", "witty", "zesty", "agile", "alert",
}

var nouns = []string{
	"bear", "bird", "cat", "deer", "eagle",
	"fish", "fox", "hawk", "lion", "owl",
	"star", "moon", "sun", "wind", "wave",
	"tree", "river", "mountain", "ocean", "cloud",
	"tiger", "wolf", "dragon", "phoenix", "falcon",
	"comet", "galaxy", "planet", "nova", "meteor",
	"forest", "canyon", "valley", "peak", "storm",
}

// allWords is the combined pool; adjectives first.
var allWords = append(append([]string{}, adjectives...), nouns...)

// Unknown is returned for empty identifiers.
const Unknown = "unknown"

// GenerateSessionName returns a deterministic single-word label for a
// session identifier, e.g. "peak".
//
// UUID-like identifiers use their first six hex digits as the seed, so the
// label is stable across tools that share the convention. Any other
// non-empty identifier is hashed with FNV-1a.
func GenerateSessionName(sessionID string) string {
	if sessionID == "" || sessionID == Unknown {
		return Unknown
	}

	cleanID := strings.ToLower(strings.ReplaceAll(sessionID, "-", ""))
	if len(cleanID) >= 8 && isHex(cleanID[:8]) {
		return allWords[hexToInt(cleanID[:8])%len(allWords)]
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return allWords[int(h.Sum32()%uint32(len(allWords)))]
}

// Label formats title with the session label appended: "Engine [peak]".
// The title is returned unchanged for empty identifiers.
func Label(title, sessionID string) string {
	name := GenerateSessionName(sessionID)
	if name == Unknown {
		return title
	}
	if title == "" {
		return name
	}
	return fmt.Sprintf("%s [%s]", title, name)
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// hexToInt converts hex string to int (takes first 6 characters for safety)
func hexToInt(hex string) int {
	if len(hex) > 6 {
		hex = hex[0:6]
	}

	var result int
	if _, err := fmt.Sscanf(hex, "%x", &result); err != nil {
		return 0
	}
	return result
}
