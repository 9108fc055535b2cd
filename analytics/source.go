package analytics

import "strings"

// Known acquisition providers matched by substring against the raw
// referrer. Order matters only for readability; matches are disjoint in
// practice.
var providerSources = []string{"google", "facebook", "twitter", "linkedin"}

// ClassifySource maps a raw referrer or UTM-tagged URL to a normalized
// acquisition source label.
func ClassifySource(referrer string) string {
	if referrer == "" {
		return "direct"
	}

	lowered := strings.ToLower(referrer)
	for _, provider := range providerSources {
		if strings.Contains(lowered, provider) {
			return provider
		}
	}

	if strings.Contains(lowered, "utm_source=email") {
		return "email"
	}
	if strings.Contains(lowered, "utm_source=social") {
		return "social"
	}

	return "referral"
}
