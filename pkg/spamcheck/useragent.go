package spamcheck

import "strings"

// UnknownValue is the sentinel used when a client IP or user agent could not be determined.
const UnknownValue = "unknown"

const minUserAgentLength = 10

type UserAgentClassifier struct {
	indicators []string
}

func NewUserAgentClassifier(p *Policy) *UserAgentClassifier {
	return &UserAgentClassifier{indicators: p.UserAgentIndicators}
}

// IsSuspicious flags empty, sentinel, very short, and tooling user agents.
// The indicator list is broad on purpose and will flag some unusual real browsers.
func (c *UserAgentClassifier) IsSuspicious(userAgent string) bool {
	ua := strings.TrimSpace(userAgent)
	if ua == "" || strings.EqualFold(ua, UnknownValue) || len(ua) < minUserAgentLength {
		return true
	}

	lowered := strings.ToLower(ua)
	for _, indicator := range c.indicators {
		if strings.Contains(lowered, indicator) {
			return true
		}
	}

	return false
}
