// Package spamcheck holds the side-effect-free heuristics used to screen waitlist signups.
package spamcheck

import (
	"regexp"
	"strings"
)

// Reason codes reported in EmailVerdict.Reasons.
const (
	ReasonDisposableDomain = "disposable_domain"
	ReasonDigitRun         = "digit_run"
	ReasonRepeatedChars    = "repeated_chars"
	ReasonNoVowels         = "no_vowels"
	ReasonShortDomain      = "short_domain"
	ReasonHyphenatedDomain = "hyphenated_domain"
)

const (
	minDigitRun      = 6
	minRepeatedRun   = 5
	noVowelMinLength = 16
	minDomainLength  = 4
	maxDomainHyphens = 2
)

var (
	emailFormat = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitRun    = regexp.MustCompile(`[0-9]{6,}`)
)

type EmailVerdict struct {
	FormatValid  bool
	IsDisposable bool
	IsSuspicious bool
	Reasons      []string
}

type EmailClassifier struct {
	disposable map[string]struct{}
	shortAllow map[string]struct{}
}

func NewEmailClassifier(p *Policy) *EmailClassifier {
	return &EmailClassifier{
		disposable: toSet(p.DisposableDomains),
		shortAllow: toSet(p.ShortDomainAllowlist),
	}
}

// ValidFormat is the permissive local@domain.tld check.
func ValidFormat(email string) bool {
	return emailFormat.MatchString(email)
}

// SplitEmail splits at the last '@'. ok is false when either side is empty.
func SplitEmail(email string) (local, domain string, ok bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", "", false
	}
	return email[:at], email[at+1:], true
}

func (c *EmailClassifier) Classify(email string) EmailVerdict {
	if !ValidFormat(email) {
		return EmailVerdict{}
	}

	local, domain, _ := SplitEmail(email)
	domain = strings.ToLower(domain)

	v := EmailVerdict{FormatValid: true}

	if c.IsDisposable(email) {
		v.IsDisposable = true
		v.Reasons = append(v.Reasons, ReasonDisposableDomain)
	}

	if digitRun.MatchString(local) {
		v.Reasons = append(v.Reasons, ReasonDigitRun)
	}
	if hasRepeatedRun(local, minRepeatedRun) {
		v.Reasons = append(v.Reasons, ReasonRepeatedChars)
	}
	if len(local) >= noVowelMinLength && !hasVowel(local) {
		v.Reasons = append(v.Reasons, ReasonNoVowels)
	}
	if c.isShortDomain(domain) {
		v.Reasons = append(v.Reasons, ReasonShortDomain)
	}
	if strings.Count(domain, "-") > maxDomainHyphens {
		v.Reasons = append(v.Reasons, ReasonHyphenatedDomain)
	}

	for _, r := range v.Reasons {
		if r != ReasonDisposableDomain {
			v.IsSuspicious = true
			break
		}
	}

	return v
}

// IsDisposable is an exact, case-insensitive domain match; subdomains do not count.
func (c *EmailClassifier) IsDisposable(email string) bool {
	_, domain, ok := SplitEmail(email)
	if !ok {
		return false
	}
	_, hit := c.disposable[strings.ToLower(domain)]
	return hit
}

// isShortDomain measures the whole domain, TLD included.
func (c *EmailClassifier) isShortDomain(domain string) bool {
	if _, allowed := c.shortAllow[domain]; allowed {
		return false
	}
	return len(domain) < minDomainLength
}

func hasRepeatedRun(s string, n int) bool {
	run := 1
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			run++
			if run >= n {
				return true
			}
			continue
		}
		run = 1
	}
	return false
}

func hasVowel(s string) bool {
	return strings.ContainsAny(strings.ToLower(s), "aeiou")
}
