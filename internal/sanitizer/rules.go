package sanitizer

import "regexp"

type PasswordRule struct{}

var passwordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|passwd|pwd|пароль)\s*[:=]\s*["']?([^"'\s]{3,})["']?`),
	regexp.MustCompile(`(?i)page\.fill\(\s*(["'][^"']*password[^"']*["'])\s*,\s*["']([^"']+)["']\s*\)`),
}

func (r *PasswordRule) Sanitize(text string) string {
	text = passwordPatterns[0].ReplaceAllString(text, `${1}: [FILTERED]`)
	text = passwordPatterns[1].ReplaceAllString(text, `page.fill(${1}, "[FILTERED]")`)
	return text
}

type TokenRule struct{}

var tokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(bearer)\s+([a-zA-Z0-9._-]{20,})`),
	regexp.MustCompile(`(?i)(auth[_-]?token|session[_-]?id|jwt)\s*[:=]\s*["']?([a-zA-Z0-9._-]{16,})["']?`),
}

func (r *TokenRule) Sanitize(text string) string {
	for _, p := range tokenPatterns {
		text = p.ReplaceAllString(text, `${1} [FILTERED]`)
	}
	return text
}

type APIKeyRule struct{}

var apiKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|api[_-]?secret|secret[_-]?key|access[_-]?key)\s*[:=]\s*["']?([a-zA-Z0-9_-]{20,})["']?`),
	regexp.MustCompile(`\bsk-[a-zA-Z0-9_-]{20,}\b`),
}

func (r *APIKeyRule) Sanitize(text string) string {
	text = apiKeyPatterns[0].ReplaceAllString(text, `${1}: [FILTERED]`)
	text = apiKeyPatterns[1].ReplaceAllString(text, `[FILTERED]`)
	return text
}

type CardRule struct{}

var cardPattern = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)

func (r *CardRule) Sanitize(text string) string {
	return cardPattern.ReplaceAllString(text, `[FILTERED]`)
}

type EmailRule struct{}

var emailPattern = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)

func (r *EmailRule) Sanitize(text string) string {
	return emailPattern.ReplaceAllString(text, `[FILTERED]`)
}
