// Package redact scrubs credentials and infrastructure details out of error
// text before it reaches logs or clients. Database and cache URLs, API keys,
// bearer tokens and raw SQL are the usual leaks in this service.
package redact

import "regexp"

const (
	// CredentialPlaceholder replaces userinfo in connection URLs and password pairs.
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	// KeyPlaceholder replaces API keys and secrets.
	KeyPlaceholder = "[REDACTED_KEY]"
	// TokenPlaceholder replaces JWTs.
	TokenPlaceholder = "[REDACTED_JWT]"
	// SQLPlaceholder replaces SQL statements.
	SQLPlaceholder = "[REDACTED_SQL]"
	// HostPlaceholder replaces host:port pairs.
	HostPlaceholder = "[REDACTED_HOST]"
	// PathPlaceholder replaces absolute file paths.
	PathPlaceholder = "[REDACTED_PATH]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Order matters: URLs go before host and path rules so the whole userinfo is caught.
var rules = []rule{
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|rediss?|pgx)://[^@\s]+@`),
		CredentialPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]+['"]?)[^'"&\s]{3,}`),
		CredentialPlaceholder,
	},
	{
		regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		TokenPlaceholder,
	},
	{
		regexp.MustCompile(`AIza[0-9A-Za-z_-]{20,}`),
		KeyPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(api[_-]?key|secret|token|key)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		KeyPlaceholder,
	},
	{
		regexp.MustCompile(
			`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[\s\S]*?\b(FROM|INTO|SET)\b[^;\n]*`,
		),
		SQLPlaceholder,
	},
	{
		regexp.MustCompile(`\b(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}:\d{1,5}\b|\b(?:\d{1,3}\.){3}\d{1,3}:\d{1,5}\b`),
		HostPlaceholder,
	},
	{
		regexp.MustCompile(`(/[\w.-]+){3,}`),
		PathPlaceholder,
	},
}

// String returns input with every sensitive fragment replaced by its placeholder.
func String(input string) string {
	if input == "" {
		return input
	}
	for _, r := range rules {
		input = r.pattern.ReplaceAllString(input, r.placeholder)
	}
	return input
}

// Error redacts err.Error(). A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
