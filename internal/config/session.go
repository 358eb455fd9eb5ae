package config

import "time"

func SessionSecret() string {
	return MustGetEnv("SESSION_SECRET")
}

func SessionIssuer() string {
	return GetEnv("SESSION_ISSUER", "prepwise")
}

func SessionTTL() time.Duration {
	return MustParseDuration("SESSION_TTL", "24h")
}

// ToastTTL is how long an undelivered toast survives a redirect.
func ToastTTL() time.Duration {
	return MustParseDuration("TOAST_TTL", "1m")
}

// CookieSecure marks session and toast cookies Secure. Disable only for plain-HTTP development.
func CookieSecure() bool {
	return GetBool("COOKIE_SECURE", true)
}
