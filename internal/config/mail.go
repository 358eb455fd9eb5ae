package config

// MailSMTPAddr is the relay host:port. Empty disables outbound mail.
func MailSMTPAddr() string {
	return GetEnv("MAIL_SMTP_ADDR", "")
}

func MailFrom() string {
	return GetEnv("MAIL_FROM", "no-reply@prepwise.local")
}

func MailUsername() string {
	return GetEnv("MAIL_USERNAME", "")
}

func MailPassword() string {
	return GetEnv("MAIL_PASSWORD", "")
}

// MailRelayIP is the public address the relay sends from, used for the SPF preflight.
func MailRelayIP() string {
	return GetEnv("MAIL_RELAY_IP", "")
}

// DKIMDomain is the signing domain (d=). Empty disables DKIM signing.
func DKIMDomain() string {
	return GetEnv("DKIM_DOMAIN", "")
}

func DKIMSelector() string {
	return GetEnv("DKIM_SELECTOR", "prepwise")
}

// DKIMKeyFile is a PKCS#8 PEM Ed25519 private key. Empty generates a key at start.
func DKIMKeyFile() string {
	return GetEnv("DKIM_KEY_FILE", "")
}
