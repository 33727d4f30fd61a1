package whatsapp

// Config holds the credentials and endpoint settings for the Cloud API.
type Config struct {
	// Token is the bearer credential attached to every request.
	Token string
	// PhoneNumberID identifies the sending phone number. For account-scoped
	// operations (flows, template management) it doubles as the business
	// account id embedded in the endpoint instead of the URL path.
	PhoneNumberID string
	// VerifyToken is the shared secret used by the webhook handshake.
	VerifyToken string
	// BaseURL is the API origin, without a trailing slash.
	BaseURL string
	// APIVersion is the versioned path segment, e.g. "v20.0".
	APIVersion string
}

// Overrides is a partial Config applied on top of the client's snapshot for a
// single call. Empty fields fall through to the lower layers.
type Overrides struct {
	Token         string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
}

// DefaultConfig returns the compiled-in defaults. Credentials are empty and
// must come from the client snapshot or a per-call override.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://graph.facebook.com",
		APIVersion: "v20.0",
	}
}

// resolveConfig merges default -> base -> override, field-wise. Higher layers
// win per field; resolution itself never fails. The result is a fresh value,
// so concurrent calls with different overrides never share state.
func resolveConfig(base Config, o *Overrides) Config {
	cfg := DefaultConfig()
	mergeConfig(&cfg, base)
	if o != nil {
		mergeConfig(&cfg, Config{
			Token:         o.Token,
			PhoneNumberID: o.PhoneNumberID,
			VerifyToken:   o.VerifyToken,
			BaseURL:       o.BaseURL,
			APIVersion:    o.APIVersion,
		})
	}
	return cfg
}

func mergeConfig(dst *Config, layer Config) {
	if layer.Token != "" {
		dst.Token = layer.Token
	}
	if layer.PhoneNumberID != "" {
		dst.PhoneNumberID = layer.PhoneNumberID
	}
	if layer.VerifyToken != "" {
		dst.VerifyToken = layer.VerifyToken
	}
	if layer.BaseURL != "" {
		dst.BaseURL = layer.BaseURL
	}
	if layer.APIVersion != "" {
		dst.APIVersion = layer.APIVersion
	}
}
