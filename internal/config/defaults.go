package config

const (
	defaultTokenPath        = "~/.config/ytkit/token.json"
	defaultClientSecretPath = "~/.config/ytkit/client_secret.json"
	defaultTranscriptsDir   = "~/.local/share/ytkit/transcripts"
	defaultIndexPath        = "~/.local/share/ytkit/transcript_index.json"
	defaultLogDir           = "~/.local/share/ytkit/logs"
	defaultAnalyticsDays    = 28
	defaultRedirectPort     = 8080
	defaultRevokeURL        = "https://oauth2.googleapis.com/revoke"
	defaultSyncPageSize     = 50
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

func defaultCaptionLanguages() []string {
	return []string{"en", "en-US", "en-GB"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TokenPath:        defaultTokenPath,
			ClientSecretPath: defaultClientSecretPath,
			TranscriptsDir:   defaultTranscriptsDir,
			IndexPath:        defaultIndexPath,
			LogDir:           defaultLogDir,
		},
		Captions: Captions{
			Languages: defaultCaptionLanguages(),
		},
		Analytics: Analytics{
			DefaultDays: defaultAnalyticsDays,
		},
		Auth: Auth{
			RedirectPort: defaultRedirectPort,
			RevokeURL:    defaultRevokeURL,
		},
		Sync: Sync{
			PageSize: defaultSyncPageSize,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
