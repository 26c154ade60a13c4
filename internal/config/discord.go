package config

// DiscordConfig carries the chat-surface credentials and routing.
type DiscordConfig struct {
	Token             string
	AppID             string
	CommandGuildID    string // empty registers commands globally
	MaintainerChannel string
	DebugChannels     []string
	SendsPerSecond    int
	SendBurst         int
}

func loadDiscord() DiscordConfig {
	return DiscordConfig{
		Token:             envOrDefault(envDiscordToken, ""),
		AppID:             envOrDefault(envDiscordAppID, ""),
		CommandGuildID:    envOrDefault(envDiscordGuild, ""),
		MaintainerChannel: envOrDefault(envMaintainerChan, ""),
		DebugChannels:     listEnv(envDebugChannels),
		SendsPerSecond:    intEnvOrDefault(envSendRate, defaultSendRate),
		SendBurst:         intEnvOrDefault(envSendBurst, defaultSendBurst),
	}
}
