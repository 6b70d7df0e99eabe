package configuration

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Views             string `usage:"json file with the views to create at start"`
	LogLevel          string `usage:"log level: debug, info, warn or error"`
	ApiKey            string `usage:"require this X-Api-Key header when not empty"`
	ApiSecret         string `usage:"X-Api-Secret header paired with ApiKey"`
	EnableCompression bool   `usage:"gzip responses"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:          "127.0.0.1:8080",
		LogLevel:          "info",
		EnableCompression: true,
		ShowBanner:        true,
	}
}
