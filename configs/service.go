package configs

type ServiceConfig struct {
	ServiceName  string   `yaml:"service_name"`
	HttpPort     string   `yaml:"http_port"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type LogsConfig struct {
	LogPath    string `yaml:"log_path"`
	LogLevel   string `yaml:"log_level"`
	StdoutOnly bool   `yaml:"stdout_only"`
}
