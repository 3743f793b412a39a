package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StoreConfig struct {
	ConfigDir  string `yaml:"configDir" validate:"required|unixPath"`
	ImageDir   string `yaml:"imageDir" validate:"required|unixPath"`
	BaseDir    string `yaml:"baseDir" validate:"required|unixPath"`
	GalleryDir string `yaml:"galleryDir" validate:"required|unixPath"`
	AdminsFile string `yaml:"adminsFile"`
}

type GalleryConfig struct {
	ThumbWidth      int           `yaml:"thumbWidth" validate:"required|uint|min:8"`
	ThumbHeight     int           `yaml:"thumbHeight" validate:"required|uint|min:8"`
	Columns         int           `yaml:"columns" validate:"required|uint|min:1"`
	TitleBarHeight  int           `yaml:"titleBarHeight" validate:"required|uint|min:10"`
	MaxAgeDays      int           `yaml:"maxAgeDays" validate:"required|uint|min:1"`
	Workers         int           `yaml:"workers" validate:"required|uint|min:2"`
	CleanupInterval time.Duration `yaml:"cleanupInterval" validate:"required|min:1"`
}

type NtrConfig struct {
	MaxPerDay   int     `yaml:"maxPerDay" validate:"required|uint|min:1"`
	Possibility float64 `yaml:"possibility" validate:"required|min:0|max:1"`
}

type RemoteConfig struct {
	BaseURL  string        `yaml:"baseURL"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

type BackupConfig struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	Store     StoreConfig   `yaml:"store"`
	Gallery   GalleryConfig `yaml:"gallery"`
	Ntr       NtrConfig     `yaml:"ntr"`
	Remote    RemoteConfig  `yaml:"remote"`
	Backup    BackupConfig  `yaml:"backup"`
	WebServer Server        `yaml:"webServer"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
}
