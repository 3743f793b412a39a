package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"waifud/internal/structures"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "WAIFUD_LOG_LEVEL")
	viper.BindEnv("store.imageDir", "WAIFUD_IMAGE_DIR")
	viper.BindEnv("ntr.maxPerDay", "WAIFUD_NTR_MAX_PER_DAY")
	viper.BindEnv("remote.baseURL", "WAIFUD_REMOTE_BASE_URL")
	viper.BindEnv("cache.enabled", "WAIFUD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "WAIFUD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "WaifuDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
