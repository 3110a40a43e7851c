// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package commons

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EngineConfig carries the defaults a host application starts the
// engine with. Everything can be overridden per mixer; this is only
// the boot-time baseline.
type EngineConfig struct {
	SampleRate int     `mapstructure:"sample_rate" validate:"required,gt=0"`
	Channels   int     `mapstructure:"channels" validate:"required,gt=0"`
	Tempo      float64 `mapstructure:"tempo" validate:"required,gt=0"`
	LogLevel   string  `mapstructure:"log_level" validate:"required"`
	LogPath    string  `mapstructure:"log_path"`
}

// InitConfig reads engine configuration from the environment and an
// optional .env file (ENV_PATH overrides the lookup path).
func InitConfig() (*viper.Viper, error) {
	vConfig := viper.NewWithOptions(viper.KeyDelimiter("__"))

	vConfig.AddConfigPath(".")
	vConfig.SetConfigName(".env")
	path := os.Getenv("ENV_PATH")
	if path != "" {
		vConfig.SetConfigFile(path)
	}
	vConfig.SetConfigType("env")
	vConfig.AutomaticEnv()

	setDefault(vConfig)
	if err := vConfig.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		log.Printf("Reading from env variables.")
	}

	return vConfig, nil
}

func setDefault(v *viper.Viper) {
	v.SetDefault("SAMPLE_RATE", 48000)
	v.SetDefault("CHANNELS", 2)
	v.SetDefault("TEMPO", 120.0)
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_PATH", "")
}

// GetEngineConfig unmarshals and validates the engine configuration.
func GetEngineConfig(v *viper.Viper) (*EngineConfig, error) {
	var config EngineConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
