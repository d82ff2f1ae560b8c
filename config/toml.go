package config

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var configTemplate *template.Template

const DefaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

Name = {{ printf "%q" .Name }}
DataDir = {{ printf "%q" .DataDir }}
ChainId = {{ .ChainId }}
LogLevel = {{ printf "%q" .LogLevel }}
LogPath = {{ printf "%q" .LogPath }}
LogAge = {{ .LogAge }}
RevertExcess = {{ .RevertExcess }}
MaxFutureSeconds = {{ .MaxFutureSeconds }}

[storage]
Backend = {{ printf "%q" .Storage.Backend }}
Path = {{ printf "%q" .Storage.Path }}

[fee]
MinFee = {{ .Fee.MinFee }}
SenderLimitCache = {{ .Fee.SenderLimitCache }}
{{ range .Fee.Delegates }}
[[fee.delegates]]
Name = {{ printf "%q" .Name }}
MinFee = {{ .MinFee }}
{{ end }}
[ratelimit]
Window = {{ .RateLimit.Window }}
Capacity = {{ .RateLimit.Capacity }}
RelayCapacity = {{ .RateLimit.RelayCapacity }}
MaxPending = {{ .RateLimit.MaxPending }}
`

// RenderGuardConfig renders cfg as TOML text.
func RenderGuardConfig(cfg GuardConfig) ([]byte, error) {
	var buffer bytes.Buffer
	var err error

	if configTemplate == nil {
		if configTemplate, err = template.New("configFileTemplate").Parse(DefaultConfigTemplate); err != nil {
			return nil, err
		}
	}
	if err = configTemplate.Execute(&buffer, cfg); err != nil {
		return nil, err
	}
	// make sure what we wrote can be read back
	if _, err = toml.Load(buffer.String()); err != nil {
		return nil, errors.Wrap(err, "rendered config is not valid toml")
	}
	return buffer.Bytes(), nil
}

func WriteGuardConfigFile(configDirPath string, configName string, cfg GuardConfig, mode os.FileMode) error {
	data, err := RenderGuardConfig(cfg)
	if err != nil {
		return err
	}
	configPath := filepath.Join(configDirPath, configName)
	return ioutil.WriteFile(configPath, data, mode)
}

// LoadGuardConfig reads config.toml in confDir. Missing keys keep their default values.
// Keys can be overridden by GUARD_ prefixed environment variables.
func LoadGuardConfig(confDir string) (*GuardConfig, error) {
	v := viper.New()
	v.SetConfigName(DefaultConfigName)
	v.SetConfigType("toml")
	v.AddConfigPath(confDir)
	v.SetEnvPrefix("GUARD")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "cannot read config in %s (do `init` first)", confDir)
	}
	cfg := DefaultGuardConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "malformed config")
	}
	if cfg.DataDir != "" {
		dir, err := filepath.Abs(cfg.DataDir)
		if err != nil {
			return nil, errors.Wrap(err, "DataDir cannot be converted to absolute path")
		}
		cfg.DataDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
