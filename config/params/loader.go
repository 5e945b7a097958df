package params

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// LoadChainConfigFile reads a YAML chain-config file and applies it on top
// of the active configuration. Unknown keys are rejected so that typos in
// operator-supplied files fail loudly at startup.
func LoadChainConfigFile(path string) (*BeaconChainConfig, error) {
	yamlFile, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, errors.Wrap(err, "could not read chain config file")
	}
	conf := BeaconConfig().Copy()
	if err := yaml.UnmarshalStrict(yamlFile, conf); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal chain config file")
	}
	return conf, nil
}
