package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tgaplan/estimator/internal/pkg/constants"
)

// Init loads config.yaml (optional) and environment overrides, and registers
// the defaults for every tunable. Thresholds live here so no service hard-codes
// them.
func Init() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("estimator")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(constants.ViperKeyListenAddr, ":8080")

	viper.SetDefault(constants.ViperKeyLexicalThreshold, 0.60)
	viper.SetDefault(constants.ViperKeySemanticThreshold, 0.75)
	viper.SetDefault(constants.ViperKeyTopK, 25)
	viper.SetDefault(constants.ViperKeyWorkers, 8)
	viper.SetDefault(constants.ViperKeyFallbackConcurrency, 5)
	viper.SetDefault(constants.ViperKeyFallbackTimeout, 20*time.Second)

	viper.SetDefault(constants.ViperKeyDefaultHeating, 50.0)
	viper.SetDefault(constants.ViperKeyDefaultCooling, 40.0)
	viper.SetDefault(constants.ViperKeyDefaultVentilation, 4.0)
	viper.SetDefault(constants.ViperKeyDefaultVentilationUnit, "per_m2")

	viper.SetDefault(constants.ViperKeyLaborFactor, 0.4)
	viper.SetDefault(constants.ViperKeyOverheadFactor, 0.15)
	viper.SetDefault(constants.ViperKeyRegionalFactor, 1.0)
	viper.SetDefault(constants.ViperKeyContingencyFactor, 1.05)
	viper.SetDefault(constants.ViperKeyRequiredSubgroups, []string{"421", "422", "431", "434"})

	if err := viper.ReadInConfig(); err != nil {
		// config file is optional, env + defaults are enough
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}
