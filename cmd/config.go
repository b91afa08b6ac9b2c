package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// initConfig loads optional defaults from a go-erofs config file. Flags
// given on the command line always win over config file values.
func initConfig() {
	viper.SetConfigName("go-erofs")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/go-erofs")

	viper.SetEnvPrefix("EROFS")
	viper.AutomaticEnv()

	viper.SetDefault("output", "table")
	viper.SetDefault("verbose", false)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logrus.Warnf("failed to read config file: %v", err)
		}
		return
	}

	logrus.Debugf("using config file %s", viper.ConfigFileUsed())

	if !rootCmd.PersistentFlags().Changed("output") {
		outputFormat = viper.GetString("output")
	}
	if !rootCmd.PersistentFlags().Changed("verbose") {
		verbose = viper.GetBool("verbose")
	}
}
