// Package cmd is for command line interactions with the mascpcr application
package cmd

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hainesm6-learning/mascpcr/logger"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use: "mascpcr",
	Short: `Design multiplexed allele-specific colony PCR primers that
distinguish a recoded genome from its wild-type reference`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd
func Execute() {
	defer logger.Sync()

	if err := RootCmd.Execute(); err != nil {
		logger.Fatal(err.Error())
	}
}

// set flags
func init() {
	cobra.OnInitialize(initSettings)

	RootCmd.PersistentFlags().StringP("settings", "s", "", "path to a YAML settings file")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug detail")
	RootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress the progress bar")
	viper.BindPFlag("settings", RootCmd.PersistentFlags().Lookup("settings"))
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", RootCmd.PersistentFlags().Lookup("quiet"))
}

// initSettings readies the logger and the layered settings sources
// before any command runs: .env, then the settings file, then flags
func initSettings() {
	level := zapcore.InfoLevel
	if viper.GetBool("verbose") {
		level = zapcore.DebugLevel
	}
	if err := logger.Init(level); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to load .env file", zap.Error(err))
	}

	viper.SetEnvPrefix("mascpcr")
	viper.AutomaticEnv()

	if settings := viper.GetString("settings"); settings != "" {
		viper.SetConfigFile(settings)
		if err := viper.ReadInConfig(); err != nil {
			logger.Fatal("failed to read settings file", zap.Error(err))
		}
		return
	}

	viper.SetConfigName(".mascpcr")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			logger.Warn("skipping unreadable settings file", zap.Error(err))
		}
	}
}
