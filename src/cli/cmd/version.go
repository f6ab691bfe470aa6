package cmd

import "github.com/sofmeright/repodescribe/src/version"

func init() {
	rootCmd.Version = version.String()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}
