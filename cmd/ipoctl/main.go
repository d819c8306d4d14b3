// Command ipoctl runs IPO operations against the configured store without
// the HTTP server.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"ipo_backend/internal/platform/config"
)

func main() {
	config.LoadDotEnv()
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("ipoctl failed")
		os.Exit(1)
	}
}
