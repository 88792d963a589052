package main

import (
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal"
)

func injectAppContext() *internal.AppInternal {
	app, err := internal.BuildAppInternal()
	if err != nil {
		logger.Fatalf("Failed to wire safeupdate: %s", err)
	}
	return app
}
