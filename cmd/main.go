package main

import (
	"telemedicine-core/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to start telemedicine-core: %v", err)
	}

	app.Run()
}
