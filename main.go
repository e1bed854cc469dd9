package main

import (
	"context"
	"os"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"riad/internal/interfaces/cli"
)

func main() {
	log.Init(logrus.InfoLevel)

	if err := cli.NewRoot().ExecuteContext(context.Background()); err != nil {
		logrus.WithError(err).Error("riad failed")
		os.Exit(1)
	}
}
