package main

import (
	"os"

	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/rover/cmd/flightlog/app"
)

func main() {
	ctx := genericapiserver.SetupSignalContext()
	if err := app.NewFlightLogCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
