package main

import (
	"github.com/joho/godotenv"

	"github.com/blackwell-systems/cardctl/internal/app"
)

// version is set by goreleaser via ldflags.
var version = "dev"

func main() {
	// A .env in the working directory may carry CARDCTL_* settings.
	_ = godotenv.Load()

	app.SetVersion(version)
	app.Execute()
}
