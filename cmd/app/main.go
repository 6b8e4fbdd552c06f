package main

import (
	"github.com/jellypick/core/internal/app"
	"github.com/jellypick/core/internal/config"
)

func main() {
	app.Go(config.Load())
}
