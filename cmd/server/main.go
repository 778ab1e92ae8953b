package main

import (
	"context"
	"os"

	"civicos/internal/cli"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := cli.RootCmd().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("civicos failed")
		os.Exit(1)
	}
}
