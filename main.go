package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/patrikhermansson/ivfkit/cmd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// main is the entry point of the application.
// The log level comes from IVFKIT_LOG (see the core package).
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// This block sets up a go routine to listen for an interrupt signal which will immediately exit the program
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	go listenForInterrupt(stopChan)

	os.Exit(cmd.Execute(context.Background(), os.Args))
}

// listenForInterrupt listens for an interrupt signal and exits the program when it is received.
func listenForInterrupt(stopChan chan os.Signal) {
	<-stopChan
	log.Fatal().Msg("Interrupt signal received. Exiting...")
}
