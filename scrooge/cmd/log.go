package main

import (
	"io"

	"github.com/Luismorlan/scrooge_in_go/scrooge"
	"github.com/Luismorlan/scrooge_in_go/signature"
	"github.com/Luismorlan/scrooge_in_go/tx_handler"
	"github.com/btcsuite/btclog"
)

// subsystemLoggers maps each subsystem tag to the function installing its logger.
var subsystemLoggers = map[string]func(btclog.Logger){
	"SCRG": scrooge.UseLogger,
	"TXHD": tx_handler.UseLogger,
	"SIGN": signature.UseLogger,
}

// setupLoggers directs every subsystem to w at the given level and returns the logger of main.
func setupLoggers(w io.Writer, level string) btclog.Logger {
	backend := btclog.NewBackend(w)
	lvl, _ := btclog.LevelFromString(level)
	for tag, use := range subsystemLoggers {
		logger := backend.Logger(tag)
		logger.SetLevel(lvl)
		use(logger)
	}
	mainLog := backend.Logger("MAIN")
	mainLog.SetLevel(lvl)
	return mainLog
}
