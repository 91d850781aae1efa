package main

import (
	"context"
	"log"
	"os"

	"github.com/trysabi/sabi-admin/app"
	"github.com/trysabi/sabi-admin/core"
	logsvc "github.com/trysabi/sabi-admin/services/logger"
	"github.com/trysabi/sabi-admin/services/sheets"
	filesession "github.com/trysabi/sabi-admin/storage/session/file"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stderr, "ADMIN : ", log.LstdFlags)
	var logger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		logger = logsvc.NewStdLogger(std)
	} else {
		rbLogger := logsvc.NewRollbarLogger(std, conf)
		rbLogger.Enable(true)
		logger = rbLogger
	}

	sessionPath := conf.SessionFile
	if sessionPath == "" {
		sessionPath = filesession.DefaultPath(conf.AppName)
	}

	cli := &commandLine{
		app: app.New(conf, logger, filesession.NewStore(sessionPath), sheets.NewClient(conf, logger)),
		in:  os.Stdin,
		out: os.Stdout,
	}
	if err := cli.run(context.Background()); err != nil {
		logger.Fatal(err.Error(), err)
	}
}
