package main

import (
	"context"

	"github.com/SAP-F-2025/exam-client/internal/devserver"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
)

func (a *app) devserverCommand() *cli.Command {
	return &cli.Command{
		Name:  "devserver",
		Usage: "Run an in-memory exam backend for local development",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides DEV_ADDR)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := a.cfg.Dev
			if addr := cmd.String("addr"); addr != "" {
				cfg.Addr = addr
			}
			if a.cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}

			srv, err := devserver.New(cfg, a.logger)
			if err != nil {
				return err
			}
			infoColor.Fprintf(a.out, "Serving on %s as user %q\n", cfg.Addr, cfg.Username)
			return srv.Run(ctx)
		},
	}
}
