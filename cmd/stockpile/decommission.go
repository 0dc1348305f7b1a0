package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/stockpile-io/stockpile/cloud/aws"
	"github.com/stockpile-io/stockpile/cmd/stdcli"
	"github.com/stockpile-io/stockpile/common"
	"github.com/stockpile-io/stockpile/registry"
)

func init() {
	stdcli.AddCommand(&cli.Command{
		Name:   "decommission",
		Usage:  "tear down every inventory pipeline resource",
		Action: cmdDecommission,
	})
}

func cmdDecommission(c *cli.Context) error {
	cfg := common.LoadConfig()
	provider := aws.NewProvider(cfg.Region)

	rec, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		log.Warnf("could not read the resource registry %s: %v", cfg.RegistryPath, err)
	}
	if rec == nil {
		log.Warn("no local resource registry found; deleting by naming convention")
	}

	provider.Decommission(aws.DecommissionOptions{
		RoleName: cfg.RoleName,
		Registry: rec,
	})

	if err := registry.Remove(cfg.RegistryPath); err != nil {
		log.Warnf("could not remove the registry file: %v", err)
	} else {
		log.Infof("registry file %s removed", cfg.RegistryPath)
	}

	fmt.Println("\nTeardown complete.")
	return nil
}
