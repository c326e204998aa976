package main

import (
	"fmt"
	"strings"

	"github.com/IllumiKnowLabs/execgate/internal/helper"
	"github.com/IllumiKnowLabs/execgate/pkg/constants"
	"github.com/IllumiKnowLabs/execgate/pkg/logger"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   strings.ToLower(constants.Name),
		Short: fmt.Sprintf("%s, by %s", constants.Name, constants.Author),
		Long:  fmt.Sprintf("%s - %s, by %s", constants.Name, constants.Description, constants.Author),

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug := helper.Must(cmd.Flags().GetBool("debug"))
			logger.Init(logger.WithDebugFlag(debug))
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "Set debug level for logging")

	cmd.AddCommand(NewGetCmd())
	cmd.AddCommand(NewPostCmd())
	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewSiteCmd())

	return cmd
}
