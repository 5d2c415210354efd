package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"argus-bot/internal/api/terminal"
	"argus-bot/internal/container"
	"argus-bot/internal/domain/catalog"
	"argus-bot/internal/domain/entity"
	"argus-bot/internal/domain/port"
)

// cliChat — условный чат для одиночного анализа из консоли.
const cliChat = 0

var jsonOutput bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|sample-id>",
	Short: "Analyze one image and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		stderr := cmd.ErrOrStderr()
		notify := port.NotifierFunc(func(message string, level entity.Level) {
			fmt.Fprintln(stderr, terminal.Notification(message, level))
		})
		c, err := container.New(cfg, logger, notify, func(int64) port.Notifier { return notify })
		if err != nil {
			return err
		}
		defer c.Close()

		ctx := cmd.Context()
		c.Start(ctx)
		select {
		case <-c.Classifier.Done():
		case <-ctx.Done():
			return ctx.Err()
		}

		target := args[0]
		if _, ok := catalog.LookupSample(target); ok {
			err = c.Demo.SelectSample(ctx, cliChat, target)
		} else {
			var data []byte
			data, err = os.ReadFile(target)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			err = c.Demo.SelectUpload(cliChat, filepath.Base(target), "", data)
		}
		if err != nil {
			return err
		}

		record, err := c.Demo.Analyze(ctx, cliChat, cliChat)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(record)
		}
		fmt.Fprintln(out, terminal.Card(record))
		return nil
	},
}

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List prepared sample images",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), terminal.SampleTable(catalog.Samples()))
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
}
