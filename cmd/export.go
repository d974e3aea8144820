package cmd

import (
	"github.com/robmorgan/cadence/logger"
	"github.com/robmorgan/cadence/midifile"
	"github.com/robmorgan/cadence/sequence"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <sequence.json> <out.mid>",
	Short: "Render a sequence to a standard MIDI file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sequence.Load(args[0])
		if err != nil {
			return err
		}
		if err := midifile.Write(s, args[1]); err != nil {
			return err
		}
		logger.GetProjectLogger().Infof("exported %s -> %s", args[0], args[1])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <in.mid> <sequence.json>",
	Short: "Build a sequence from a standard MIDI file",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := midifile.Read(args[0])
		if err != nil {
			return err
		}
		if err := s.Save(args[1]); err != nil {
			return err
		}
		logger.GetProjectLogger().Infof("imported %s -> %s", args[0], args[1])
		return nil
	},
	Args: cobra.ExactArgs(2),
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
