package cmd

import (
	"fmt"

	"github.com/robmorgan/cadence/beats"
	"github.com/robmorgan/cadence/logger"
	"github.com/robmorgan/cadence/sequence"
	"github.com/spf13/cobra"
)

var (
	quantizeGrid int
	quantizeMode string
	quantizeOut  string
)

var quantizeCmd = &cobra.Command{
	Use:   "quantize <sequence.json>",
	Short: "Snap a sequence's events to a subdivision grid",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuantize,
}

func init() {
	quantizeCmd.Flags().IntVarP(&quantizeGrid, "grid", "g", 4, "subdivisions per beat")
	quantizeCmd.Flags().StringVarP(&quantizeMode, "mode", "m", "nearest", "rounding mode: nearest, up, up-or-stay, down, down-or-stay")
	quantizeCmd.Flags().StringVarP(&quantizeOut, "out", "o", "", "output file (defaults to overwriting the input)")
	rootCmd.AddCommand(quantizeCmd)
}

func parseRoundMode(s string) (beats.RoundMode, error) {
	switch s {
	case "nearest":
		return beats.RoundNearest, nil
	case "up":
		return beats.RoundUpAlways, nil
	case "up-or-stay":
		return beats.RoundUpMaybe, nil
	case "down":
		return beats.RoundDownAlways, nil
	case "down-or-stay":
		return beats.RoundDownMaybe, nil
	}
	return 0, fmt.Errorf("unknown rounding mode %q", s)
}

func runQuantize(cmd *cobra.Command, args []string) error {
	mode, err := parseRoundMode(quantizeMode)
	if err != nil {
		return err
	}
	// Validate here so bad flags surface as errors, not panics.
	if quantizeGrid <= 0 || beats.PPQN%int32(quantizeGrid) != 0 {
		return fmt.Errorf("grid %d must divide %d evenly", quantizeGrid, beats.PPQN)
	}

	s, err := sequence.Load(args[0])
	if err != nil {
		return err
	}
	s.Quantize(quantizeGrid, mode)

	out := quantizeOut
	if out == "" {
		out = args[0]
	}
	if err := s.Save(out); err != nil {
		return err
	}

	logger.GetProjectLogger().Infof("quantized %s to a 1/%d grid (%s) -> %s", args[0], quantizeGrid, quantizeMode, out)
	return nil
}
