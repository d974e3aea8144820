package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/faiface/beep"
	"github.com/robmorgan/cadence/click"
	"github.com/robmorgan/cadence/config"
	"github.com/robmorgan/cadence/logger"
	"github.com/robmorgan/cadence/oscsync"
	"github.com/robmorgan/cadence/rhythm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"k8s.io/utils/clock"
)

var (
	playTempo       float64
	playBeatsPerBar int
	playClick       bool
	playOSCHost     string
	playOSCPort     int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the metronome, with optional click and OSC sync",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().Float64VarP(&playTempo, "tempo", "t", 120.0, "tempo in beats per minute")
	playCmd.Flags().IntVarP(&playBeatsPerBar, "beats-per-bar", "b", 4, "beats per bar")
	playCmd.Flags().BoolVar(&playClick, "click", false, "play an audible click")
	playCmd.Flags().StringVar(&playOSCHost, "osc-host", "", "broadcast sync pulses to this host")
	playCmd.Flags().IntVar(&playOSCPort, "osc-port", 9000, "OSC destination port")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	log := logger.GetProjectLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	cfg.DefaultTempo = playTempo
	cfg.BeatsPerBar = playBeatsPerBar
	cfg.Click = playClick
	cfg.OSC.Host = playOSCHost
	cfg.OSC.Port = playOSCPort
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	metronome := rhythm.NewMetronome(clock.RealClock{}, cfg.DefaultTempo, cfg.BeatsPerBar)
	ticker := rhythm.NewTicker(clock.RealClock{}, metronome, cfg.PulsesPerBeat)

	var player *click.Player
	if cfg.Click {
		player, err = click.NewPlayer(beep.SampleRate(44100))
		if err != nil {
			return err
		}
	}

	var bcast *oscsync.Broadcaster
	if cfg.OSC.Host != "" {
		bcast = oscsync.NewBroadcaster(cfg.OSC.Host, cfg.OSC.Port)
		if err := bcast.SendTempo(cfg.DefaultTempo); err != nil {
			log.WithError(err).Warn("failed to send tempo")
		}
	}

	pulses := make(chan rhythm.Pulse, 16)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker.Run(ctx, pulses)
	}()

	log.WithFields(logrus.Fields{
		"tempo":         cfg.DefaultTempo,
		"beats_per_bar": cfg.BeatsPerBar,
	}).Info("transport running, press ctrl-c to stop")

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			log.Info("transport stopped")
			return nil
		case p := <-pulses:
			if bcast != nil {
				if err := bcast.SendPulse(p); err != nil {
					log.WithError(err).Warn("failed to send pulse")
				}
			}
			if p.Position.TickCount() == 0 {
				s := metronome.GetSnapshotAt(p.At)
				if player != nil {
					player.Click(s.IsDownBeat())
				}
				log.Debugf("beat %d of bar %d at %s", s.BeatWithinBar(), s.Bar, p.Position)
			}
		}
	}
}
