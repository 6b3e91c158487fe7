// main.go - Entry point for the Intuition Ambient player

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████\033[0m\n\033[38;2;255;50;147m▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀\033[0m\n\033[38;2;255;80;147m▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███\033[0m\n\033[38;2;255;110;147m░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄\033[0m\n\033[38;2;255;140;147m░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒\033[0m\n\033[38;2;255;170;147m░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░\033[0m\n\033[38;2;255;200;147m ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░\033[0m\n\033[38;2;255;230;147m ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░\033[0m\n\033[38;2;255;255;147m ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░\033[0m")
	fmt.Println("\nIntuition Ambient: an endless, seeded generative drone for the terminal.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionEngine")
	fmt.Println("License: GPLv3 or later")
}

type options struct {
	configPath string
	render     bool
	features   bool
	quiet      bool
	timestamp  int64
	settings   *Settings
}

// parseOptions loads the settings file and overlays any flags given
// explicitly on the command line.
func parseOptions(args []string) (*options, error) {
	var (
		tone       float64
		duration   string
		exportDir  string
		exportMIDI bool
		verbose    bool
		opts       options
	)

	flagSet := flag.NewFlagSet("intuition_ambient", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.Float64Var(&tone, "tone", BASE_FREQ_DEFAULT, "Base frequency in Hz (30-200)")
	flagSet.StringVar(&duration, "duration", durationTokens[0], "Piece length: 60, 300, 600, 1800 or infinite")
	flagSet.StringVar(&opts.configPath, "config", "", "Settings file (YAML)")
	flagSet.StringVar(&exportDir, "export-dir", ".", "Directory for exported recordings")
	flagSet.BoolVar(&exportMIDI, "midi", false, "Also export a Standard MIDI File")
	flagSet.BoolVar(&opts.render, "render", false, "Render the first minute offline and exit")
	flagSet.Int64Var(&opts.timestamp, "timestamp", 0, "Seed timestamp in milliseconds (reproducible sessions)")
	flagSet.BoolVar(&verbose, "v", false, "Verbose debug logging")
	flagSet.BoolVar(&opts.quiet, "q", false, "Only print warnings and errors")
	flagSet.BoolVar(&opts.features, "features", false, "Print version and compiled features, then exit")
	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./intuition_ambient [-tone 110] [-duration 300] [-config ambient.yaml] [-render] [-midi]")
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if flagSet.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", flagSet.Arg(0))
	}

	settings, err := LoadSettingsOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tone":
			settings.Tone = tone
		case "duration":
			settings.Duration = duration
		case "export-dir":
			settings.ExportDir = exportDir
		case "midi":
			settings.ExportMIDI = exportMIDI
		case "v":
			settings.Debug = verbose
		}
	})
	opts.settings = settings
	return &opts, nil
}

func exportWriters(s *Settings) ExportWriter {
	writers := MultiExportWriter{NewWAVExportWriter(s.ExportDir)}
	if s.ExportMIDI {
		writers = append(writers, &MIDIExportWriter{Dir: s.ExportDir})
	}
	return writers
}

// renderOnly exports the opening minute of a session without a device.
func renderOnly(opts *options) error {
	s := opts.settings
	ts := opts.timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	policy, _ := ParseDurationPolicy(s.Duration)
	_, _, snap := NewSessionState(SessionSeed(ts, s.Tone, policy.Token), s.Tone, policy)
	logInfo("%s", snap.Banner())

	exporter := NewMirrorExporter(exportWriters(s))
	results, err := exporter.Export(snap)
	if err != nil {
		return err
	}
	return (<-results).Err
}

func interactive(opts *options) error {
	s := opts.settings

	bus := NewAmbientBus(SAMPLE_RATE)
	output, err := NewAudioOutput(SAMPLE_RATE, bus)
	if err != nil {
		return fmt.Errorf("failed to initialize sound: %w", err)
	}
	defer output.Close()

	sched := NewLiveScheduler(bus, bus)
	sched.SetTiming(time.Duration(s.TickMS)*time.Millisecond, float64(s.LookAheadMS)/1000)
	defer func() {
		sched.Reset()
		bus.Reset()
	}()
	exporter := NewMirrorExporter(exportWriters(s))
	player := NewAmbientPlayer(sched, exporter)
	player.SetSeedTimestamp(opts.timestamp)

	finished := make(chan FinishReason, 1)
	sched.OnFinished(func(reason FinishReason, err error) {
		select {
		case finished <- reason:
		default:
		}
	})

	host := NewTerminalHost()

	output.Start()
	player.Start(s.Tone, s.Duration)
	if err := host.Start(); err != nil {
		logWarn("keyboard control unavailable: %v", err)
	} else {
		defer host.Stop()
	}
	fmt.Printf("Playing %.2f Hz, %s. Keys: p play, s stop, r export, q quit\r\n", s.Tone, player.DurationText())

	for {
		select {
		case b := <-host.Keys():
			switch keyAction(b) {
			case KEY_START:
				player.Start(s.Tone, s.Duration)
			case KEY_STOP:
				player.Stop()
			case KEY_EXPORT:
				results, err := player.TriggerExport()
				if err != nil {
					logWarn("export: %v", err)
					continue
				}
				go func() {
					if res := <-results; res.Err != nil {
						logError("export: %v", res.Err)
					}
				}()
			case KEY_QUIT:
				player.Stop()
				exporter.Wait()
				// let the stop fade reach the device
				time.Sleep(STOP_GRACE_MS * time.Millisecond)
				return nil
			}
		case reason := <-finished:
			if reason == FINISH_NATURAL {
				exporter.Wait()
				return nil
			}
			if err := sched.Err(); err != nil {
				logWarn("session ended: %v", err)
			}
		}
	}
}

func main() {
	boilerPlate()

	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if opts.features {
		printFeatures(os.Stdout)
		return
	}

	s := opts.settings
	for _, w := range s.Normalize() {
		fmt.Printf("Warning: %v\n", w)
	}
	quiet = opts.quiet
	setupLogging(s.Debug, s.LogDir)

	if opts.render {
		err = renderOnly(opts)
	} else {
		err = interactive(opts)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if opts.configPath != "" {
		if err := s.Save(opts.configPath); err != nil {
			fmt.Printf("Warning: %v\n", err)
		}
	}
}
