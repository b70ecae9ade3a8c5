// Package main is the host-side companion CLI for the monovox converter.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"monovox/cv"
	"monovox/host/monitor"
	"monovox/host/serial"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

var (
	device      string
	baud        int
	midiChannel uint8
	omni        bool
	mode        string
	inPortName  string
	rootNote    uint8
	noteCount   int
	velocity    uint8
	gateMs      int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "monovox-host",
	Short: "Drive and monitor a monovox MIDI-to-CV converter over serial",
	Long: `monovox-host talks to a monovox converter board over a serial link.

It can mirror the converter's behavior on the host (monitor), generate test
MIDI byte streams (send), and forward a desktop MIDI input port to the board
(bridge).

Examples:
  monovox-host monitor --device /dev/ttyUSB0
  monovox-host send --device /dev/ttyUSB0 --root 48 --count 8
  monovox-host bridge --device /dev/ttyUSB0 --in Launchkey
  monovox-host ports`,
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Decode the serial MIDI stream in a terminal UI",
	RunE:  runMonitor,
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a test note sequence to the serial device",
	RunE:  runSend,
}

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Forward a MIDI input port to the serial device",
	RunE:  runBridge,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available MIDI input ports",
	RunE:  runPorts,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&device, "device", "d", "/dev/ttyUSB0", "Serial device path")
	rootCmd.PersistentFlags().IntVarP(&baud, "baud", "b", 31250, "Serial baud rate")
	rootCmd.PersistentFlags().Uint8VarP(&midiChannel, "channel", "c", 1, "MIDI channel (1-16)")

	monitorCmd.Flags().BoolVar(&omni, "omni", false, "Accept all MIDI channels")
	monitorCmd.Flags().StringVar(&mode, "mode", "velocity", "Aux CV mode (velocity|unison|modwheel)")

	sendCmd.Flags().Uint8Var(&rootNote, "root", 48, "First MIDI note of the sequence")
	sendCmd.Flags().IntVar(&noteCount, "count", 8, "Number of notes to send")
	sendCmd.Flags().Uint8Var(&velocity, "velocity", 100, "Note velocity (1-127)")
	sendCmd.Flags().IntVar(&gateMs, "gate-ms", 200, "Gate time per note in milliseconds")

	bridgeCmd.Flags().StringVar(&inPortName, "in", "", "MIDI input port name substring (first port if empty)")

	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(bridgeCmd)
	rootCmd.AddCommand(portsCmd)
}

func openPort() (serial.Port, error) {
	cfg := serial.DefaultConfig(device)
	cfg.Baud = baud
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("serial: port opened", "device", device, "baud", baud)
	return port, nil
}

func parseMode(s string) (cv.Mode, error) {
	switch s {
	case "velocity":
		return cv.ModeVelocity, nil
	case "unison":
		return cv.ModeUnison, nil
	case "modwheel":
		return cv.ModeModWheel, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want velocity, unison or modwheel)", s)
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	auxMode, err := parseMode(mode)
	if err != nil {
		return err
	}

	port, err := openPort()
	if err != nil {
		return err
	}
	defer port.Close()

	m := monitor.New(device, port, cv.Config{
		MIDIChannel: midiChannel,
		Omni:        omni,
		Mode:        auxMode,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("monitor failed: %w", err)
	}
	return nil
}

func runSend(cmd *cobra.Command, args []string) error {
	port, err := openPort()
	if err != nil {
		return err
	}
	defer port.Close()

	// gomidi channels are 0-based
	ch := midiChannel - 1

	logger.Info("send: starting sequence", "root", rootNote, "count", noteCount, "channel", midiChannel)

	// Whole-tone walk upward from the root so each pitch CV step is audible
	for i := 0; i < noteCount; i++ {
		note := rootNote + uint8(i*2)
		if note > 127 {
			break
		}

		on := gomidi.NoteOn(ch, note, velocity)
		if _, err := port.Write(on.Bytes()); err != nil {
			return fmt.Errorf("write note on: %w", err)
		}
		time.Sleep(time.Duration(gateMs) * time.Millisecond)

		off := gomidi.NoteOff(ch, note)
		if _, err := port.Write(off.Bytes()); err != nil {
			return fmt.Errorf("write note off: %w", err)
		}
		time.Sleep(time.Duration(gateMs/2) * time.Millisecond)
	}

	// Mod wheel sweep exercises the aux CV path
	for _, v := range []uint8{0, 32, 64, 96, 127, 64, 0} {
		ccMsg := gomidi.ControlChange(ch, 1, v)
		if _, err := port.Write(ccMsg.Bytes()); err != nil {
			return fmt.Errorf("write control change: %w", err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	// Leave the bend centered
	bend := gomidi.Pitchbend(ch, 0)
	if _, err := port.Write(bend.Bytes()); err != nil {
		return fmt.Errorf("write pitch bend: %w", err)
	}

	logger.Info("send: sequence complete")
	return nil
}

func runBridge(cmd *cobra.Command, args []string) error {
	port, err := openPort()
	if err != nil {
		return err
	}
	defer port.Close()

	drv, err := rtmididrv.New()
	if err != nil {
		return fmt.Errorf("rtmididrv: %w", err)
	}
	defer drv.Close()

	in, err := pickInput(drv, inPortName)
	if err != nil {
		return err
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		if _, err := port.Write(msg.Bytes()); err != nil {
			logger.Error("bridge: serial write failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("listen on %s: %w", in.String(), err)
	}
	defer stop()

	logger.Info("bridge: forwarding", "in", in.String(), "device", device)
	fmt.Println("Bridging MIDI to serial. Press Ctrl+C to stop.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig

	logger.Info("bridge: stopping")
	return nil
}

func runPorts(cmd *cobra.Command, args []string) error {
	drv, err := rtmididrv.New()
	if err != nil {
		return fmt.Errorf("rtmididrv: %w", err)
	}
	defer drv.Close()

	ins, err := drv.Ins()
	if err != nil {
		return fmt.Errorf("list inputs: %w", err)
	}
	if len(ins) == 0 {
		fmt.Println("No MIDI input ports found.")
		return nil
	}
	for i, in := range ins {
		fmt.Printf("%2d: %s\n", i, in.String())
	}
	return nil
}

// pickInput returns the first input port whose name contains name, or the
// first port when name is empty.
func pickInput(drv *rtmididrv.Driver, name string) (drivers.In, error) {
	ins, err := drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list inputs: %w", err)
	}
	if len(ins) == 0 {
		return nil, fmt.Errorf("no MIDI input ports available")
	}
	if name == "" {
		return ins[0], nil
	}
	for _, in := range ins {
		if strings.Contains(strings.ToLower(in.String()), strings.ToLower(name)) {
			return in, nil
		}
	}
	return nil, fmt.Errorf("no MIDI input port matching %q", name)
}
