// Package monitor provides a terminal UI that runs the converter core
// against a live serial MIDI stream, showing decoded events and the
// resulting CV/gate state.
package monitor

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"monovox/cv"
	"monovox/midi"
)

var (
	green    = lipgloss.Color("#39FF14")
	amber    = lipgloss.Color("#FFB000")
	gray     = lipgloss.Color("#888888")
	darkGray = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(green).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(gray)

	valueStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	gateOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(green).
			Padding(0, 1)

	gateOffStyle = lipgloss.NewStyle().
			Foreground(gray).
			Background(darkGray).
			Padding(0, 1)

	logStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(amber).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(gray).
			MarginTop(1)
)

const maxLogLines = 500

// memSinks are in-memory output sinks mirroring the hardware DAC and gate.
type memSinks struct {
	volts [2]float32
	gate  bool
}

func (s *memSinks) SetVoltage(ch cv.Channel, v float32) { s.volts[ch] = v }
func (s *memSinks) Set(high bool)                       { s.gate = high }

// counters accumulate stream statistics across Update calls.
type counters struct {
	bytes    int
	realtime int
	overruns int
}

type byteMsg []byte

type readErrMsg struct{ err error }

// Model is the bubbletea model for the monitor UI.
type Model struct {
	device string
	reader io.Reader
	stream chan []byte

	conv  *cv.Converter
	queue *midi.RingBuffer
	sinks *memSinks
	stats *counters
	lines *[]string

	log    viewport.Model
	ready  bool
	width  int
	height int
	err    error
}

// New creates a monitor model decoding bytes from reader. The converter
// core used here is the same code the firmware runs; only the sinks differ.
func New(device string, reader io.Reader, cfg cv.Config) Model {
	queue := midi.NewRingBuffer(midi.DefaultBufferSize)
	sinks := &memSinks{}
	conv := cv.NewConverter(queue, sinks, sinks, cfg)

	lines := make([]string, 0, maxLogLines)
	m := Model{
		device: device,
		reader: reader,
		stream: make(chan []byte, 16),
		conv:   conv,
		queue:  queue,
		sinks:  sinks,
		stats:  &counters{},
		lines:  &lines,
	}

	conv.SetNoteOnTap(func(note, velocity, channel uint8) {
		m.appendLog(fmt.Sprintf("note on   %-4s vel %3d  ch %d", NoteName(note), velocity, channel))
	})
	conv.SetNoteOffTap(func(note, velocity, channel uint8) {
		m.appendLog(fmt.Sprintf("note off  %-4s vel %3d  ch %d", NoteName(note), velocity, channel))
	})
	conv.SetControlChangeTap(func(controller, value, channel uint8) {
		m.appendLog(fmt.Sprintf("cc %3d    val %3d       ch %d", controller, value, channel))
	})
	conv.SetRealtimeHandler(func(status uint8) {
		m.stats.realtime++
	})

	return m
}

func (m Model) appendLog(line string) {
	*m.lines = append(*m.lines, line)
	if len(*m.lines) > maxLogLines {
		*m.lines = (*m.lines)[len(*m.lines)-maxLogLines:]
	}
}

// Init starts the serial read loop.
func (m Model) Init() tea.Cmd {
	go m.readLoop()
	return m.waitForBytes()
}

// instantEOFLimit ends the read loop once this many consecutive reads
// return io.EOF immediately with no data. Serial ports with a read timeout
// report an idle line the same way, but each such read blocks for the
// timeout interval, so only a closed or exhausted reader trips the limit.
const instantEOFLimit = 8

// readLoop moves bytes from the serial port into the stream channel.
func (m Model) readLoop() {
	buf := make([]byte, 64)
	instantEOFs := 0
	for {
		start := time.Now()
		n, err := m.reader.Read(buf)
		if n > 0 {
			instantEOFs = 0
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			m.stream <- chunk
		}
		if err == nil {
			continue
		}
		if err != io.EOF {
			close(m.stream)
			return
		}
		if n == 0 && time.Since(start) < time.Millisecond {
			instantEOFs++
			if instantEOFs >= instantEOFLimit {
				close(m.stream)
				return
			}
			time.Sleep(time.Millisecond)
		} else {
			instantEOFs = 0
		}
	}
}

func (m Model) waitForBytes() tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-m.stream
		if !ok {
			return readErrMsg{err: fmt.Errorf("serial stream closed")}
		}
		return byteMsg(chunk)
	}
}

// Update handles UI events and incoming serial data.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "o":
			m.conv.SetOmni(!m.conv.Omni())
		case "m":
			m.conv.SetMode((m.conv.Mode() + 1) % 3)
		case "+", "=":
			m.conv.SetMIDIChannel(m.conv.MIDIChannel() + 1)
		case "-":
			m.conv.SetMIDIChannel(m.conv.MIDIChannel() - 1)
		case "r":
			m.conv.Reset()
			m.appendLog("-- reset --")
		}

	case byteMsg:
		m.stats.bytes += len(msg)
		for _, b := range msg {
			if !m.queue.Push(b) {
				m.stats.overruns++
			}
		}
		m.conv.Update()
		m.syncLog()
		return m, m.waitForBytes()

	case readErrMsg:
		m.err = msg.err
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logHeight := msg.Height - 12
		if logHeight < 3 {
			logHeight = 3
		}
		if !m.ready {
			m.log = viewport.New(msg.Width-4, logHeight)
			m.ready = true
		} else {
			m.log.Width = msg.Width - 4
			m.log.Height = logHeight
		}
		m.syncLog()
	}

	return m, nil
}

func (m *Model) syncLog() {
	if !m.ready {
		return
	}
	m.log.SetContent(strings.Join(*m.lines, "\n"))
	m.log.GotoBottom()
}

// View renders the converter state and event log.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("monovox monitor — " + m.device))
	b.WriteString("\n")

	gate := gateOffStyle.Render("GATE LOW")
	if m.sinks.gate {
		gate = gateOnStyle.Render("GATE HIGH")
	}
	note, velocity := m.conv.Sounding()

	omni := "off"
	if m.conv.Omni() {
		omni = "on"
	}

	b.WriteString(fmt.Sprintf("%s %s   %s %s (omni %s)   %s %s\n",
		labelStyle.Render("gate:"), gate,
		labelStyle.Render("channel:"), valueStyle.Render(fmt.Sprintf("%d", m.conv.MIDIChannel())), omni,
		labelStyle.Render("mode:"), valueStyle.Render(modeName(m.conv.Mode())),
	))
	b.WriteString(fmt.Sprintf("%s %s (vel %d)   %s %s   %s %s\n",
		labelStyle.Render("note:"), valueStyle.Render(NoteName(note)), velocity,
		labelStyle.Render("pitch:"), valueStyle.Render(fmt.Sprintf("%.3fV", m.sinks.volts[cv.ChannelA])),
		labelStyle.Render("aux:"), valueStyle.Render(fmt.Sprintf("%.3fV", m.sinks.volts[cv.ChannelB])),
	))
	b.WriteString(fmt.Sprintf("%s %d   %s %d   %s %d   %s %d\n",
		labelStyle.Render("held:"), m.conv.Held(),
		labelStyle.Render("bytes:"), m.stats.bytes,
		labelStyle.Render("realtime:"), m.stats.realtime,
		labelStyle.Render("overruns:"), m.stats.overruns,
	))

	if m.ready {
		b.WriteString(logStyle.Render(m.log.View()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("q quit · o omni · m mode · +/- channel · r reset"))

	return b.String()
}

func modeName(m cv.Mode) string {
	switch m {
	case cv.ModeUnison:
		return "unison"
	case cv.ModeModWheel:
		return "modwheel"
	default:
		return "velocity"
	}
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName renders a MIDI note number as pitch + octave (60 = C4).
func NoteName(note uint8) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], int(note/12)-1)
}
