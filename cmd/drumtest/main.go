package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"go-groove/midi"
	"go-groove/sequencer"
	"go-groove/synth"
	"go-groove/voice"
)

const gap = 0.5 // seconds between strikes

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer midi.CloseDriver()

	switch os.Args[1] {
	case "list":
		listPorts()
	case "synth":
		testSynth()
	case "midi":
		if len(os.Args) < 3 {
			usage()
			return
		}
		kit := midi.DefaultKit
		if len(os.Args) > 3 {
			kit = os.Args[3]
		}
		testMIDI(os.Args[2], kit)
	case "poll":
		pollPorts()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Drum Output Tests")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list              - List MIDI output ports")
	fmt.Println("  synth             - Strike every voice on the built-in synth")
	fmt.Println("  midi <port> [kit] - Strike every voice on a MIDI port (kits: " + strings.Join(midi.KitNames(), ", ") + ")")
	fmt.Println("  poll              - Watch for output port changes")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	names, err := midi.OutPorts()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	if len(names) == 0 {
		fmt.Println("  (none)")
	}
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

// strikeAll plays each family's representative voice once, gap seconds apart.
func strikeAll(clock sequencer.Clock, out sequencer.Striker) time.Duration {
	start := clock.Now() + 0.1
	for i, f := range voice.Families {
		id := f.Representative()
		fmt.Printf("  %-10s note %d\n", f, id)
		out.Strike(id, start+float64(i)*gap, 110)
	}
	return time.Duration((0.1+float64(len(voice.Families))*gap+1.5)*1000) * time.Millisecond
}

func testSynth() {
	engine := synth.New(synth.DefaultSampleRate)
	if err := engine.Open(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer engine.Close()

	fmt.Printf("Synth open at %d Hz\n", engine.Mixer().SampleRate())
	time.Sleep(strikeAll(engine, engine))
	fmt.Println("Done!")
}

func testMIDI(port, kit string) {
	out, err := midi.OpenOut(port, kit, midi.DrumChannel)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer out.Close()

	fmt.Printf("Using output: %s (kit %s)\n", out.Name(), out.Kit().Name)
	time.Sleep(strikeAll(out, out))
	fmt.Println("Done!")
}

func pollPorts() {
	fmt.Println("Watching output ports...")
	fmt.Println("Connect/disconnect a drum machine to test. Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := midi.NewWatcher()
	go w.Run(ctx)
	for ev := range w.Events() {
		fmt.Printf("[%s] %s: %s\n", time.Now().Format("15:04:05"), ev.Type, ev.Name)
		fmt.Printf("  Outputs: %v\n", w.Ports())
	}
}
