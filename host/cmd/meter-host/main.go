package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"levelmeter/host/monitor"
	"levelmeter/host/profile"
	"levelmeter/host/serial"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "monitor":
		err = runMonitor(os.Args[2:])
	case "rate", "profile":
		err = runProfile(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Level meter host")
	fmt.Println("\nUsage:")
	fmt.Println("  meter-host monitor [-device path] [-baud n] [-count n] [-bar-shift n]")
	fmt.Println("  meter-host rate [-profile file.json] [-dump] [-json]")
	fmt.Println()
}

func runMonitor(args []string) error {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	device := fs.String("device", "/dev/ttyACM0", "Serial device path")
	baud := fs.Int("baud", serial.DefaultBaud, "Baud rate")
	count := fs.Uint("count", 0, "Stop after this many reports (0 runs until interrupted)")
	barShift := fs.Uint("bar-shift", profile.DefaultBarShift, "Bar scale: one column per 2^n counts")
	timeout := fs.Duration("timeout", 2*time.Second, "Fail when the board is silent this long")
	fs.Parse(args)

	m := monitor.New(os.Stdout, uint8(*barShift))

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	fmt.Printf("Connecting to meter on %s...\n", *device)
	if err := m.ConnectWithConfig(cfg); err != nil {
		return err
	}

	// Close on Ctrl-C so Run returns and stats get printed
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		m.Close()
	}()

	err := m.Run(uint32(*count), *timeout)
	m.PrintStats()
	m.Close()
	return err
}

func runProfile(args []string) error {
	fs := flag.NewFlagSet("rate", flag.ExitOnError)
	path := fs.String("profile", "", "Profile JSON (board defaults when empty)")
	dump := fs.Bool("dump", false, "Dry-run the bring-up and print the register images")
	asJSON := fs.Bool("json", false, "Print the resolved profile")
	fs.Parse(args)

	p := profile.Default()
	if *path != "" {
		loaded, err := profile.Load(*path)
		if err != nil {
			return err
		}
		p = *loaded
	}

	if *asJSON {
		data, err := p.Marshal()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}

	rate := p.SampleRate()
	fmt.Printf("Profile %s\n", p.Name)
	fmt.Printf("  converter: %s, %s bits, clock %s, average %d\n",
		p.Converter.Channel, p.Converter.Bits, p.Converter.Clock, averageCount(p))
	if rate == 0 {
		fmt.Println("  sample rate: out of range (clock above the ceiling or unknown)")
	} else {
		fmt.Printf("  sample rate: %d Hz\n", rate)
		fmt.Printf("  level updates: %.1f per second (%d-sample halves)\n", p.UpdateRate(), p.Transfer.HalfSamples)
	}

	if *dump {
		report, err := p.DryRun()
		if err != nil {
			return fmt.Errorf("bring-up rejected: %w", err)
		}
		fmt.Println("\nRegister images:")
		report.Print(os.Stdout)
	}
	return nil
}

func averageCount(p profile.Profile) uint32 {
	cfg := p.ConverterConfig(nil, nil)
	n, _ := cfg.Average.Count()
	return n
}
