//go:build kl25z

package main

import (
	"levelmeter/core"
	"levelmeter/level"
	"levelmeter/protocol"
)

const (
	halfSamples = 64
	decayShift  = 1
	busClockHz  = 24000000
	telemetryHz = 115200

	// one level_state every this many buffer flips
	reportEvery = 16
	// identify again every this many reports for hosts that attach late
	identifyEvery = 64

	// timing probe on PTE5, scope it to see the completion handler
	probeEnabled = true
	probePort    = 4
	probePin     = 5
)

var (
	halfA [halfSamples]int16
	halfB [halfSamples]int16

	board  *core.Board
	stream *core.DoubleBuffer
	meter  *level.Meter
	sender *protocol.Sender
)

func main() {
	board = core.NewBoard(bind32, bind8, nvic{})
	InitClock()
	InitUART(board, telemetryHz)
	core.SetDebugWriter(debugUART)

	conv := converterConfig()
	mux := core.DefaultTransferMuxConfig(board.DMAMUX)
	xfer := transferConfig(board.ADC.ResultAddress(core.MuxA), busAddress(halfA[:]))

	stream = core.NewDoubleBuffer(board.DMA, xfer.Channel, xfer.Source,
		halfA[:], halfB[:], [2]uint32{busAddress(halfA[:]), busAddress(halfB[:])}, core.FillingA)
	meter = level.NewMeter(decayShift)
	stream.SetConsumer(meter.Update)

	if probeEnabled {
		probe, err := core.ConfigureProbe(&core.ProbeConfig{
			Platform:  board.Platform,
			Port:      board.Ports[probePort],
			Regs:      board.GPIO[probePort],
			Pin:       probePin,
			HighDrive: true,
			PullDown:  true,
		})
		if err != nil {
			halt("probe", err)
		}
		stream.SetProbe(probe)
	}

	if err := core.StartStream(&mux, &xfer, &conv); err != nil {
		halt("start", err)
	}

	identify := protocol.Identify{
		Version:     protocol.Version,
		SampleRate:  core.EstimateRate(&conv, busClockHz),
		HalfSamples: halfSamples,
		DecayShift:  decayShift,
	}
	sender = protocol.NewSender(writeUART)

	var reported, reports uint32
	for {
		UpdateSystemTime()
		r, flips := meter.Latest()
		if reports%identifyEvery == 0 {
			sender.Send(func(out protocol.OutputBuffer) {
				protocol.EncodeIdentify(out, identify)
			})
		} else if flips-reported < reportEvery {
			continue
		}
		reported = flips
		reports++
		sent := sender.Sent()
		sender.Send(func(out protocol.OutputBuffer) {
			protocol.EncodeLevelState(out, protocol.LevelState{
				Peak:  r.Peak,
				DBFS:  r.DBFS,
				Flips: stream.Completed(),
			})
		})
		core.RecordTiming(core.EvtReport, 0, core.GetTime(), sender.Sent()-sent, flips)
	}
}

// converterConfig is DAD0 (PTE20/PTE21) in 16-bit differential mode,
// continuous on ADACK with 16 hardware averages, requesting DMA.
func converterConfig() core.ConverterConfig {
	cfg := core.DefaultConverterConfig(board.ADC)
	cfg.Channel = core.ChanDAD0
	cfg.Bits = core.Bits16Diff
	cfg.Clock = core.ClockADACK
	cfg.SampleAdd = core.SampleAdd6
	cfg.Average = core.Average16
	cfg.Convert = core.Continuous
	cfg.DMA = true
	cfg.Port = board.Ports[4]
	cfg.Pin1 = 20
	cfg.Pin2 = 21
	return cfg
}

// transferConfig moves one half of 16-bit results from the fixed result
// register into RAM and raises the completion interrupt.
func transferConfig(src, dst uint32) core.TransferConfig {
	cfg := core.DefaultTransferConfig(board.DMA)
	cfg.Source = src
	cfg.Dest = dst
	cfg.ByteCount = halfSamples * core.SampleBytes
	cfg.Interrupt = true
	cfg.PeripheralRequest = true
	cfg.CycleSteal = true
	cfg.SourceSize = core.Size16
	cfg.DestSize = core.Size16
	cfg.DestIncrement = true
	cfg.AutoDisableRequest = true
	return cfg
}

// halt reports a bring-up failure as plain text on the telemetry link,
// which the host skips as noise, and parks the core
func halt(stage string, err error) {
	core.SetDebugEnabled(true)
	core.DebugPrintln("halt " + stage + ": " + err.Error())
	core.DumpADC(board.ADC)
	core.DumpDMA(board.DMA, core.DMAChannel0)
	core.DumpTimingRing()
	for {
	}
}

//export DMA0_IRQHandler
func dma0IRQHandler() {
	stream.HandleComplete()
}
