// Command silkdecode decodes a raw SILK bitstream (a sequence of frame
// payloads, each preceded by its length as a big-endian uint16) into a
// 16-bit PCM WAV file. It exists
// as an external collaborator exercising the core decoder package, not as
// part of the decoder's own scope.
package main

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/pflag"

	"github.com/silkcore/decoder/silk"
)

func main() {
	var (
		inPath   string
		outPath  string
		fsKHz    int
		frameMs  int
		lossRate float64
		verbose  bool
	)

	pflag.StringVarP(&inPath, "in", "i", "", "path to a length-prefixed SILK frame stream ('-' for stdin)")
	pflag.StringVarP(&outPath, "out", "o", "", "path to the output WAV file")
	pflag.IntVar(&fsKHz, "rate", 16, "internal sample rate in kHz (8, 12, 16, or 24)")
	pflag.IntVar(&frameMs, "frame-ms", 20, "frame duration in ms (10 or 20)")
	pflag.Float64Var(&lossRate, "loss-rate", 0, "fraction of frames to simulate as lost, for PLC exercise (0-1)")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "log one line per decoded frame")
	pflag.Parse()

	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if inPath == "" || outPath == "" {
		logger.Error("both --in and --out are required")
		pflag.Usage()
		os.Exit(2)
	}

	if err := run(inPath, outPath, fsKHz, frameMs, lossRate, logger); err != nil {
		logger.Error("decode failed", "err", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, fsKHz, frameMs int, lossRate float64, logger *log.Logger) error {
	in, err := openInput(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	dec := silk.NewDecoder()
	if err := dec.SetFs(fsKHz, frameMs); err != nil {
		return err
	}

	enc := wav.NewEncoder(outFile, fsKHz*1000, 16, 1, 1)
	defer enc.Close()

	frameLength := frameMs * fsKHz
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: fsKHz * 1000},
		SourceBitDepth: 16,
		Data:           make([]int, frameLength),
	}

	r := bufio.NewReader(in)
	pcm := make([]int16, frameLength)
	condCoding := 0
	frameIdx := 0

	for {
		payload, readErr := readFrame(r)
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}

		if lossRate > 0 && simulateLoss(frameIdx, lossRate) {
			payload = nil
		}

		if err := dec.DecodeFrame(payload, condCoding, pcm); err != nil {
			logger.Warn("frame decode error, concealing", "index", frameIdx, "err", err)
			if err := dec.DecodeFrame(nil, condCoding, pcm); err != nil {
				return err
			}
		} else if verbose {
			logger.Debug("decoded frame", "index", frameIdx, "bytes", len(payload))
		}

		for i, s := range pcm {
			buf.Data[i] = int(s)
		}
		if err := enc.Write(buf); err != nil {
			return err
		}

		condCoding = 2 // subsequent frames in the same packet decode conditionally
		frameIdx++
	}

	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// readFrame reads one uint16-length-prefixed SILK payload.
func readFrame(r *bufio.Reader) ([]byte, error) {
	var length uint16
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// simulateLoss deterministically drops every Nth frame so a fixed
// loss-rate run is reproducible without a random source.
func simulateLoss(index int, rate float64) bool {
	if rate <= 0 {
		return false
	}
	period := int(1.0 / rate)
	if period < 1 {
		period = 1
	}
	return index%period == 0
}
