// Package wavio maps mono WAV files to flat float32 sample slices and back.
package wavio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVE format tags as stored in the fmt chunk.
const (
	formatPCM       = 1
	formatIEEEFloat = 3
)

var (
	ErrInvalidWAV          = errors.New("wavio: invalid WAV file")
	ErrUnsupportedChannels = errors.New("wavio: only mono files are supported")
	ErrUnsupportedEncoding = errors.New("wavio: unsupported sample encoding")
)

// Encoding is the on-disk sample representation of a Clip.
type Encoding int

const (
	// EncodingPCM is signed integer PCM (unsigned for 8 bit).
	EncodingPCM Encoding = iota
	// EncodingFloat is 32-bit IEEE float.
	EncodingFloat
)

func (e Encoding) String() string {
	if e == EncodingFloat {
		return "float"
	}
	return "pcm"
}

// Clip is a decoded mono signal. Samples are normalised to [-1, 1]; the
// sample rate, bit depth and encoding travel alongside so the clip can be
// written back in its source format.
type Clip struct {
	SampleRate int
	BitDepth   int
	Encoding   Encoding
	Samples    []float32
}

// Duration returns the playing time of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// WithSamples returns a clip in the same format carrying samples.
func (c *Clip) WithSamples(samples []float32) *Clip {
	return &Clip{
		SampleRate: c.SampleRate,
		BitDepth:   c.BitDepth,
		Encoding:   c.Encoding,
		Samples:    samples,
	}
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Clip, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads a mono WAV stream. Integer PCM of 8, 16, 24 or 32 bits is
// scaled by 2^(bits-1); 32-bit float data is taken as is.
func Decode(r io.ReadSeeker) (*Clip, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	if decoder.NumChans != 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedChannels, decoder.NumChans)
	}

	clip := &Clip{
		SampleRate: int(decoder.SampleRate),
		BitDepth:   int(decoder.BitDepth),
	}

	var err error
	switch decoder.WavAudioFormat {
	case formatPCM:
		clip.Encoding = EncodingPCM
		clip.Samples, err = decodePCM(decoder)
	case formatIEEEFloat:
		clip.Encoding = EncodingFloat
		clip.Samples, err = decodeFloat(decoder)
	default:
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedEncoding, decoder.WavAudioFormat)
	}
	if err != nil {
		return nil, err
	}
	return clip, nil
}

func decodePCM(decoder *wav.Decoder) ([]float32, error) {
	bitDepth := int(decoder.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedEncoding, bitDepth)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not read PCM buffer: %w", err)
	}

	scale := float64(int64(1) << (bitDepth - 1))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		if bitDepth == 8 {
			v -= 128
		}
		samples[i] = float32(float64(v) / scale)
	}
	return samples, nil
}

func decodeFloat(decoder *wav.Decoder) ([]float32, error) {
	if decoder.BitDepth != 32 {
		return nil, fmt.Errorf("%w: %d-bit float", ErrUnsupportedEncoding, decoder.BitDepth)
	}
	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("could not locate data chunk: %w", err)
	}

	samples := make([]float32, decoder.PCMLen()/4)
	if err := binary.Read(decoder.PCMChunk, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("could not read float samples: %w", err)
	}
	return samples, nil
}

// WriteFile encodes clip into a new file at path.
func WriteFile(path string, clip *Clip) error {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output file creation error: %w", err)
	}

	if err := Encode(outFile, clip); err != nil {
		outFile.Close()
		return err
	}
	return outFile.Close()
}

// Encode writes clip as a mono WAV stream in its recorded encoding. PCM
// samples outside [-1, 1] are clipped.
func Encode(w io.WriteSeeker, clip *Clip) error {
	if clip.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidWAV, clip.SampleRate)
	}

	bitDepth, format := clip.BitDepth, formatPCM
	data := make([]int, len(clip.Samples))

	switch clip.Encoding {
	case EncodingFloat:
		bitDepth, format = 32, formatIEEEFloat
		// The encoder writes the low 32 bits of each value, so the float's
		// bit pattern goes through untouched.
		for i, s := range clip.Samples {
			data[i] = int(int32(math.Float32bits(s)))
		}
	case EncodingPCM:
		switch bitDepth {
		case 8, 16, 24, 32:
		case 0:
			bitDepth = 16
		default:
			return fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedEncoding, bitDepth)
		}
		for i, s := range clip.Samples {
			data[i] = quantize(s, bitDepth)
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedEncoding, clip.Encoding)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  clip.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	encoder := wav.NewEncoder(w, clip.SampleRate, bitDepth, 1, format)
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("data writing error: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("could not finalize WAV header: %w", err)
	}
	return nil
}

func quantize(s float32, bitDepth int) int {
	full := float64(int64(1) << (bitDepth - 1))
	v := math.Round(float64(s) * full)
	if v > full-1 {
		v = full - 1
	} else if v < -full {
		v = -full
	}
	if bitDepth == 8 {
		v += 128
	}
	return int(v)
}
