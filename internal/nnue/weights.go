package nnue

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// HeaderSize and Magic follow original_source/nnue.c's NNUE_HEADER_SIZE
// (0x30, 48 bytes) and its "NNUEv2" magic check, adapted here as the
// wire format for this package's weights blob (see SPEC_FULL.md 4.4
// and 6), replacing the teacher's own 4-field "FRKS" header.
const (
	HeaderSize = 48
	Magic      = "NNUEv2"
)

// FileHeader is the fixed 48-byte preamble of a weights file.
type FileHeader struct {
	Magic       [6]byte
	Version     uint16
	FeatureDim  uint32
	L1Size      uint32
	L2Size      uint32
	OutputDim   uint32
	_           [24]byte // reserved, zero-filled
}

// LoadWeights reads a weights file from path.
func LoadWeights(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	return LoadWeightsFromReader(f)
}

// LoadWeightsFromReader parses the header and tensors from r,
// mirroring the teacher's Network weight-file loader but against this
// package's header layout and dimensions.
func LoadWeightsFromReader(r io.Reader) (*Network, error) {
	var hdr FileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("reading header: %w", err)}
	}
	if string(hdr.Magic[:]) != Magic {
		return nil, &LoadError{Err: fmt.Errorf("bad magic %q, want %q", hdr.Magic, Magic)}
	}
	if int(hdr.FeatureDim) != FeatureCount {
		return nil, &LoadError{Err: fmt.Errorf("feature dim %d does not match expected %d", hdr.FeatureDim, FeatureCount)}
	}
	if int(hdr.L1Size) != L1Size || int(hdr.L2Size) != L2Size {
		return nil, &LoadError{Err: fmt.Errorf("unexpected layer sizes %d/%d", hdr.L1Size, hdr.L2Size)}
	}

	n := NewNetwork()
	if err := binary.Read(r, binary.LittleEndian, n.FTWeights); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("reading FT weights: %w", err)}
	}
	if err := binary.Read(r, binary.LittleEndian, &n.FTBias); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("reading FT bias: %w", err)}
	}
	if err := binary.Read(r, binary.LittleEndian, &n.Hidden1Weights); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("reading hidden weights: %w", err)}
	}
	if err := binary.Read(r, binary.LittleEndian, &n.Hidden1Bias); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("reading hidden bias: %w", err)}
	}
	if err := binary.Read(r, binary.LittleEndian, &n.OutputWeights); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("reading output weights: %w", err)}
	}
	if err := binary.Read(r, binary.LittleEndian, &n.OutputBias); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("reading output bias: %w", err)}
	}
	return n, nil
}

// SaveWeights writes the network to path in this package's format.
func (n *Network) SaveWeights(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	hdr := FileHeader{
		Version:    1,
		FeatureDim: uint32(FeatureCount),
		L1Size:     L1Size,
		L2Size:     L2Size,
		OutputDim:  1,
	}
	copy(hdr.Magic[:], Magic)

	if err := binary.Write(f, binary.LittleEndian, hdr); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, n.FTWeights); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, n.FTBias); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, n.Hidden1Weights); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, n.Hidden1Bias); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, n.OutputWeights); err != nil {
		return err
	}
	return binary.Write(f, binary.LittleEndian, n.OutputBias)
}

// LoadError reports a failure to load NNUE weights; per spec.md's
// error-handling design, the caller falls back to material-only eval
// rather than treating this as fatal.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("nnue: loading %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("nnue: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
