package nnue

import "github.com/hailam/shogi-engine/internal/shogi"

// Network dimensions, named after the teacher's internal/nnue/network.go
// constants but resized to this package's FeatureCount.
const (
	L1Size = 256
	L2Size = 32
	// OutputScale divides the raw fixed-point output into centipawns,
	// the Shogi-engine analogue of original_source/nnue.c's FV_SCALE.
	OutputScale = 16
)

// Network holds the quantized weights for a two-hidden-layer NNUE
// evaluator: feature transformer -> ClampedReLU -> dense -> ClampedReLU
// -> dense -> scalar output, mirroring the teacher's Network.Forward
// shape generalized to this package's feature count.
type Network struct {
	FTWeights [][L1Size]int16 // [FeatureCount][L1Size]
	FTBias    [L1Size]int16

	// Hidden1 consumes the concatenated own+enemy perspective
	// accumulators (2*L1Size inputs) after ClampedReLU.
	Hidden1Weights [L2Size][2 * L1Size]int16
	Hidden1Bias    [L2Size]int32

	OutputWeights [L2Size]int16
	OutputBias    int32
}

// NewNetwork allocates a zeroed network sized for FeatureCount inputs.
func NewNetwork() *Network {
	return &Network{FTWeights: make([][L1Size]int16, FeatureCount)}
}

// InitRandom fills the network with small deterministic pseudo-random
// weights, used when no weights file is available, grounded on the
// teacher's Network.InitRandom LCG-seeded fallback.
func (n *Network) InitRandom(seed uint64) {
	state := seed
	next := func() int16 {
		state = state*6364136223846793005 + 1442695040888963407
		return int16((state >> 33) % 41) - 20
	}
	for f := range n.FTWeights {
		for i := 0; i < L1Size; i++ {
			n.FTWeights[f][i] = next()
		}
	}
	for i := 0; i < L1Size; i++ {
		n.FTBias[i] = next()
	}
	for i := 0; i < L2Size; i++ {
		for j := 0; j < 2*L1Size; j++ {
			n.Hidden1Weights[i][j] = next()
		}
		n.Hidden1Bias[i] = int32(next())
	}
	for i := 0; i < L2Size; i++ {
		n.OutputWeights[i] = next()
	}
	n.OutputBias = int32(next())
}

func clampedReLU(x int32) int16 {
	if x < 0 {
		return 0
	}
	if x > 127 {
		return 127
	}
	return int16(x)
}

// Forward runs the quantized network over the given accumulator,
// ordering own-perspective features first, exactly as the teacher's
// Network.Forward orders the side to move's accumulator first. Per
// spec.md 4.4's forward pass, the own-perspective half is ReLU(acc)
// and the opposite-perspective half is ReLU(-acc) — the negation is
// what linearly combines the two perspectives at the hidden layer,
// not a plain concatenation of both ReLUs.
func (n *Network) Forward(acc *Accumulator, sideToMove shogi.Color) int {
	own, enemy := &acc.Black, &acc.White
	if sideToMove == shogi.White {
		own, enemy = &acc.White, &acc.Black
	}

	var hidden [L2Size]int32
	for i := 0; i < L2Size; i++ {
		sum := n.Hidden1Bias[i]
		for j := 0; j < L1Size; j++ {
			sum += int32(clampedReLU(int32(own[j]))) * int32(n.Hidden1Weights[i][j])
		}
		for j := 0; j < L1Size; j++ {
			sum += int32(clampedReLU(-int32(enemy[j]))) * int32(n.Hidden1Weights[i][L1Size+j])
		}
		hidden[i] = sum
	}

	out := n.OutputBias
	for i := 0; i < L2Size; i++ {
		out += int32(clampedReLU(hidden[i])) * int32(n.OutputWeights[i])
	}

	return int(out) / OutputScale
}
