package transformer

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/maximodanilo/llm-demo-app-sub000/utils"
)

// NeuronConfig describes a neuron. When Weights is nil, InputSize random
// weights are drawn from U(-1,1)*sqrt(2/InputSize) using Seed. A nil Bias
// starts at zero.
type NeuronConfig struct {
	InputSize  int
	Weights    []float64
	Bias       *float64
	Activation Activation
	Seed       *int64
}

// ActivationRecord is the state of one forward pass.
type ActivationRecord struct {
	PreActivation float64
	Output        float64
}

type Neuron struct {
	Weights    []float64
	Bias       float64
	Activation Activation

	last ActivationRecord
}

func NewNeuron(cfg NeuronConfig) (*Neuron, error) {
	if err := checkActivation(cfg.Activation); err != nil {
		return nil, err
	}
	if cfg.Weights == nil {
		if cfg.InputSize <= 0 {
			return nil, fmt.Errorf("%w: input size %d", ErrInvalidArgument, cfg.InputSize)
		}
		n := newRandomNeuron(cfg.InputSize, cfg.Activation, utils.NewRand(cfg.Seed))
		if cfg.Bias != nil {
			n.Bias = *cfg.Bias
		}
		return n, nil
	}
	if cfg.InputSize > 0 && len(cfg.Weights) != cfg.InputSize {
		return nil, fmt.Errorf("%w: %d initial weights for input size %d",
			ErrInvalidArgument, len(cfg.Weights), cfg.InputSize)
	}
	if len(cfg.Weights) == 0 {
		return nil, fmt.Errorf("%w: no weights", ErrInvalidArgument)
	}
	n := &Neuron{
		Weights:    append([]float64(nil), cfg.Weights...),
		Activation: cfg.Activation,
	}
	if cfg.Bias != nil {
		n.Bias = *cfg.Bias
	}
	return n, nil
}

func newRandomNeuron(inputSize int, a Activation, rng *rand.Rand) *Neuron {
	return &Neuron{
		Weights:    utils.RandomArray(rng, inputSize, math.Sqrt(2/float64(inputSize))),
		Activation: a,
	}
}

func (n *Neuron) InputSize() int { return len(n.Weights) }

// LastPreActivation and LastOutput expose the most recent forward pass.
func (n *Neuron) LastPreActivation() float64 { return n.last.PreActivation }
func (n *Neuron) LastOutput() float64        { return n.last.Output }

func (n *Neuron) checkInputs(inputs []float64) error {
	if len(inputs) != len(n.Weights) {
		return fmt.Errorf("%w: %d inputs for %d weights", ErrInvalidArgument, len(inputs), len(n.Weights))
	}
	return nil
}

// Forward computes bias + sum(w*x) (the sum is accumulated first), applies the activation, caches and
// returns the record.
func (n *Neuron) Forward(inputs []float64) (ActivationRecord, error) {
	if err := n.checkInputs(inputs); err != nil {
		return ActivationRecord{}, err
	}
	sum := 0.0
	for i, x := range inputs {
		// explicit rounding keeps the result identical on FMA targets
		sum += float64(x * n.Weights[i])
	}
	pre := n.Bias + sum
	n.last = ActivationRecord{PreActivation: pre, Output: n.Activation.apply(pre)}
	return n.last, nil
}

func (n *Neuron) Activate(inputs []float64) (float64, error) {
	rec, err := n.Forward(inputs)
	return rec.Output, err
}

// CalculateGradient scales outputGradient by the activation derivative at the
// last forward pass. Before any forward pass the cached state is all zeros.
func (n *Neuron) CalculateGradient(outputGradient float64) float64 {
	return n.GradientAt(n.last, outputGradient)
}

// GradientAt is CalculateGradient for an explicit record.
func (n *Neuron) GradientAt(rec ActivationRecord, outputGradient float64) float64 {
	return outputGradient * n.Activation.derivative(rec.PreActivation, rec.Output)
}

// UpdateWeights does w[i] -= lr*g*x[i] and b -= lr*g, with g taken from
// CalculateGradient.
func (n *Neuron) UpdateWeights(inputs []float64, lr, outputGradient float64) error {
	if err := n.checkInputs(inputs); err != nil {
		return err
	}
	g := n.CalculateGradient(outputGradient)
	for i, x := range inputs {
		n.Weights[i] -= lr * g * x
	}
	n.Bias -= lr * g
	return nil
}

// TrainStep runs one squared-error learning step towards target and returns
// the loss measured before the update.
func (n *Neuron) TrainStep(inputs []float64, target, lr float64) (float64, error) {
	rec, err := n.Forward(inputs)
	if err != nil {
		return 0, err
	}
	diff := rec.Output - target
	loss := 0.5 * diff * diff
	if err := n.UpdateWeights(inputs, lr, diff); err != nil {
		return 0, err
	}
	utils.Debugf("neuron: out=%.4f target=%.4f loss=%.6f |w|=%.4f", rec.Output, target, loss, floats.Norm(n.Weights, 2))
	return loss, nil
}
