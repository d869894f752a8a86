package transformer

import (
	"fmt"

	"github.com/maximodanilo/llm-demo-app-sub000/utils"
)

// NeuralLayer runs neurons side by side on the same inputs.
type NeuralLayer struct {
	Neurons []*Neuron
}

// NewNeuralLayer builds neuronCount random neurons. They are drawn in order
// from one source seeded with seed.
func NewNeuralLayer(neuronCount, inputSize int, a Activation, seed *int64) (*NeuralLayer, error) {
	if neuronCount <= 0 || inputSize <= 0 {
		return nil, fmt.Errorf("%w: layer %d neurons x %d inputs", ErrInvalidArgument, neuronCount, inputSize)
	}
	if err := checkActivation(a); err != nil {
		return nil, err
	}
	rng := utils.NewRand(seed)
	l := &NeuralLayer{Neurons: make([]*Neuron, neuronCount)}
	for i := range l.Neurons {
		l.Neurons[i] = newRandomNeuron(inputSize, a, rng)
	}
	return l, nil
}

func (l *NeuralLayer) Size() int { return len(l.Neurons) }

// Forward activates every neuron on inputs, in order.
func (l *NeuralLayer) Forward(inputs []float64) ([]float64, error) {
	out := make([]float64, len(l.Neurons))
	for i, n := range l.Neurons {
		v, err := n.Activate(inputs)
		if err != nil {
			return nil, fmt.Errorf("neuron %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// UpdateWeights hands outputGradients[i] to neuron i.
func (l *NeuralLayer) UpdateWeights(inputs []float64, lr float64, outputGradients []float64) error {
	if len(outputGradients) != len(l.Neurons) {
		return fmt.Errorf("%w: %d gradients for %d neurons", ErrInvalidArgument, len(outputGradients), len(l.Neurons))
	}
	for i, n := range l.Neurons {
		if err := n.UpdateWeights(inputs, lr, outputGradients[i]); err != nil {
			return fmt.Errorf("neuron %d: %w", i, err)
		}
	}
	return nil
}
