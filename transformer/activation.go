package transformer

import (
	"fmt"
	"math"
)

// Activation is the scalar non-linearity applied by a Neuron.
type Activation int

const (
	ReLU Activation = iota
	Sigmoid
	Tanh
	Linear
)

func (a Activation) String() string {
	switch a {
	case ReLU:
		return "relu"
	case Sigmoid:
		return "sigmoid"
	case Tanh:
		return "tanh"
	case Linear:
		return "linear"
	}
	return fmt.Sprintf("Activation(%d)", int(a))
}

func (a Activation) valid() bool {
	return a >= ReLU && a <= Linear
}

func checkActivation(a Activation) error {
	if !a.valid() {
		return fmt.Errorf("%w: unknown activation %v", ErrInvalidArgument, a)
	}
	return nil
}

func ParseActivation(name string) (Activation, error) {
	switch name {
	case "relu":
		return ReLU, nil
	case "sigmoid":
		return Sigmoid, nil
	case "tanh":
		return Tanh, nil
	case "linear":
		return Linear, nil
	}
	return 0, fmt.Errorf("%w: unknown activation %q", ErrInvalidArgument, name)
}

func (a Activation) apply(x float64) float64 {
	switch a {
	case ReLU:
		return math.Max(0, x)
	case Sigmoid:
		return 1 / (1 + math.Exp(-x))
	case Tanh:
		return math.Tanh(x)
	}
	return x
}

// derivative is evaluated from the cached pre-activation and output.
func (a Activation) derivative(pre, out float64) float64 {
	switch a {
	case ReLU:
		if pre > 0 {
			return 1
		}
		return 0
	case Sigmoid:
		return out * (1 - out)
	case Tanh:
		return 1 - out*out
	}
	return 1
}
