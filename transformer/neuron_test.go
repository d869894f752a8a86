package transformer

import (
	"errors"
	"math"
	"testing"
)

func bias(b float64) *float64 { return &b }

func mustNeuron(t *testing.T, w []float64, b float64, a Activation) *Neuron {
	t.Helper()
	n, err := NewNeuron(NeuronConfig{InputSize: len(w), Weights: w, Bias: &b, Activation: a})
	if err != nil {
		t.Fatalf("NewNeuron: %v", err)
	}
	return n
}

func TestReLUActivate(t *testing.T) {
	n := mustNeuron(t, []float64{0.5, -0.5, 0.2}, -0.1, ReLU)

	out, err := n.Activate([]float64{0.3, 0.7, 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(n.LastPreActivation()-(-0.28)) > 1e-12 || out != 0 {
		t.Fatalf("pre=%v out=%v want -0.28 0", n.LastPreActivation(), out)
	}

	out, _ = n.Activate([]float64{1.0, 0.0, 0.5})
	if math.Abs(n.LastPreActivation()-0.5) > 1e-12 || math.Abs(out-0.5) > 1e-12 {
		t.Fatalf("pre=%v out=%v want 0.5 0.5", n.LastPreActivation(), out)
	}
	if n.LastOutput() != out {
		t.Fatalf("LastOutput=%v want %v", n.LastOutput(), out)
	}
}

func TestActivationFunctions(t *testing.T) {
	cases := []struct {
		a    Activation
		pre  float64
		want float64
	}{
		{Linear, 1.6, 1.6},
		{ReLU, -2, 0},
		{ReLU, 2, 2},
		{Sigmoid, 0, 0.5},
		{Sigmoid, 2, 1 / (1 + math.Exp(-2))},
		{Tanh, 0, 0},
		{Tanh, 1, (math.E - 1/math.E) / (math.E + 1/math.E)},
	}
	for _, c := range cases {
		n := mustNeuron(t, []float64{1}, 0, c.a)
		out, _ := n.Activate([]float64{c.pre})
		if math.Abs(out-c.want) > 1e-12 {
			t.Fatalf("%v(%v)=%v want %v", c.a, c.pre, out, c.want)
		}
	}
}

func TestLinearActivate(t *testing.T) {
	n := mustNeuron(t, []float64{0.5, 0.5}, 0.1, Linear)
	out, _ := n.Activate([]float64{1.0, 2.0})
	if math.Abs(out-1.6) > 1e-12 {
		t.Fatalf("out=%v want 1.6", out)
	}
}

func TestUpdateWeightsReLU(t *testing.T) {
	n := mustNeuron(t, []float64{0.5, -0.3}, 0.1, ReLU)
	in := []float64{1.0, 2.0}
	if _, err := n.Activate(in); err != nil {
		t.Fatal(err)
	}
	if n.LastPreActivation() <= 0 {
		t.Fatalf("pre-activation %v should be positive", n.LastPreActivation())
	}
	if err := n.UpdateWeights(in, 0.1, 1.0); err != nil {
		t.Fatal(err)
	}
	want := []float64{0.4, -0.5}
	for i := range want {
		if math.Abs(n.Weights[i]-want[i]) > 1e-12 {
			t.Fatalf("weights=%v want %v", n.Weights, want)
		}
	}
	if math.Abs(n.Bias) > 1e-12 {
		t.Fatalf("bias=%v want 0", n.Bias)
	}
}

func TestGradientDerivatives(t *testing.T) {
	n := mustNeuron(t, []float64{1}, 0, Sigmoid)
	n.Activate([]float64{0})
	if g := n.CalculateGradient(2); math.Abs(g-0.5) > 1e-12 {
		t.Fatalf("sigmoid grad=%v want 0.5", g)
	}
	n = mustNeuron(t, []float64{1}, 0, Tanh)
	n.Activate([]float64{0})
	if g := n.CalculateGradient(3); math.Abs(g-3) > 1e-12 {
		t.Fatalf("tanh grad=%v want 3", g)
	}
	n = mustNeuron(t, []float64{1}, 0, ReLU)
	n.Activate([]float64{-1})
	if g := n.CalculateGradient(3); g != 0 {
		t.Fatalf("relu grad=%v want 0", g)
	}
	n = mustNeuron(t, []float64{1}, 0, Linear)
	n.Activate([]float64{-5})
	if g := n.CalculateGradient(3); g != 3 {
		t.Fatalf("linear grad=%v want 3", g)
	}
}

func TestGradientBeforeActivation(t *testing.T) {
	want := map[Activation]float64{ReLU: 0, Sigmoid: 0, Tanh: 2, Linear: 2}
	for a, w := range want {
		n := mustNeuron(t, []float64{1, 1}, 0, a)
		if g := n.CalculateGradient(2); g != w {
			t.Fatalf("%v grad before activation=%v want %v", a, g, w)
		}
	}
}

func TestGradientAtExplicitRecord(t *testing.T) {
	n := mustNeuron(t, []float64{1}, 0, Sigmoid)
	rec, _ := n.Forward([]float64{2})
	n.Activate([]float64{-7})
	want := rec.Output * (1 - rec.Output)
	if g := n.GradientAt(rec, 1); math.Abs(g-want) > 1e-12 {
		t.Fatalf("GradientAt=%v want %v", g, want)
	}
}

func TestNeuronArgumentErrors(t *testing.T) {
	if _, err := NewNeuron(NeuronConfig{InputSize: 3, Weights: []float64{1, 2}}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected argument error, got %v", err)
	}
	if _, err := NewNeuron(NeuronConfig{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected argument error, got %v", err)
	}
	for _, a := range []Activation{Activation(-1), Linear + 1, Activation(42)} {
		if _, err := NewNeuron(NeuronConfig{Weights: []float64{1}, Activation: a}); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("activation %v: expected argument error, got %v", a, err)
		}
		if _, err := NewNeuron(NeuronConfig{InputSize: 2, Activation: a}); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("random neuron, activation %v: expected argument error, got %v", a, err)
		}
	}
	n := mustNeuron(t, []float64{1, 2}, 0, ReLU)
	if _, err := n.Activate([]float64{1}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Activate: %v", err)
	}
	if err := n.UpdateWeights([]float64{1, 2, 3}, 0.1, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("UpdateWeights: %v", err)
	}
}

func TestRandomNeuronSeeded(t *testing.T) {
	a, err := NewNeuron(NeuronConfig{InputSize: 4, Activation: Tanh, Seed: seed(9)})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewNeuron(NeuronConfig{InputSize: 4, Activation: Tanh, Seed: seed(9)})
	lim := math.Sqrt(2.0 / 4)
	for i := range a.Weights {
		if a.Weights[i] != b.Weights[i] {
			t.Fatalf("seeded weights differ: %v vs %v", a.Weights, b.Weights)
		}
		if math.Abs(a.Weights[i]) > lim {
			t.Fatalf("weight %v outside +-%v", a.Weights[i], lim)
		}
	}
	if a.Bias != 0 {
		t.Fatalf("random neuron bias=%v want 0", a.Bias)
	}
	c, _ := NewNeuron(NeuronConfig{InputSize: 2, Bias: bias(0.3), Seed: seed(1)})
	if c.Bias != 0.3 {
		t.Fatalf("explicit bias ignored: %v", c.Bias)
	}
}

// The update direction must agree with the numeric gradient of
// 0.5*(out-target)^2.
func TestTrainStepFiniteDiff(t *testing.T) {
	for _, a := range []Activation{Sigmoid, Tanh, Linear} {
		n := mustNeuron(t, []float64{0.3, -0.2}, 0.05, a)
		in := []float64{0.7, 0.4}
		target := 0.9
		loss := func() float64 {
			out, _ := n.Activate(in)
			return 0.5 * (out - target) * (out - target)
		}

		eps := 1e-6
		w0 := n.Weights[0]
		n.Weights[0] = w0 + eps
		lp := loss()
		n.Weights[0] = w0 - eps
		lm := loss()
		n.Weights[0] = w0
		numGrad := (lp - lm) / (2 * eps)

		lr := 1e-3
		if _, err := n.TrainStep(in, target, lr); err != nil {
			t.Fatal(err)
		}
		anaGrad := (w0 - n.Weights[0]) / lr
		if math.Abs(numGrad-anaGrad) > 1e-6 {
			t.Fatalf("%v grad mismatch: num=%.8g ana=%.8g", a, numGrad, anaGrad)
		}
	}
}

func TestTrainStepReducesLoss(t *testing.T) {
	n := mustNeuron(t, []float64{0.1, 0.1}, 0, Sigmoid)
	in := []float64{1, 1}
	first, _ := n.TrainStep(in, 1, 0.5)
	var last float64
	for i := 0; i < 50; i++ {
		last, _ = n.TrainStep(in, 1, 0.5)
	}
	if last >= first {
		t.Fatalf("loss did not decrease: first=%v last=%v", first, last)
	}
}
