package main

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/maximodanilo/llm-demo-app-sub000/pipeline"
	"github.com/maximodanilo/llm-demo-app-sub000/transformer"
	"github.com/maximodanilo/llm-demo-app-sub000/utils"
)

const plotHeight = 10

// barChart renders values (0..1) as vertical bars colWidth columns wide. The
// axis under the bars carries the index of every labelEvery-th value, skipped
// where it would run into the previous label.
func barChart(values []float64, colWidth, labelEvery int) string {
	if len(values) == 0 {
		return "no data to plot\n"
	}
	colWidth = max(colWidth, 1)
	labelEvery = max(labelEvery, 1)

	var b strings.Builder
	for row := plotHeight; row >= 1; row-- {
		threshold := float64(row) / plotHeight
		for _, v := range values {
			cell := " "
			if v >= threshold {
				cell = "█"
			}
			b.WriteString(strings.Repeat(cell, colWidth))
		}
		b.WriteByte('\n')
	}

	width := len(values) * colWidth
	b.WriteString(strings.Repeat("─", width))
	b.WriteByte('\n')
	axis := []byte(strings.Repeat(" ", width))
	free := 0
	for i := 0; i < len(values); i += labelEvery {
		col, label := i*colWidth, strconv.Itoa(i)
		if col < free || col+len(label) > width {
			continue
		}
		copy(axis[col:], label)
		free = col + len(label) + 1
	}
	b.WriteString(strings.TrimRight(string(axis), " "))
	b.WriteByte('\n')
	return b.String()
}

// printMatrix prints rows in gonum's compact form.
func printMatrix(rows [][]float64, name string) {
	m, err := utils.RowsToDense(rows)
	if err != nil {
		fmt.Printf("%s: (empty)\n", name)
		return
	}
	r, c := m.Dims()
	fmt.Printf("%s (%dx%d):\n", name, r, c)
	fa := mat.Formatted(m, mat.Prefix("  "), mat.Squeeze())
	fmt.Printf("  %.3f\n", fa)
}

func printTrace(sess *pipeline.Session, tr *pipeline.Trace) {
	fmt.Printf("\n[1/6] Tokens (%d):\n", len(tr.Tokens))
	for i, t := range tr.Tokens {
		fmt.Printf("  %-12q id=%-5d mock=%d\n", t, tr.IDs[i], tr.MockIDs[i])
	}
	fmt.Printf("      vocabulary size: %d\n", sess.Tokenizer.VocabSize())

	fmt.Println("\n[2/6] Embeddings:")
	dims := sess.Config.VisDims
	for i, t := range tr.Tokens {
		v, err := sess.Embeddings.Visualization(sess.EmbeddingID(tr.IDs[i]), dims)
		if err != nil {
			fmt.Println("  ⚠️", err)
			break
		}
		fmt.Printf("  %-12q %.4f\n", t, v)
	}

	if k := sess.Config.Neighbors; k > 0 && len(tr.Tokens) > 0 {
		fmt.Printf("\n      nearest %d to %q:\n", k, tr.Tokens[0])
		ns, err := sess.Neighbors(tr.Tokens[0], k)
		if err != nil {
			fmt.Println("  ⚠️", err)
		}
		for _, n := range ns {
			fmt.Printf("  %-12q id=%-5d sim=%.4f\n", n.Token, n.ID, n.Similarity)
		}
	}

	fmt.Println("\n[3/6] Positional encoding added:")
	printMatrix(tr.Positioned, "X")

	fmt.Println("\n[4/6] Attention weights:")
	printMatrix(tr.Attention, "A")
	if len(tr.Attention) > 0 {
		fmt.Printf("      last position attends to (by position):\n")
		fmt.Print(barChart(tr.Attention[len(tr.Attention)-1], 3, 1))
	}

	fmt.Println("\n[5/6] Attention output:")
	printMatrix(tr.Context, "C")

	fmt.Println("\n[6/6] Feed-forward layer:")
	printMatrix(tr.FeedForward, "F")
}

// trainNeuron runs the single-neuron learning step on the mean attention
// output, pushing the neuron's output towards 1.
func trainNeuron(sess *pipeline.Session, tr *pipeline.Trace, steps int) error {
	if len(tr.Context) == 0 {
		return fmt.Errorf("no tokens to learn from")
	}
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	in := make([]float64, len(tr.Context[0]))
	for _, row := range tr.Context {
		for j, v := range row {
			in[j] += v / float64(len(tr.Context))
		}
	}
	n, err := transformer.NewNeuron(transformer.NeuronConfig{
		InputSize:  len(in),
		Activation: transformer.Sigmoid,
		Seed:       sess.Config.Seed,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nSingle neuron, %d steps, lr=%g:\n", steps, sess.Config.LearningRate)
	losses := make([]float64, steps)
	for i := range losses {
		loss, err := n.TrainStep(in, 1.0, sess.Config.LearningRate)
		if err != nil {
			return err
		}
		losses[i] = loss
		if i%10 == 0 || i == steps-1 {
			fmt.Printf("  step %3d  out=%.4f  loss=%.6f\n", i, n.LastOutput(), loss)
		}
	}
	if losses[0] > 0 {
		for i := range losses {
			losses[i] /= losses[0]
		}
	}
	fmt.Println("  loss / first loss, by step:")
	fmt.Print(barChart(losses, 1, 10))
	fmt.Println("✅ Done")
	return nil
}
