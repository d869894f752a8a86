package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/maximodanilo/llm-demo-app-sub000/pipeline"
)

// VisualizerCLI reads lines from stdin and prints the trace for each.
// ":nn <token> [k]" lists neighbours of a token already in the vocabulary, ":train <n>" runs the neuron step on the
// last input.
func VisualizerCLI(sess *pipeline.Session) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Visualizer CLI. Type text, ':nn <token> [k]', ':train <n>' or 'exit'.")
	var last *pipeline.Trace
	for {
		fmt.Print("> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "exit" || (err != nil && input == "") {
			break
		}
		if input == "" {
			continue
		}

		fields := strings.Fields(input)
		switch fields[0] {
		case ":nn":
			if len(fields) < 2 {
				fmt.Println("usage: :nn <token> [k]")
				continue
			}
			k := sess.Config.Neighbors
			if len(fields) > 2 {
				if v, err := strconv.Atoi(fields[2]); err == nil {
					k = v
				}
			}
			tok := fields[1]
			if sess.Config.Tokenizer != "pretrained" {
				tok = strings.ToLower(tok)
			}
			ns, err := sess.Neighbors(tok, k)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			for _, n := range ns {
				fmt.Printf("  %-12q id=%-5d sim=%.4f\n", n.Token, n.ID, n.Similarity)
			}
		case ":train":
			if last == nil {
				fmt.Println("Type some text first.")
				continue
			}
			steps := 50
			if len(fields) > 1 {
				if v, err := strconv.Atoi(fields[1]); err == nil {
					steps = v
				}
			}
			if err := trainNeuron(sess, last, steps); err != nil {
				fmt.Println("Error:", err)
			}
		default:
			tr, err := sess.Run(input)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printTrace(sess, tr)
			last = tr
		}
	}
}
