package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maximodanilo/llm-demo-app-sub000/IO"
	"github.com/maximodanilo/llm-demo-app-sub000/params"
	"github.com/maximodanilo/llm-demo-app-sub000/pipeline"
)

var (
	textFlag      string
	tokenizerFlag string
	tokPathFlag   string
	seedFlag      int64
	strategyFlag  string
	dimFlag       int
	vocabFlag     int
	hiddenFlag    int
	actFlag       string
	causalFlag    bool
	neighborsFlag int
	visDimsFlag   int
	lrFlag        float64
	trainFlag     int
	exportFlag    string
	importFlag    string
	cliFlag       bool
	debugFlag     bool
	forceFlag     bool
)

func init() {
	d := params.Defaults
	flag.StringVar(&textFlag, "text", "", "Text to push through every stage")
	flag.StringVar(&tokenizerFlag, "tokenizer", d.Tokenizer, "Tokenizer: word, subword or pretrained")
	flag.StringVar(&tokPathFlag, "tokpath", "", "tokenizer.json for -tokenizer pretrained")
	flag.Int64Var(&seedFlag, "seed", -1, "Seed for embeddings and neurons (-1 = wall clock)")
	flag.StringVar(&strategyFlag, "strategy", d.Strategy, "Embedding init: zeros, random or xavier")
	flag.IntVar(&dimFlag, "dim", d.EmbeddingDim, "Embedding dimension")
	flag.IntVar(&vocabFlag, "vocab", d.VocabSize, "Rows in the embedding table")
	flag.IntVar(&hiddenFlag, "hidden", d.HiddenSize, "Neurons in the feed-forward layer")
	flag.StringVar(&actFlag, "activation", d.Activation, "Activation: relu, sigmoid, tanh or linear")
	flag.BoolVar(&causalFlag, "causal", d.Causal, "Causal attention mask")
	flag.IntVar(&neighborsFlag, "neighbors", d.Neighbors, "Nearest neighbours to show per token (0 = none)")
	flag.IntVar(&visDimsFlag, "visdims", d.VisDims, "Embedding components to print")
	flag.Float64Var(&lrFlag, "lr", d.LearningRate, "Learning rate for the neuron step")
	flag.IntVar(&trainFlag, "train", 0, "Single-neuron learning steps to run")
	flag.StringVar(&exportFlag, "export", "", "Directory to write vocab.json and embeddings.bin into")
	flag.StringVar(&importFlag, "import", "", "Directory to read vocab.json and embeddings.bin from")
	flag.BoolVar(&cliFlag, "cli", false, "Interactive mode")
	flag.BoolVar(&debugFlag, "debug", false, "Print debug lines to stderr")
	flag.BoolVar(&forceFlag, "force", false, "Overwrite an existing export")
}

func main() {
	flag.Parse()
	params.Debug = debugFlag

	cfg := params.Defaults
	cfg.Tokenizer = tokenizerFlag
	cfg.TokenizerPath = tokPathFlag
	if seedFlag >= 0 {
		cfg.Seed = params.SeedPtr(seedFlag)
	}
	cfg.Strategy = strategyFlag
	cfg.EmbeddingDim = dimFlag
	cfg.VocabSize = vocabFlag
	cfg.HiddenSize = hiddenFlag
	cfg.Activation = actFlag
	cfg.Causal = causalFlag
	cfg.Neighbors = neighborsFlag
	cfg.VisDims = visDimsFlag
	cfg.LearningRate = lrFlag

	sess, err := buildSession(cfg)
	if err != nil {
		panic(err)
	}

	if cliFlag {
		VisualizerCLI(sess)
	} else if textFlag != "" {
		tr, err := sess.Run(textFlag)
		if err != nil {
			panic(err)
		}
		printTrace(sess, tr)
		if trainFlag > 0 {
			if err := trainNeuron(sess, tr, trainFlag); err != nil {
				panic(err)
			}
		}
	} else {
		fmt.Println("No input. Use -text \"...\" for one pass, or -cli for interactive mode.")
	}

	if exportFlag != "" {
		if err := export(sess, exportFlag); err != nil {
			panic(err)
		}
	}
}

func buildSession(cfg params.VizConfig) (*pipeline.Session, error) {
	if importFlag == "" {
		return pipeline.New(cfg)
	}
	vocab, err := IO.ImportVocabJSON(filepath.Join(importFlag, "vocab.json"))
	if err != nil {
		return nil, err
	}
	var tok IO.Tokenizer
	switch cfg.Tokenizer {
	case "subword":
		tok = IO.NewSubwordTokenizerFrom(vocab)
	case "", "word":
		tok = IO.NewWordTokenizerFrom(vocab)
	default:
		return nil, fmt.Errorf("-import needs the word or subword tokenizer, got %q", cfg.Tokenizer)
	}
	sess, err := pipeline.NewWithTokenizer(cfg, tok)
	if err != nil {
		return nil, err
	}
	embPath := filepath.Join(importFlag, "embeddings.bin")
	if IO.FileExists(embPath) {
		if err := IO.LoadEmbeddings(embPath, sess.Embeddings); err != nil {
			return nil, err
		}
		if sess.Embeddings.Dim() != cfg.EmbeddingDim {
			return nil, fmt.Errorf("%s has dim %d, -dim is %d", embPath, sess.Embeddings.Dim(), cfg.EmbeddingDim)
		}
		fmt.Println("⚡ Using saved embeddings from", embPath)
	}
	fmt.Printf("⚡ Imported vocabulary (%d tokens)\n", vocab.Size())
	return sess, nil
}

func export(sess *pipeline.Session, dir string) error {
	vocabPath := filepath.Join(dir, "vocab.json")
	embPath := filepath.Join(dir, "embeddings.bin")
	if IO.FileExists(vocabPath) && !forceFlag {
		fmt.Println("⚠️ Export exists, pass -force to overwrite:", vocabPath)
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	v, ok := sess.Tokenizer.(interface{ Vocabulary() *params.Vocabulary })
	if !ok {
		return fmt.Errorf("tokenizer %T has no exportable vocabulary", sess.Tokenizer)
	}
	if err := IO.ExportVocabJSON(vocabPath, v.Vocabulary()); err != nil {
		return err
	}
	fmt.Println("✅ Exported", vocabPath)
	if err := IO.SaveEmbeddings(embPath, sess.Embeddings); err != nil {
		return err
	}
	fmt.Println("✅ Exported", embPath)
	return nil
}
