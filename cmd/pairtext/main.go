// Command pairtext trains, evaluates, and runs pairwise text classifiers
// on TSV datasets of the form "first<TAB>second<TAB>label".
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/quillnlp/pairtext/pkg/classifier"
	"github.com/quillnlp/pairtext/pkg/embedding"
	"github.com/quillnlp/pairtext/pkg/embedding/stats"
	"github.com/quillnlp/pairtext/pkg/embedding/tfidf"
	"github.com/quillnlp/pairtext/pkg/textdata"
)

func main() {
	// Optional .env with API keys; absence is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "train":
		err = runTrain(ctx, os.Args[2:])
	case "eval":
		err = runEval(ctx, os.Args[2:])
	case "predict":
		err = runPredict(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage:
  pairtext train   --config=config.yaml --data=train.tsv --out=model.json
  pairtext eval    --model=model.json --data=test.tsv
  pairtext predict --model=model.json [--data=pairs.tsv | --first=... --second=...]`)
}

func runTrain(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "Path to config YAML")
	dataPath := fs.String("data", "", "Path to training TSV")
	outPath := fs.String("out", "model.json", "Path to write the trained model")
	fs.Parse(args)

	if *dataPath == "" {
		return fmt.Errorf("train: --data is required")
	}
	cfg, err := LoadConfig(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pairs, err := readPairs(*dataPath)
	if err != nil {
		return err
	}

	c, err := buildClassifier(ctx, cfg, pairs)
	if err != nil {
		return err
	}

	trainer := classifier.NewTrainer(classifier.TrainerConfig{
		Epochs:       cfg.Training.Epochs,
		LearningRate: cfg.Training.LearningRate,
		Seed:         cfg.Training.Seed,
	})
	result, err := trainer.Train(ctx, c, pairs)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	acc, err := trainer.Evaluate(ctx, c, pairs)
	if err != nil {
		return err
	}
	log.Printf("trained %d epochs, final loss %.4f, train accuracy %.3f", result.Epochs, result.FinalLoss, acc)

	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := c.SaveTo(f); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	log.Printf("model written to %s", *outPath)
	return nil
}

func runEval(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	modelPath := fs.String("model", "model.json", "Path to a trained model")
	dataPath := fs.String("data", "", "Path to labeled TSV")
	fs.Parse(args)

	if *dataPath == "" {
		return fmt.Errorf("eval: --data is required")
	}
	c, err := loadModel(ctx, *modelPath)
	if err != nil {
		return err
	}
	pairs, err := readPairs(*dataPath)
	if err != nil {
		return err
	}
	acc, err := classifier.NewTrainer(classifier.TrainerConfig{}).Evaluate(ctx, c, pairs)
	if err != nil {
		return err
	}
	fmt.Printf("accuracy: %.3f (%d pairs)\n", acc, len(pairs))
	return nil
}

func runPredict(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	modelPath := fs.String("model", "model.json", "Path to a trained model")
	dataPath := fs.String("data", "", "Path to TSV of pairs to classify")
	first := fs.String("first", "", "First text of a single pair")
	second := fs.String("second", "", "Second text of a single pair")
	fs.Parse(args)

	c, err := loadModel(ctx, *modelPath)
	if err != nil {
		return err
	}

	var pairs []*textdata.TextPair
	switch {
	case *dataPath != "":
		pairs, err = readPairs(*dataPath)
		if err != nil {
			return err
		}
	case *first != "" && *second != "":
		pairs = []*textdata.TextPair{textdata.NewTextPair(*first, *second)}
	default:
		return fmt.Errorf("predict: provide --data or both --first and --second")
	}

	predictions, err := c.PredictBatch(ctx, pairs)
	if err != nil {
		return err
	}
	for i, labels := range predictions {
		pair := pairs[i]
		if len(labels) == 0 {
			fmt.Printf("%s\t%s\t<none>\n", pair.First.Text(), pair.Second.Text())
			continue
		}
		fmt.Printf("%s\t%s\t%s (%.3f)\n", pair.First.Text(), pair.Second.Text(), labels[0].Value, labels[0].Score)
	}
	return nil
}

func readPairs(path string) ([]*textdata.TextPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pairs, err := textdata.ReadPairTSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no pairs in %s", path)
	}
	return pairs, nil
}

func loadModel(ctx context.Context, path string) (*classifier.PairClassifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := classifier.LoadFrom(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return c, nil
}

// buildClassifier assembles the provider and classifier from config.
// The TF-IDF provider is fitted on the training texts before the
// classifier is sized, since its dimension is the vocabulary size.
func buildClassifier(ctx context.Context, cfg *AppConfig, pairs []*textdata.TextPair) (*classifier.PairClassifier, error) {
	var provider embedding.Provider
	switch cfg.Embedder.Type {
	case "stats", "":
		provider = stats.New(cfg.Embedder.Dimension)
	case "mock":
		provider = embedding.NewMockProvider(cfg.Embedder.Dimension)
	case "tfidf":
		p := tfidf.New()
		corpus := make([]string, 0, 2*len(pairs))
		for _, pair := range pairs {
			corpus = append(corpus, pair.First.Text(), pair.Second.Text())
		}
		if err := p.Fit(corpus); err != nil {
			return nil, fmt.Errorf("fit tfidf: %w", err)
		}
		provider = p
	case "openai":
		oc := cfg.Embedder.OpenAI
		p, err := embedding.NewOpenAIProvider(&embedding.OpenAIConfig{
			APIKey:  os.Getenv(oc.APIKeyEnv),
			BaseURL: oc.BaseURL,
			Model:   oc.Model,
		})
		if err != nil {
			return nil, err
		}
		provider = p
	case "sidecar":
		sc := cfg.Embedder.Sidecar
		if sc == nil {
			sc = &SidecarEmbedderConfig{}
		}
		p, err := embedding.NewSidecarProvider(ctx, &embedding.SidecarConfig{
			Address:        sc.Address,
			ModelName:      sc.Model,
			Dimension:      sc.Dimension,
			SeparatorToken: sc.SeparatorToken,
		})
		if err != nil {
			return nil, err
		}
		provider = p
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	embedder, err := embedding.NewDocumentEmbedder(provider)
	if err != nil {
		return nil, err
	}

	labels := textdata.NewLabelDictionary()
	for _, l := range cfg.Classifier.Labels {
		labels.Add(l)
	}
	// Labels may also come straight from the training data.
	for _, pair := range pairs {
		if pair.Gold != "" {
			labels.Add(pair.Gold)
		}
	}

	return classifier.New(classifier.Config{
		Embeddings:          embedder,
		LabelType:           cfg.Classifier.LabelType,
		Labels:              labels,
		MultiLabel:          cfg.Classifier.MultiLabel,
		MultiLabelThreshold: cfg.Classifier.MultiLabelThreshold,
		LossWeights:         cfg.Classifier.LossWeights,
		EmbedSeparately:     cfg.Classifier.EmbedSeparately,
		Seed:                cfg.Classifier.Seed,
	})
}
