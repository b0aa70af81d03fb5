package classifier

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/quillnlp/pairtext/pkg/textdata"
)

// TrainerConfig holds training hyperparameters.
type TrainerConfig struct {
	Epochs       int     // default 10
	LearningRate float64 // default 0.1
	Seed         int64   // shuffling seed
	NoShuffle    bool    // keep example order across epochs
}

// Trainer fits a PairClassifier's linear head with stochastic gradient
// descent: cross-entropy in single-label mode, per-label binary
// cross-entropy in multi-label mode. Representations are computed once up
// front since the embedding providers are fixed during head training.
type Trainer struct {
	cfg TrainerConfig
}

// NewTrainer creates a trainer, applying defaults for unset parameters.
func NewTrainer(cfg TrainerConfig) *Trainer {
	if cfg.Epochs <= 0 {
		cfg.Epochs = 10
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.1
	}
	return &Trainer{cfg: cfg}
}

// TrainResult reports the outcome of a training run.
type TrainResult struct {
	Epochs    int
	FinalLoss float64
}

// Train fits the classifier head on labeled pairs. Every pair must carry a
// gold label present in the classifier's label dictionary.
func (t *Trainer) Train(ctx context.Context, c *PairClassifier, pairs []*textdata.TextPair) (TrainResult, error) {
	if len(pairs) == 0 {
		return TrainResult{}, fmt.Errorf("no training pairs")
	}

	reprs := make([][]float32, len(pairs))
	golds := make([]int, len(pairs))
	for i, pair := range pairs {
		if pair.Gold == "" {
			return TrainResult{}, fmt.Errorf("training pair %d has no gold label", i)
		}
		idx, ok := c.labels.Index(pair.Gold)
		if !ok {
			return TrainResult{}, fmt.Errorf("training pair %d has label %q not in dictionary", i, pair.Gold)
		}
		repr, err := c.Representation(ctx, pair)
		if err != nil {
			return TrainResult{}, fmt.Errorf("embed training pair %d: %w", i, err)
		}
		reprs[i] = repr
		golds[i] = idx
	}

	rng := rand.New(rand.NewSource(t.cfg.Seed))
	order := make([]int, len(pairs))
	for i := range order {
		order[i] = i
	}

	lr := float32(t.cfg.LearningRate)
	loss := 0.0
	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		if !t.cfg.NoShuffle {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
		loss = 0.0
		for _, i := range order {
			sampleLoss, err := t.step(c, reprs[i], golds[i], lr)
			if err != nil {
				return TrainResult{}, err
			}
			loss += sampleLoss
		}
		loss /= float64(len(pairs))
	}
	return TrainResult{Epochs: t.cfg.Epochs, FinalLoss: loss}, nil
}

// step runs one SGD update and returns the sample loss.
func (t *Trainer) step(c *PairClassifier, x []float32, gold int, lr float32) (float64, error) {
	logits, err := c.head.Forward(x)
	if err != nil {
		return 0, err
	}
	goldLabel, err := c.labels.Label(gold)
	if err != nil {
		return 0, err
	}
	weight := c.lossWeight(goldLabel)

	var loss float64
	grads := make([]float32, len(logits))
	if c.multiLabel {
		for j := range logits {
			target := 0.0
			if j == gold {
				target = 1.0
			}
			p := Sigmoid(logits[j])
			grads[j] = float32((p - target) * weight)
			loss -= weight * (target*math.Log(clampProb(p)) + (1-target)*math.Log(clampProb(1-p)))
		}
	} else {
		probs := Softmax(logits)
		for j := range logits {
			target := 0.0
			if j == gold {
				target = 1.0
			}
			grads[j] = float32((probs[j] - target) * weight)
		}
		loss = -weight * math.Log(clampProb(probs[gold]))
	}

	for j, g := range grads {
		if g == 0 {
			continue
		}
		row := c.head.weights[j]
		for k, xk := range x {
			row[k] -= lr * g * xk
		}
		c.head.bias[j] -= lr * g
	}
	return loss, nil
}

// Evaluate returns accuracy of the classifier's top prediction against the
// gold labels of the given pairs.
func (t *Trainer) Evaluate(ctx context.Context, c *PairClassifier, pairs []*textdata.TextPair) (float64, error) {
	if len(pairs) == 0 {
		return 0, fmt.Errorf("no evaluation pairs")
	}
	correct := 0
	for i, pair := range pairs {
		if pair.Gold == "" {
			return 0, fmt.Errorf("evaluation pair %d has no gold label", i)
		}
		scores, err := c.Scores(ctx, pair)
		if err != nil {
			return 0, err
		}
		if len(scores) > 0 && scores[0].Value == pair.Gold {
			correct++
		}
	}
	return float64(correct) / float64(len(pairs)), nil
}

func clampProb(p float64) float64 {
	const eps = 1e-12
	if p < eps {
		return eps
	}
	return p
}
