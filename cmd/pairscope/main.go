// Command pairscope is an interactive console for a trained pair
// classifier: type two texts, press Enter, and see the scored labels.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/quillnlp/pairtext/pkg/classifier"
)

func main() {
	_ = godotenv.Load()

	modelPath := flag.String("model", "model.json", "Path to a trained model")
	flag.Parse()

	ctx := context.Background()
	f, err := os.Open(*modelPath)
	if err != nil {
		log.Fatalf("open model: %v", err)
	}
	c, err := classifier.LoadFrom(ctx, f)
	f.Close()
	if err != nil {
		log.Fatalf("load model: %v", err)
	}

	if _, err := tea.NewProgram(newModel(c)).Run(); err != nil {
		log.Fatal(err)
	}
}
