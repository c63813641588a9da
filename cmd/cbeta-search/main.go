package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"cbeta-search/internal/citation"
	"cbeta-search/internal/config"
	"cbeta-search/internal/corpus"
	"cbeta-search/internal/domain"
	"cbeta-search/internal/embedding"
	"cbeta-search/internal/engine"
	"cbeta-search/internal/summarizer"
	"cbeta-search/internal/tui"
	"cbeta-search/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, corpusDir string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/cbeta-search/config.yaml if not provided)")
	flag.StringVar(&corpusDir, "corpus", "", "Corpus directory (overrides config)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if corpusDir != "" {
		cfg.Corpus.Dir = corpusDir
	}

	docs, err := corpus.LoadDir(cfg.Corpus.Dir)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}

	emb, err := embedding.New(cfg.Embedder)
	if err != nil {
		// retrieval still works through keyword search
		slog.Warn("embedder unavailable", "error", err)
		emb = nil
	}
	store, err := vectorstore.New(cfg.VectorStore)
	if err != nil {
		log.Fatalf("failed to build vector store: %v", err)
	}

	eng := engine.New(docs, engine.Options{
		Embedder:  emb,
		Store:     store,
		BatchSize: cfg.Embedder.BatchSize,
		Citation:  citation.WithOverrides(cfg.Citation.Label, cfg.Citation.URLTemplate),
	})
	if err := eng.Index(); err != nil {
		log.Fatalf("failed to index corpus: %v", err)
	}

	m := tui.New(eng, corpusSummary(docs, eng), cfg.Search.TopK)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func corpusSummary(docs []domain.Document, eng *engine.Engine) string {
	var b strings.Builder
	for _, d := range docs {
		b.WriteString(d.Content)
		b.WriteString("\n")
	}
	sum := summarizer.NewFrequencySummarizer()
	overview, err := sum.Summarize(b.String(), 2)
	if err != nil || overview == "" {
		overview = "—"
	}
	return fmt.Sprintf("%d 部經、%d 段（%s 模式）%s", len(docs), len(eng.Paragraphs()), eng.Mode(), overview)
}
