package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"cbeta-search/internal/citation"
	"cbeta-search/internal/config"
	"cbeta-search/internal/corpus"
	"cbeta-search/internal/embedding"
	"cbeta-search/internal/engine"
	"cbeta-search/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, corpusDir string
	var topK int
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file")
	flag.StringVar(&corpusDir, "corpus", "", "Corpus directory (overrides config)")
	flag.IntVar(&topK, "top-k", 0, "Number of passages to return (overrides config)")
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Usage: cbeta-query [--config=config.yaml] [--corpus=dir] [--top-k=3] query...")
		os.Exit(1)
	}
	query := strings.Join(flag.Args(), " ")

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
	if topK <= 0 {
		topK = cfg.Search.TopK
	}

	docs, err := corpus.LoadDir(cfg.Corpus.Dir)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}

	emb, err := embedding.New(cfg.Embedder)
	if err != nil {
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

	fmt.Println(engine.FormatPassages(eng.SearchPassages(query, topK)))
}
