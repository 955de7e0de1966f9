package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/athapong/kinship/pkg/config"
	"github.com/athapong/kinship/pkg/graph"
	"github.com/athapong/kinship/pkg/graph/storage"
	"github.com/athapong/kinship/pkg/graph/visualizer"
	"github.com/athapong/kinship/pkg/kinship"
	"github.com/sirupsen/logrus"
)

var (
	inputFile       = flag.String("input", "", "JSON file holding people and relationships")
	rootID          = flag.String("root", "", "Id of the root person")
	personID        = flag.String("person", "", "Only print the label of this person")
	configFile      = flag.String("config", "", "Path to YAML config file")
	visualizeOutput = flag.String("viz-output", "", "Write a D3.js family view to this HTML file")
	logLevel        = flag.String("log-level", "", "Logging level (debug, info, warn, error); overrides config")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(cfg.Level())
	if *logLevel != "" {
		level, err := logrus.ParseLevel(*logLevel)
		if err != nil {
			logger.Fatalf("Invalid log level: %v", err)
		}
		logger.SetLevel(level)
	}

	if *inputFile == "" {
		*inputFile = cfg.Storage.DataFile
	}
	if *inputFile == "" {
		logger.Fatal("Input file must be specified")
	}
	if *rootID == "" {
		logger.Fatal("Root person must be specified")
	}

	ctx := context.Background()
	family, err := storage.NewJSONFamilyStore(*inputFile).LoadFamily(ctx)
	if err != nil {
		logger.Fatalf("Failed to load family: %v", err)
	}

	engine := kinship.NewEngine(append(kinship.FromConfig(cfg), kinship.WithLogger(logger))...)
	snap := engine.SnapshotFamily(family)

	stats := snap.Stats()
	logger.WithFields(logrus.Fields{
		"people":   stats.People,
		"links":    stats.ParentLinks,
		"encoding": stats.Encoding,
		"dropped":  stats.Dropped,
	}).Info("Family indexed")

	root, ok := snap.Index().Person(*rootID)
	if !ok {
		logger.Fatalf("Root person %s not found", *rootID)
	}

	if *personID != "" {
		p, ok := snap.Index().Person(*personID)
		if !ok {
			logger.Fatalf("Person %s not found", *personID)
		}
		fmt.Printf("%s: %s\n", p.DisplayName(), snap.Resolve(p.ID, root.ID))
		return
	}

	pipeline := kinship.NewPipeline(
		kinship.WithWorkers(cfg.Pipeline.Workers),
		kinship.WithPipelineLogger(logger),
	)
	result, err := pipeline.ResolveFamily(ctx, snap, root.ID)
	if err != nil {
		logger.Fatalf("Failed to label family: %v", err)
	}
	printLabels(snap.Index(), result.Labels)

	if *visualizeOutput != "" {
		view, err := visualizer.NewFamilyView(snap, root.ID)
		if err != nil {
			logger.Fatalf("Failed to build family view: %v", err)
		}
		viz := visualizer.NewD3Visualizer(*visualizeOutput)
		if err := viz.Visualize(view, root.DisplayName()); err != nil {
			logger.Errorf("Failed to visualize family: %v", err)
		} else {
			logger.Infof("Visualization saved to %s", *visualizeOutput)
		}
	}
}

func printLabels(ix *graph.Index, labels map[string]string) {
	ids := make([]string, 0, len(labels))
	for id := range labels {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p, _ := ix.Person(id)
		fmt.Fprintf(os.Stdout, "%s: %s\n", p.DisplayName(), labels[id])
	}
}
