// Command bplan is the CLI wrapper of spec.md §6: it loads a grounded
// task and a configuration, runs the Forbidden-Behaviour Iterator, and
// prints the resulting lifted plans as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitrdm/bplan/pkg/behaviourspace"
	"github.com/gitrdm/bplan/pkg/feature"
	"github.com/gitrdm/bplan/pkg/iterator"
	"github.com/gitrdm/bplan/pkg/planconfig"
	"github.com/gitrdm/bplan/pkg/planerr"
	"github.com/gitrdm/bplan/pkg/specdsl"
	"github.com/gitrdm/bplan/pkg/task"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// staticSeedPlanner stands in for the external optimal planner
// collaborator of spec.md §1, which is out of scope for this module: it
// hands back whatever seed plan the CLI caller already computed offline
// and serialised to JSON.
type staticSeedPlanner struct {
	result behaviourspace.SeedPlanResult
}

func (p staticSeedPlanner) Plan(*task.Task) (behaviourspace.SeedPlanResult, error) {
	return p.result, nil
}

func run(args []string) int {
	var (
		taskPath   string
		configPath string
		seedPath   string
		k          int
		exitCode   = 0
	)

	root := &cobra.Command{
		Use:           "bplan",
		Short:         "Behaviour-space symbolic planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVar(&taskPath, "task", "", "path to a grounded task JSON file (required)")
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML configuration file (defaults used if omitted)")
	root.Flags().StringVar(&seedPath, "seed-plan", "", "path to a JSON seed plan file (required for non-oversubscription tasks)")
	root.Flags().IntVar(&k, "k", 1, "number of plans to find")

	root.RunE = func(cmd *cobra.Command, args []string) error {
		if taskPath == "" {
			return fmt.Errorf("bplan: --task is required: %w", planerr.ErrInvalidConfig)
		}

		cfg := planconfig.Default()
		if configPath != "" {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("bplan: reading config: %v: %w", err, planerr.ErrInvalidConfig)
			}
			cfg, err = planconfig.Load(data)
			if err != nil {
				return err
			}
		}

		t, err := loadTask(taskPath)
		if err != nil {
			return err
		}

		var seed behaviourspace.SeedPlanResult
		if seedPath != "" {
			seed, err = loadSeedPlan(seedPath)
			if err != nil {
				return err
			}
		} else if !t.IsOversubscription() {
			return fmt.Errorf("bplan: --seed-plan is required for non-oversubscription tasks: %w", planerr.ErrNoSeedPlan)
		}

		features, err := buildFeatures(cfg, t, seed.Length)
		if err != nil {
			return err
		}

		space, err := behaviourspace.New(t, cfg, features, staticSeedPlanner{result: seed})
		if err != nil {
			return err
		}

		it := iterator.New(space, cfg)
		plans, err := it.Run(context.Background(), k)
		if err != nil {
			return err
		}

		lifted := make([]*task.LiftedPlan, len(plans))
		for i, p := range plans {
			lifted[i] = task.Lift(p)
		}
		if err := json.NewEncoder(os.Stdout).Encode(lifted); err != nil {
			return fmt.Errorf("bplan: encoding output: %w", err)
		}

		if len(plans) == 0 {
			exitCode = 1
		}
		return nil
	}

	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return exitCode
}

func loadTask(path string) (*task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bplan: reading task: %v: %w", err, planerr.ErrInvalidConfig)
	}
	var t task.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("bplan: parsing task: %v: %w", err, planerr.ErrInvalidConfig)
	}
	return &t, nil
}

func loadSeedPlan(path string) (behaviourspace.SeedPlanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return behaviourspace.SeedPlanResult{}, fmt.Errorf("bplan: reading seed plan: %v: %w", err, planerr.ErrNoSeedPlan)
	}
	var seed behaviourspace.SeedPlanResult
	if err := json.Unmarshal(data, &seed); err != nil {
		return behaviourspace.SeedPlanResult{}, fmt.Errorf("bplan: parsing seed plan: %v: %w", err, planerr.ErrNoSeedPlan)
	}
	return seed, nil
}

func buildFeatures(cfg planconfig.Config, t *task.Task, optimalPlanLength int) ([]feature.Feature, error) {
	var feats []feature.Feature
	for _, fs := range cfg.Features {
		switch fs.Kind {
		case planconfig.KindGoalOrdering:
			feats = append(feats, feature.NewGoalOrdering(t))
		case planconfig.KindLandmarkOrdering:
			feats = append(feats, feature.NewLandmarkOrdering(fs.LandmarkPredicates))
		case planconfig.KindCostBound:
			feats = append(feats, feature.NewCostBound(t, cfg.QualityBoundFactor, optimalPlanLength))
		case planconfig.KindResourceCount:
			names, err := parseResourceNames(fs.ResourceFile)
			if err != nil {
				return nil, err
			}
			feats = append(feats, feature.NewResourceCount(names))
		case planconfig.KindUtilityValue:
			feats = append(feats, feature.NewUtilityValue(t))
		case planconfig.KindUtilitySet:
			feats = append(feats, feature.NewUtilitySet(t))
		case planconfig.KindFunctions:
			specs, err := parseFunctionSpecs(fs.FunctionFile)
			if err != nil {
				return nil, err
			}
			feats = append(feats, feature.NewFunctionBox(specs))
		default:
			return nil, fmt.Errorf("bplan: unknown feature kind %q: %w", fs.Kind, planerr.ErrInvalidConfig)
		}
	}
	return feats, nil
}

func parseResourceNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bplan: reading resource file: %v: %w", err, planerr.ErrSpecParse)
	}
	entries, err := specdsl.ParseResourceFile(string(data))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

func parseFunctionSpecs(path string) ([]feature.FunctionSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bplan: reading function file: %v: %w", err, planerr.ErrSpecParse)
	}
	entries, err := specdsl.ParseFunctionFile(string(data))
	if err != nil {
		return nil, err
	}
	specs := make([]feature.FunctionSpec, len(entries))
	for i, e := range entries {
		specs[i] = feature.FunctionSpec{Name: e.Name, Key: e.Name, Min: e.Min, Max: e.Max, Delta: e.Delta}
	}
	return specs, nil
}
