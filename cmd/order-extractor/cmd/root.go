// Copyright 2024 Order Extraction System
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"order-extractor/internal/config"
	"order-extractor/internal/langdetect"
	"order-extractor/internal/llm"
	"order-extractor/internal/pipeline"
	"order-extractor/internal/retailers"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "order-extractor",
	Short: "Extract structured purchase-order data from email text",
	Long: `Order Extractor

DESCRIPTION:
    Classifies emails as order-related or not and extracts structured
    purchase-order facts (order number, retailer, amount, status, delivery
    estimate, tracking info) using merchant-specific patterns with an
    optional LLM fallback.

CONFIGURATION:
    Settings load from order-extractor.yaml and ORDER_EXTRACTOR_*
    environment variables, e.g.:

    ORDER_EXTRACTOR_LLM_PROVIDER=openai
    ORDER_EXTRACTOR_LLM_API_KEY=sk-...
    ORDER_EXTRACTOR_LLM_ENABLED=true`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
}

// buildPipeline assembles the extraction pipeline from configuration
func buildPipeline() (*pipeline.Pipeline, *config.Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	registry := retailers.DefaultRegistry(cfg.ToWeights())
	detector := langdetect.NewDetector()
	analyzer := llm.NewAnalyzer(cfg.ToLLMConfig())

	p, err := pipeline.New(registry, detector, analyzer, cfg.ToThresholds(), cfg.DebugMode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	return p, cfg, nil
}
