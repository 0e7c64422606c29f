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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"order-extractor/internal/email"
)

var analyzeFile string

// analyzeCmd runs the pipeline on a single email stored as JSON
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify and extract one email from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := buildPipeline()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return fmt.Errorf("failed to read email file: %w", err)
		}

		var msg email.EmailMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("failed to parse email file: %w", err)
		}

		result := p.ClassifyAndExtract(cmd.Context(), &msg)
		return printJSON(result)
	},
}

// batchCmd runs the pipeline on a JSON array of emails
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Classify and extract a batch of emails from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := buildPipeline()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return fmt.Errorf("failed to read batch file: %w", err)
		}

		var msgs []*email.EmailMessage
		if err := json.Unmarshal(data, &msgs); err != nil {
			return fmt.Errorf("failed to parse batch file: %w", err)
		}

		results := p.ClassifyAndExtractBatch(cmd.Context(), msgs)
		return printJSON(results)
	},
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "path to the email JSON file")
	analyzeCmd.MarkFlagRequired("file")
	batchCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "path to the emails JSON file")
	batchCmd.MarkFlagRequired("file")
}
